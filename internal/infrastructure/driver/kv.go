package driver

import "time"

// KeyValueDB define a key-value storage interface
type KeyValueDB interface {
	Set(key string, value string) error
	SetEX(key string, value string, expiration time.Duration) error
	Get(key string) (string, error)
	Exists(key string) (bool, error)
	Del(key string) error
	Ping() error
}

// ErrKeyNotFound returned by Get when the key is absent
type ErrKeyNotFound struct {
	Key string
}

func (e *ErrKeyNotFound) Error() string {
	return "key not found: " + e.Key
}
