package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var ctx = context.Background()

// RedisClient .
type RedisClient struct {
	conn *redis.Client
}

// NewRedisClient create a redis client
func NewRedisClient(host string, port int, password string) *RedisClient {
	conn := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
	})
	return &RedisClient{
		conn: conn,
	}
}

// Set implement KeyValueDB
func (rdb *RedisClient) Set(key string, value string) error {
	return rdb.conn.Set(ctx, key, value, 0).Err()
}

// SetEX implement KeyValueDB
func (rdb *RedisClient) SetEX(key string, value string, expiration time.Duration) error {
	return rdb.conn.Set(ctx, key, value, expiration).Err()
}

// Get implement KeyValueDB
func (rdb *RedisClient) Get(key string) (string, error) {
	cmd := rdb.conn.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", &ErrKeyNotFound{Key: key}
		}
		return "", err
	}
	return cmd.Result()
}

// Exists implement KeyValueDB
func (rdb *RedisClient) Exists(key string) (bool, error) {
	cmd := rdb.conn.Exists(ctx, key)
	if ok, err := cmd.Result(); err == nil {
		return ok == 1, nil
	} else {
		return false, err
	}
}

// Del implement KeyValueDB
func (rdb *RedisClient) Del(key string) error {
	return rdb.conn.Del(ctx, key).Err()
}

// Ping implement KeyValueDB
func (rdb *RedisClient) Ping() error {
	return rdb.conn.Ping(ctx).Err()
}

// Publish fan a message out to topic subscribers
func (rdb *RedisClient) Publish(ctx context.Context, topic string, payload string) error {
	return rdb.conn.Publish(ctx, topic, payload).Err()
}

// Subscribe register fn for every message published on topic. The returned
// disposer stops delivery; it is safe to call once from any goroutine.
func (rdb *RedisClient) Subscribe(topic string, fn func(payload string)) (func(), error) {
	pubsub := rdb.conn.Subscribe(ctx, topic)
	// force the subscription to be established before returning
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}
	go func() {
		for msg := range pubsub.Channel() {
			fn(msg.Payload)
		}
	}()
	return func() { pubsub.Close() }, nil
}
