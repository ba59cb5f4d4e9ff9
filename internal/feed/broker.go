package feed

import (
	"context"
	"sync"
)

// Broker fan-out transport for per-owner change events. Publish wakes every
// subscriber of the topic; Subscribe returns a disposer that must be invoked
// exactly once to release the registration.
//
// driver.RedisClient satisfies this for multi-instance deployments; the
// in-process MemoryBroker below covers single-node runs and tests.
type Broker interface {
	Publish(ctx context.Context, topic string, payload string) error
	Subscribe(topic string, fn func(payload string)) (func(), error)
}

// MemoryBroker in-process Broker. Callbacks run synchronously on the
// publisher's goroutine, which keeps delivery ordered per topic
type MemoryBroker struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]func(string)
}

var _ Broker = &MemoryBroker{}

// NewMemoryBroker .
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		subs: make(map[string]map[int]func(string)),
	}
}

// Publish implement Broker
func (b *MemoryBroker) Publish(ctx context.Context, topic string, payload string) error {
	b.mu.Lock()
	var fns []func(string)
	for _, fn := range b.subs[topic] {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(payload)
	}
	return nil
}

// Subscribe implement Broker
func (b *MemoryBroker) Subscribe(topic string, fn func(payload string)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]func(string))
	}
	b.subs[topic][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[topic], id)
		})
	}, nil
}
