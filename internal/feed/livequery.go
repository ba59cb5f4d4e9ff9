package feed

import (
	"context"
	"sync"
	"sync/atomic"
)

// Loader fetch the current ordered snapshot of an owner's collection
type Loader[T any] func(ctx context.Context, ownerID string) ([]T, error)

// LiveQuery standing query over one owner-partitioned collection. Entries
// and reminders only differ in loader and topic, so the live layer is
// generic over the record type.
//
// Subscribe delivers the current snapshot immediately, then reloads and
// redelivers on every change event for the owner's topic. Every delivery is
// a full replacement snapshot, never an incremental patch.
type LiveQuery[T any] struct {
	broker Broker
	topic  func(ownerID string) string
	loader Loader[T]
}

// NewLiveQuery .
func NewLiveQuery[T any](broker Broker, topic func(string) string, loader Loader[T]) *LiveQuery[T] {
	return &LiveQuery[T]{
		broker: broker,
		topic:  topic,
		loader: loader,
	}
}

// Subscribe open a live subscription scoped to ownerID.
//
// The change stream is attached before the initial load so no event
// between the two is missed; deliveries are serialized, each one a reload
// of the full snapshot. The returned disposer is idempotent and prevents
// any further onChange invocation; a reload already in flight when the
// disposer runs is dropped before delivery. A failed reload closes the
// subscription and surfaces the error through onError instead of letting
// the snapshot go silently stale.
func (q *LiveQuery[T]) Subscribe(
	ctx context.Context,
	ownerID string,
	onChange func([]T),
	onError func(error),
) (func(), error) {
	var (
		closed       atomic.Bool
		deliverMu    sync.Mutex
		cancelBroker func()
	)

	dispose := func() {
		if closed.CompareAndSwap(false, true) && cancelBroker != nil {
			cancelBroker()
		}
	}

	reload := func() error {
		deliverMu.Lock()
		defer deliverMu.Unlock()
		if closed.Load() {
			return nil
		}
		snapshot, err := q.loader(ctx, ownerID)
		if err != nil {
			return err
		}
		if closed.Load() {
			return nil
		}
		onChange(snapshot)
		return nil
	}

	var err error
	cancelBroker, err = q.broker.Subscribe(q.topic(ownerID), func(string) {
		if err := reload(); err != nil {
			dispose()
			if onError != nil {
				onError(err)
			}
		}
	})
	if err != nil {
		return nil, err
	}

	if err := reload(); err != nil {
		dispose()
		return nil, err
	}
	return dispose, nil
}
