package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// fakeSource a mutable collection behind a Loader, with error injection
type fakeSource struct {
	mu      sync.Mutex
	records []string
	err     error
}

func (fs *fakeSource) set(records ...string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.records = records
}

func (fs *fakeSource) fail(err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.err = err
}

func (fs *fakeSource) load(ctx context.Context, ownerID string) ([]string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.err != nil {
		return nil, fs.err
	}
	snapshot := make([]string, len(fs.records))
	copy(snapshot, fs.records)
	return snapshot, nil
}

func topicFor(ownerID string) string {
	return "test:" + ownerID
}

func TestLiveQuery_DeliversInitialSnapshot(t *testing.T) {
	broker := NewMemoryBroker()
	source := &fakeSource{}
	source.set("a", "b")
	query := NewLiveQuery(broker, topicFor, source.load)

	var got [][]string
	dispose, err := query.Subscribe(context.Background(), "u1",
		func(snapshot []string) { got = append(got, snapshot) }, nil)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer dispose()

	if len(got) != 1 || len(got[0]) != 2 {
		t.Fatalf("expected one initial snapshot of 2 records, got %v", got)
	}
}

func TestLiveQuery_ReloadsOnChangeEvent(t *testing.T) {
	broker := NewMemoryBroker()
	source := &fakeSource{}
	source.set("a")
	query := NewLiveQuery(broker, topicFor, source.load)

	var got [][]string
	dispose, err := query.Subscribe(context.Background(), "u1",
		func(snapshot []string) { got = append(got, snapshot) }, nil)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer dispose()

	source.set("a", "b")
	broker.Publish(context.Background(), topicFor("u1"), "")

	if len(got) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(got))
	}
	if len(got[1]) != 2 {
		t.Fatalf("second delivery should be the new snapshot, got %v", got[1])
	}
}

func TestLiveQuery_ScopedToOwnerTopic(t *testing.T) {
	broker := NewMemoryBroker()
	source := &fakeSource{}
	query := NewLiveQuery(broker, topicFor, source.load)

	deliveries := 0
	dispose, err := query.Subscribe(context.Background(), "u1",
		func([]string) { deliveries++ }, nil)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer dispose()

	broker.Publish(context.Background(), topicFor("u2"), "")

	if deliveries != 1 {
		t.Fatalf("another owner's event must not trigger a reload, got %d deliveries", deliveries)
	}
}

func TestLiveQuery_DisposeStopsDelivery(t *testing.T) {
	broker := NewMemoryBroker()
	source := &fakeSource{}
	query := NewLiveQuery(broker, topicFor, source.load)

	deliveries := 0
	dispose, err := query.Subscribe(context.Background(), "u1",
		func([]string) { deliveries++ }, nil)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	dispose()
	dispose() // idempotent
	broker.Publish(context.Background(), topicFor("u1"), "")

	if deliveries != 1 {
		t.Fatalf("expected only the initial delivery, got %d", deliveries)
	}
}

func TestLiveQuery_InitialLoadFailure(t *testing.T) {
	broker := NewMemoryBroker()
	source := &fakeSource{}
	source.fail(errors.New("db down"))
	query := NewLiveQuery(broker, topicFor, source.load)

	_, err := query.Subscribe(context.Background(), "u1", func([]string) {}, nil)
	if err == nil {
		t.Fatal("expected subscribe to surface the load error")
	}
}

func TestLiveQuery_ReloadFailureClosesSubscription(t *testing.T) {
	broker := NewMemoryBroker()
	source := &fakeSource{}
	query := NewLiveQuery(broker, topicFor, source.load)

	deliveries := 0
	var failure error
	dispose, err := query.Subscribe(context.Background(), "u1",
		func([]string) { deliveries++ },
		func(err error) { failure = err },
	)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer dispose()

	source.fail(errors.New("db down"))
	broker.Publish(context.Background(), topicFor("u1"), "")

	if failure == nil {
		t.Fatal("expected the reload failure to reach onError")
	}

	// the subscription is closed, recovery of the source changes nothing
	source.fail(nil)
	source.set("a")
	broker.Publish(context.Background(), topicFor("u1"), "")

	if deliveries != 1 {
		t.Fatalf("expected no deliveries after failure, got %d", deliveries)
	}
}
