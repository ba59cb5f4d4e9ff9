package http

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/studysync/diary/internal/entry"
	"github.com/studysync/diary/internal/feed"
	infra "github.com/studysync/diary/internal/infrastructure"
	"github.com/studysync/diary/internal/infrastructure/auth"
	"github.com/studysync/diary/internal/infrastructure/driver"
	"github.com/studysync/diary/internal/preference"
	"github.com/studysync/diary/internal/reminder"
)

type memEntryRepo struct {
	mu      sync.Mutex
	records []*entry.EntryModel
}

func (r *memEntryRepo) ListByUser(ctx context.Context, ownerID string) ([]*entry.EntryModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entry.EntryModel
	for _, e := range r.records {
		if e.UserID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEntryRepo) Insert(ctx context.Context, post *entry.EntryModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, post)
	return nil
}

func (r *memEntryRepo) Update(ctx context.Context, post *entry.EntryModel) error { return nil }

func (r *memEntryRepo) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.records[:0]
	for _, e := range r.records {
		if e.ID != id || e.UserID != ownerID {
			kept = append(kept, e)
		}
	}
	r.records = kept
	return nil
}

type memReminderRepo struct {
	mu      sync.Mutex
	records []*reminder.ReminderModel
}

func (r *memReminderRepo) ListByUser(ctx context.Context, ownerID string) ([]*reminder.ReminderModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*reminder.ReminderModel
	for _, m := range r.records {
		if m.UserID == ownerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memReminderRepo) Insert(ctx context.Context, post *reminder.ReminderModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, post)
	return nil
}

func (r *memReminderRepo) Delete(ctx context.Context, ownerID, id string) error { return nil }

type seqGen struct {
	mu   sync.Mutex
	next int
}

func (g *seqGen) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%024d", g.next), nil
}

type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemKV() *memKV { return &memKV{data: make(map[string]string)} }

func (kv *memKV) Set(key string, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = value
	return nil
}

func (kv *memKV) SetEX(key string, value string, expiration time.Duration) error {
	return kv.Set(key, value)
}

func (kv *memKV) Get(key string) (string, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if v, ok := kv.data[key]; ok {
		return v, nil
	}
	return "", &driver.ErrKeyNotFound{Key: key}
}

func (kv *memKV) Exists(key string) (bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	_, ok := kv.data[key]
	return ok, nil
}

func (kv *memKV) Del(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.data, key)
	return nil
}

func (kv *memKV) Ping() error { return nil }

func TestHandleFeed_MutationsReflectOverLiveConnection(t *testing.T) {
	broker := feed.NewMemoryBroker()
	generator := &seqGen{}
	entryUseCase := entry.NewEntryUseCase(&memEntryRepo{}, generator, broker)
	reminderUseCase := reminder.NewReminderUseCase(&memReminderRepo{}, generator, broker)
	themes := preference.NewThemeStore(newMemKV())
	ju := auth.NewJWTUtil("HS256", "test-secret", "app_token", time.Minute)

	fh := NewFeedHandler(broker, entryUseCase, reminderUseCase, themes, ju)
	ws := infra.NewWebsocket()

	app := echo.New()
	app.GET("/ws/feed", ws.WithHeartbeat(fh.HandleFeed), func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ju.SetContextToken(c, &auth.AppTokenClaims{UID: "alice", Name: "alice"})
			return next(c)
		}
	})

	srv := httptest.NewServer(app)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/feed", nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// the initial frames carry the empty snapshot
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var state feed.State
	if err := conn.ReadJSON(&state); err != nil {
		t.Fatalf("failed to read the initial state frame: %v", err)
	}
	if state.Degraded {
		t.Fatal("feed started degraded")
	}

	// mutate through the use case, the feed must push a fresh snapshot
	if _, err := entryUseCase.AddEntry(context.Background(), "alice", &entry.EntryModel{
		Date: "2024-01-11", Subject: "Math", TimeSlot: "Morning", Hours: 2,
	}); err != nil {
		t.Fatalf("add entry failed: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		if err := conn.ReadJSON(&state); err != nil {
			t.Fatalf("mutation never reflected over the feed: %v (last state %+v)", err, state)
		}
		if state.Degraded {
			t.Fatalf("feed degraded after mutation: %+v", state)
		}
		if len(state.Entries) == 1 && state.Entries[0].Subject == "Math" {
			break
		}
	}
}
