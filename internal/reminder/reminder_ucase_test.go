package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type fakeReminderRepo struct {
	mu      sync.Mutex
	inserts int
	records []*ReminderModel
}

func (r *fakeReminderRepo) ListByUser(ctx context.Context, ownerID string) ([]*ReminderModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ReminderModel
	for _, m := range r.records {
		if m.UserID == ownerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeReminderRepo) Insert(ctx context.Context, post *ReminderModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	r.records = append(r.records, post)
	return nil
}

func (r *fakeReminderRepo) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.records[:0]
	for _, m := range r.records {
		if m.ID != id || m.UserID != ownerID {
			kept = append(kept, m)
		}
	}
	r.records = kept
	return nil
}

type recordingPublisher struct {
	topics []string
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string, payload string) error {
	p.topics = append(p.topics, topic)
	return nil
}

type stubGenerator struct{}

func (stubGenerator) Generate() (string, error) {
	return "fixed-id", nil
}

func TestAddReminder_AssignsIdentityAndPublishes(t *testing.T) {
	repo := &fakeReminderRepo{}
	publisher := &recordingPublisher{}
	ucase := NewReminderUseCase(repo, stubGenerator{}, publisher)

	created, err := ucase.AddReminder(context.Background(), "alice", &ReminderModel{
		Title: "  Mock exam  ",
		Date:  "2024-01-20",
	})
	if err != nil {
		t.Fatalf("add reminder failed: %v", err)
	}
	if created.ID != "fixed-id" || created.UserID != "alice" {
		t.Fatalf("identity not assigned: %+v", created)
	}
	if created.Title != "Mock exam" {
		t.Fatalf("title not trimmed: %q", created.Title)
	}
	if len(publisher.topics) != 1 || publisher.topics[0] != ChangeTopic("alice") {
		t.Fatalf("expected a change event on the owner topic, got %v", publisher.topics)
	}
}

func TestAddReminder_RejectsInvalidInputBeforeStore(t *testing.T) {
	cases := []struct {
		name string
		post *ReminderModel
		want error
	}{
		{"empty title", &ReminderModel{Title: "", Date: "2024-01-20"}, ErrTitleRequired},
		{"whitespace title", &ReminderModel{Title: "   ", Date: "2024-01-20"}, ErrTitleRequired},
		{"missing date", &ReminderModel{Title: "Mock exam"}, ErrDateRequired},
		{"bad date", &ReminderModel{Title: "Mock exam", Date: "20/01/2024"}, ErrBadDate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeReminderRepo{}
			publisher := &recordingPublisher{}
			ucase := NewReminderUseCase(repo, stubGenerator{}, publisher)

			if _, err := ucase.AddReminder(context.Background(), "alice", tc.post); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if repo.inserts != 0 {
				t.Fatal("rejected reminder must not reach the store")
			}
			if len(publisher.topics) != 0 {
				t.Fatal("rejected reminder must not publish a change event")
			}
		})
	}
}

func TestDeleteReminder_AbsentIdIsNotAnError(t *testing.T) {
	repo := &fakeReminderRepo{}
	publisher := &recordingPublisher{}
	ucase := NewReminderUseCase(repo, stubGenerator{}, publisher)

	if err := ucase.DeleteReminder(context.Background(), "alice", "ghost"); err != nil {
		t.Fatalf("deleting an absent id must be a no-op, got %v", err)
	}
	if len(publisher.topics) != 1 {
		t.Fatalf("delete should still publish, got %v", publisher.topics)
	}
}
