package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/studysync/diary/internal/entry"
	"github.com/studysync/diary/internal/preference"
	"github.com/studysync/diary/internal/reminder"
	"github.com/studysync/diary/internal/stats"
	"github.com/studysync/diary/internal/user"
	"go.uber.org/zap"
)

// ErrNoSession a mutation was attempted with no active principal
var ErrNoSession = errors.New("No active session")

// State snapshot handed to the presentation layer. Slices are the live
// snapshots and must be treated as read-only by consumers
type State struct {
	User      *user.UserModel           `json:"user"`
	Entries   []*entry.EntryModel       `json:"entries"`
	Reminders []*reminder.ReminderModel `json:"reminders"`
	Weekly    stats.WeeklySummary       `json:"weeklySummary"`
	Streak    int                       `json:"streak"`
	Theme     string                    `json:"theme"`
	Degraded  bool                      `json:"degraded"` // a live subscription died; data may be stale
}

// Session the view-state synchronizer. It owns the invariant that exactly
// one live (entries, reminders) subscription pair is open, that it is open
// iff a principal is active, and that it is scoped to that principal.
//
// All mutations are forwarded to the use cases and reflected back through
// the live subscriptions; the session never mutates its snapshots
// optimistically.
type Session struct {
	entriesQuery   *LiveQuery[*entry.EntryModel]
	remindersQuery *LiveQuery[*reminder.ReminderModel]
	entries        entry.EntryUseCase
	reminders      reminder.ReminderUseCase
	themes         *preference.ThemeStore
	logger         *zap.Logger
	onState        func(State)
	now            func() time.Time

	mu              sync.Mutex
	gen             int // bumped on every principal change, stale callbacks compare against it
	current         *user.UserModel
	cancelEntries   func()
	cancelReminders func()
	entrySnapshot   []*entry.EntryModel
	remindSnapshot  []*reminder.ReminderModel
	weekly          stats.WeeklySummary
	streak          int
	theme           string
	degraded        bool
}

// SessionConfig dependencies for a Session
type SessionConfig struct {
	Broker    Broker
	Entries   entry.EntryUseCase
	Reminders reminder.ReminderUseCase
	Themes    *preference.ThemeStore
	Logger    *zap.Logger
	OnState   func(State) // invoked outside the session lock on every state change
	Now       func() time.Time
}

// NewSession .
func NewSession(cfg *SessionConfig) *Session {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		entries:   cfg.Entries,
		reminders: cfg.Reminders,
		themes:    cfg.Themes,
		logger:    logger,
		onState:   cfg.OnState,
		now:       now,
		theme:     preference.ThemeLight,
		weekly:    stats.WeeklySummary{BySubject: map[string]float64{}},
	}
	s.entriesQuery = NewLiveQuery(cfg.Broker, entry.ChangeTopic, func(ctx context.Context, ownerID string) ([]*entry.EntryModel, error) {
		return cfg.Entries.ListByUser(ctx, ownerID)
	})
	s.remindersQuery = NewLiveQuery(cfg.Broker, reminder.ChangeTopic, func(ctx context.Context, ownerID string) ([]*reminder.ReminderModel, error) {
		return cfg.Reminders.ListByUser(ctx, ownerID)
	})
	return s
}

// SetUser drive the session state machine: nil signs out, a new principal
// replaces the previous one. The previous subscription pair is released
// synchronously before the new pair opens, so two owners' data are never
// concurrently visible.
func (s *Session) SetUser(ctx context.Context, u *user.UserModel) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.teardownLocked()
	s.current = u
	if u == nil {
		s.recomputeLocked()
		state := s.stateLocked()
		s.mu.Unlock()
		s.emit(state)
		return nil
	}

	theme, err := s.themes.Get(u.ID)
	if err != nil {
		s.logger.Warn("Failed to load theme preference, using default",
			zap.String("user.id", u.ID), zap.Error(err))
	}
	s.theme = theme
	s.mu.Unlock()

	cancelEntries, err := s.entriesQuery.Subscribe(ctx, u.ID,
		func(snapshot []*entry.EntryModel) { s.applyEntries(gen, snapshot) },
		func(err error) { s.degrade(gen, "entries", err) },
	)
	if err != nil {
		s.degrade(gen, "entries", err)
		return err
	}
	cancelReminders, err := s.remindersQuery.Subscribe(ctx, u.ID,
		func(snapshot []*reminder.ReminderModel) { s.applyReminders(gen, snapshot) },
		func(err error) { s.degrade(gen, "reminders", err) },
	)
	if err != nil {
		cancelEntries()
		s.degrade(gen, "reminders", err)
		return err
	}

	s.mu.Lock()
	if s.gen != gen {
		// superseded while subscribing
		s.mu.Unlock()
		cancelEntries()
		cancelReminders()
		return nil
	}
	s.cancelEntries = cancelEntries
	s.cancelReminders = cancelReminders
	s.mu.Unlock()
	return nil
}

// Close release all subscriptions, equivalent to signing out
func (s *Session) Close() {
	s.SetUser(context.Background(), nil)
}

// State current synchronized view state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// AddEntry forward a new study session for the active principal
func (s *Session) AddEntry(ctx context.Context, post *entry.EntryModel) error {
	owner, err := s.owner()
	if err != nil {
		return err
	}
	_, err = s.entries.AddEntry(ctx, owner, post)
	return err
}

// DeleteEntry forward a deletion for the active principal
func (s *Session) DeleteEntry(ctx context.Context, id string) error {
	owner, err := s.owner()
	if err != nil {
		return err
	}
	return s.entries.DeleteEntry(ctx, owner, id)
}

// AddReminder forward a new reminder; title/date validation happens in the
// use case before any store call
func (s *Session) AddReminder(ctx context.Context, post *reminder.ReminderModel) error {
	owner, err := s.owner()
	if err != nil {
		return err
	}
	_, err = s.reminders.AddReminder(ctx, owner, post)
	return err
}

// DeleteReminder forward a deletion for the active principal
func (s *Session) DeleteReminder(ctx context.Context, id string) error {
	owner, err := s.owner()
	if err != nil {
		return err
	}
	return s.reminders.DeleteReminder(ctx, owner, id)
}

// ToggleTheme flip the persisted theme preference
func (s *Session) ToggleTheme() (string, error) {
	owner, err := s.owner()
	if err != nil {
		return "", err
	}
	next, err := s.themes.Toggle(owner)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.theme = next
	state := s.stateLocked()
	s.mu.Unlock()
	s.emit(state)
	return next, nil
}

func (s *Session) owner() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return "", ErrNoSession
	}
	return s.current.ID, nil
}

func (s *Session) applyEntries(gen int, snapshot []*entry.EntryModel) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.entrySnapshot = snapshot
	s.recomputeLocked()
	state := s.stateLocked()
	s.mu.Unlock()
	s.emit(state)
}

func (s *Session) applyReminders(gen int, snapshot []*reminder.ReminderModel) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.remindSnapshot = snapshot
	state := s.stateLocked()
	s.mu.Unlock()
	s.emit(state)
}

// degrade a live subscription died, keep serving but flag the state
func (s *Session) degrade(gen int, which string, err error) {
	s.logger.Error("Live subscription failed",
		zap.String("feed.collection", which), zap.Error(err))
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.degraded = true
	state := s.stateLocked()
	s.mu.Unlock()
	s.emit(state)
}

// teardownLocked release the current subscription pair and wipe snapshots
func (s *Session) teardownLocked() {
	if s.cancelEntries != nil {
		s.cancelEntries()
		s.cancelEntries = nil
	}
	if s.cancelReminders != nil {
		s.cancelReminders()
		s.cancelReminders = nil
	}
	s.current = nil
	s.entrySnapshot = nil
	s.remindSnapshot = nil
	s.degraded = false
	s.theme = preference.ThemeLight
}

func (s *Session) recomputeLocked() {
	now := s.now()
	s.weekly = stats.ComputeWeeklySummary(s.entrySnapshot, now)
	s.streak = stats.ComputeStreak(s.entrySnapshot, now)
}

func (s *Session) stateLocked() State {
	return State{
		User:      s.current,
		Entries:   s.entrySnapshot,
		Reminders: s.remindSnapshot,
		Weekly:    s.weekly,
		Streak:    s.streak,
		Theme:     s.theme,
		Degraded:  s.degraded,
	}
}

func (s *Session) emit(state State) {
	if s.onState != nil {
		s.onState(state)
	}
}
