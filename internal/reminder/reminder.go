package reminder

import (
	"context"
	"errors"
)

// ReminderModel a titled date marker
type ReminderModel struct {
	ID     string `json:"id"`
	UserID string `json:"-"`
	Title  string `json:"title" validate:"required"`
	Date   string `json:"date" validate:"required"`
}

var (
	// ErrTitleRequired title is empty after trimming
	ErrTitleRequired = errors.New("Reminder title is required")
	// ErrDateRequired date is missing
	ErrDateRequired = errors.New("Reminder date is required")
	// ErrBadDate date is not a valid calendar date
	ErrBadDate = errors.New("Reminder date must be a valid calendar date (2006-01-02)")
)

// ChangeTopic per-owner change event topic for the reminders collection
func ChangeTopic(ownerID string) string {
	return "feed:reminders:" + ownerID
}

// EventPublisher fan-out side of the live feed, satisfied by feed brokers
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload string) error
}

type ReminderRepository interface {
	ListByUser(ctx context.Context, ownerID string) ([]*ReminderModel, error)
	Insert(ctx context.Context, post *ReminderModel) error
	Delete(ctx context.Context, ownerID, id string) error
}

type ReminderUseCase interface {
	AddReminder(ctx context.Context, ownerID string, post *ReminderModel) (*ReminderModel, error)
	DeleteReminder(ctx context.Context, ownerID, id string) error
	ListByUser(ctx context.Context, ownerID string) ([]*ReminderModel, error)
}
