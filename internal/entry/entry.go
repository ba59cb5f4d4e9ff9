package entry

import (
	"context"
	"errors"
	"time"
)

// DateLayout calendar date format used across entries and reminders
const DateLayout = "2006-01-02"

// Subjects the fixed subject list offered by the entry form
var Subjects = []string{
	"Math",
	"Physics",
	"Chemistry",
	"Biology",
	"English",
	"History",
	"Computer Science",
	"Other",
}

// TimeSlots the fixed study time-slot labels
var TimeSlots = []string{
	"Early Morning",
	"Morning",
	"Afternoon",
	"Evening",
	"Night",
}

// EntryModel one recorded study session
type EntryModel struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Date      string    `json:"date" validate:"required"`
	Subject   string    `json:"subject" validate:"required"`
	TimeSlot  string    `json:"timeSlot" validate:"required"`
	Chapter   string    `json:"chapter"`
	Details   string    `json:"details"`
	Hours     float64   `json:"hours" validate:"min=0"`
	CreatedAt time.Time `json:"createdAt"`
}

var (
	// ErrUnknownSubject subject is not in the fixed list
	ErrUnknownSubject = errors.New("Unknown subject")
	// ErrUnknownTimeSlot time slot is not in the fixed list
	ErrUnknownTimeSlot = errors.New("Unknown time slot")
	// ErrNegativeHours hours must be non-negative
	ErrNegativeHours = errors.New("Hours must not be negative")
	// ErrBadDate date is not a valid calendar date
	ErrBadDate = errors.New("Date must be a valid calendar date (2006-01-02)")
	// ErrNotOwned record belongs to a different principal
	ErrNotOwned = errors.New("Record belongs to another user")
)

// ChangeTopic per-owner change event topic for the entries collection
func ChangeTopic(ownerID string) string {
	return "feed:entries:" + ownerID
}

// EventPublisher fan-out side of the live feed, satisfied by feed brokers
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload string) error
}

type EntryRepository interface {
	ListByUser(ctx context.Context, ownerID string) ([]*EntryModel, error)
	Insert(ctx context.Context, post *EntryModel) error
	Update(ctx context.Context, post *EntryModel) error
	Delete(ctx context.Context, ownerID, id string) error
}

type EntryUseCase interface {
	AddEntry(ctx context.Context, ownerID string, post *EntryModel) (*EntryModel, error)
	UpdateEntry(ctx context.Context, ownerID string, post *EntryModel) error
	DeleteEntry(ctx context.Context, ownerID, id string) error
	ListByUser(ctx context.Context, ownerID string) ([]*EntryModel, error)
}

// ValidSubject report membership in the fixed subject list
func ValidSubject(s string) bool {
	for _, v := range Subjects {
		if v == s {
			return true
		}
	}
	return false
}

// ValidTimeSlot report membership in the fixed time-slot list
func ValidTimeSlot(s string) bool {
	for _, v := range TimeSlots {
		if v == s {
			return true
		}
	}
	return false
}
