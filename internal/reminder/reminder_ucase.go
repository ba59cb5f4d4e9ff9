package reminder

import (
	"context"
	"strings"
	"time"

	"github.com/studysync/diary/internal/entry"
	"github.com/studysync/diary/internal/infrastructure/uuid"
	"go.elastic.co/apm"
)

// ReminderUseCaseImpl ...
type ReminderUseCaseImpl struct {
	ReminderRepository ReminderRepository
	UUIDGenerator      uuid.Generator
	Publisher          EventPublisher
}

var _ ReminderUseCase = &ReminderUseCaseImpl{}

// NewReminderUseCase ...
func NewReminderUseCase(
	ReminderRepository ReminderRepository,
	UUIDGenerator uuid.Generator,
	Publisher EventPublisher,
) *ReminderUseCaseImpl {
	return &ReminderUseCaseImpl{
		ReminderRepository: ReminderRepository,
		UUIDGenerator:      UUIDGenerator,
		Publisher:          Publisher,
	}
}

// AddReminder validate and persist a reminder. Validation happens before any
// store call: a rejected reminder never reaches the repository
func (ru *ReminderUseCaseImpl) AddReminder(ctx context.Context, ownerID string, post *ReminderModel) (*ReminderModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ReminderUseCaseImpl.AddReminder", "service")
	defer apmSpan.End()

	post.Title = strings.TrimSpace(post.Title)
	if post.Title == "" {
		return nil, ErrTitleRequired
	}
	if post.Date == "" {
		return nil, ErrDateRequired
	}
	if _, err := time.ParseInLocation(entry.DateLayout, post.Date, time.Local); err != nil {
		return nil, ErrBadDate
	}

	id, err := ru.UUIDGenerator.Generate()
	if err != nil {
		return nil, err
	}
	post.ID = id
	post.UserID = ownerID

	if err := ru.ReminderRepository.Insert(ctx, post); err != nil {
		return nil, err
	}
	ru.publish(ctx, ownerID)
	return post, nil
}

// DeleteReminder remove a reminder; deleting an absent id is already satisfied
func (ru *ReminderUseCaseImpl) DeleteReminder(ctx context.Context, ownerID, id string) error {
	apmSpan, _ := apm.StartSpan(ctx, "ReminderUseCaseImpl.DeleteReminder", "service")
	defer apmSpan.End()

	if err := ru.ReminderRepository.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	ru.publish(ctx, ownerID)
	return nil
}

// ListByUser current reminders snapshot, nearest date first
func (ru *ReminderUseCaseImpl) ListByUser(ctx context.Context, ownerID string) ([]*ReminderModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ReminderUseCaseImpl.ListByUser", "service")
	defer apmSpan.End()

	return ru.ReminderRepository.ListByUser(ctx, ownerID)
}

func (ru *ReminderUseCaseImpl) publish(ctx context.Context, ownerID string) {
	if ru.Publisher != nil {
		ru.Publisher.Publish(ctx, ChangeTopic(ownerID), "")
	}
}
