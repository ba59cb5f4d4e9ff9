package entry

import (
	"context"
	"time"

	"github.com/studysync/diary/internal/infrastructure/uuid"
	"go.elastic.co/apm"
)

// EntryUseCaseImpl ...
type EntryUseCaseImpl struct {
	EntryRepository EntryRepository
	UUIDGenerator   uuid.Generator
	Publisher       EventPublisher
}

var _ EntryUseCase = &EntryUseCaseImpl{}

// NewEntryUseCase ...
func NewEntryUseCase(
	EntryRepository EntryRepository,
	UUIDGenerator uuid.Generator,
	Publisher EventPublisher,
) *EntryUseCaseImpl {
	return &EntryUseCaseImpl{
		EntryRepository: EntryRepository,
		UUIDGenerator:   UUIDGenerator,
		Publisher:       Publisher,
	}
}

func validateEntry(post *EntryModel) error {
	if !ValidSubject(post.Subject) {
		return ErrUnknownSubject
	}
	if !ValidTimeSlot(post.TimeSlot) {
		return ErrUnknownTimeSlot
	}
	if post.Hours < 0 {
		return ErrNegativeHours
	}
	if _, err := time.ParseInLocation(DateLayout, post.Date, time.Local); err != nil {
		return ErrBadDate
	}
	return nil
}

// AddEntry validate and persist a study session owned by ownerID.
// The creation timestamp is assigned here and never changes afterwards
func (eu *EntryUseCaseImpl) AddEntry(ctx context.Context, ownerID string, post *EntryModel) (*EntryModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "EntryUseCaseImpl.AddEntry", "service")
	defer apmSpan.End()

	if err := validateEntry(post); err != nil {
		return nil, err
	}

	id, err := eu.UUIDGenerator.Generate()
	if err != nil {
		return nil, err
	}
	post.ID = id
	post.UserID = ownerID
	post.CreatedAt = time.Now()

	if err := eu.EntryRepository.Insert(ctx, post); err != nil {
		return nil, err
	}
	eu.publish(ctx, ownerID)
	return post, nil
}

// UpdateEntry rewrite a session's fields in place, scoped to the owner
func (eu *EntryUseCaseImpl) UpdateEntry(ctx context.Context, ownerID string, post *EntryModel) error {
	apmSpan, _ := apm.StartSpan(ctx, "EntryUseCaseImpl.UpdateEntry", "service")
	defer apmSpan.End()

	if err := validateEntry(post); err != nil {
		return err
	}
	post.UserID = ownerID
	if err := eu.EntryRepository.Update(ctx, post); err != nil {
		return err
	}
	eu.publish(ctx, ownerID)
	return nil
}

// DeleteEntry remove a session; deleting an absent id is already satisfied
func (eu *EntryUseCaseImpl) DeleteEntry(ctx context.Context, ownerID, id string) error {
	apmSpan, _ := apm.StartSpan(ctx, "EntryUseCaseImpl.DeleteEntry", "service")
	defer apmSpan.End()

	if err := eu.EntryRepository.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	eu.publish(ctx, ownerID)
	return nil
}

// ListByUser current diary snapshot, newest first
func (eu *EntryUseCaseImpl) ListByUser(ctx context.Context, ownerID string) ([]*EntryModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "EntryUseCaseImpl.ListByUser", "service")
	defer apmSpan.End()

	return eu.EntryRepository.ListByUser(ctx, ownerID)
}

func (eu *EntryUseCaseImpl) publish(ctx context.Context, ownerID string) {
	if eu.Publisher != nil {
		eu.Publisher.Publish(ctx, ChangeTopic(ownerID), "")
	}
}
