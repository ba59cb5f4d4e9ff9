package entry

import (
	"context"

	"github.com/studysync/diary/internal/infrastructure/driver"
)

type EntryRepositoryImpl struct {
	Conn driver.ITransactionalDB
}

var _ EntryRepository = &EntryRepositoryImpl{}

func NewEntryRepository(Conn driver.ITransactionalDB) *EntryRepositoryImpl {
	return &EntryRepositoryImpl{
		Conn: Conn,
	}
}

// ListByUser full snapshot of the owner's diary, newest first
func (repo *EntryRepositoryImpl) ListByUser(ctx context.Context, ownerID string) ([]*EntryModel, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `
SELECT
    id, user_id, "date", subject, time_slot, chapter, details, hours, created_at
FROM
    entries
WHERE
    user_id = $1
ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*EntryModel
	for rows.Next() {
		item := new(EntryModel)
		err := rows.Scan(&item.ID, &item.UserID, &item.Date, &item.Subject, &item.TimeSlot,
			&item.Chapter, &item.Details, &item.Hours, &item.CreatedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}

func (repo *EntryRepositoryImpl) Insert(ctx context.Context, post *EntryModel) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `
INSERT INTO entries(id, user_id, "date", subject, time_slot, chapter, details, hours, created_at)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		post.ID, post.UserID, post.Date, post.Subject, post.TimeSlot,
		post.Chapter, post.Details, post.Hours, post.CreatedAt)
	return err
}

func (repo *EntryRepositoryImpl) Update(ctx context.Context, post *EntryModel) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `
UPDATE entries
SET "date"=$1,
    subject=$2,
    time_slot=$3,
    chapter=$4,
    details=$5,
    hours=$6
WHERE id = $7 AND user_id = $8`,
		post.Date, post.Subject, post.TimeSlot, post.Chapter, post.Details, post.Hours,
		post.ID, post.UserID)
	return err
}

// Delete remove the owner's record, absence is not an error
func (repo *EntryRepositoryImpl) Delete(ctx context.Context, ownerID, id string) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `
DELETE FROM entries WHERE id = $1 AND user_id = $2`, id, ownerID)
	return err
}
