package reminder

import (
	"context"

	"github.com/studysync/diary/internal/infrastructure/driver"
)

type ReminderRepositoryImpl struct {
	Conn driver.ITransactionalDB
}

var _ ReminderRepository = &ReminderRepositoryImpl{}

func NewReminderRepository(Conn driver.ITransactionalDB) *ReminderRepositoryImpl {
	return &ReminderRepositoryImpl{
		Conn: Conn,
	}
}

// ListByUser full snapshot of the owner's reminders, nearest date first
func (repo *ReminderRepositoryImpl) ListByUser(ctx context.Context, ownerID string) ([]*ReminderModel, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `
SELECT
    id, user_id, title, "date"
FROM
    reminders
WHERE
    user_id = $1
ORDER BY "date" ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*ReminderModel
	for rows.Next() {
		item := new(ReminderModel)
		if err := rows.Scan(&item.ID, &item.UserID, &item.Title, &item.Date); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}

func (repo *ReminderRepositoryImpl) Insert(ctx context.Context, post *ReminderModel) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `
INSERT INTO reminders(id, user_id, title, "date")
VALUES($1,$2,$3,$4)`, post.ID, post.UserID, post.Title, post.Date)
	return err
}

// Delete remove the owner's reminder, absence is not an error
func (repo *ReminderRepositoryImpl) Delete(ctx context.Context, ownerID, id string) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `
DELETE FROM reminders WHERE id = $1 AND user_id = $2`, id, ownerID)
	return err
}
