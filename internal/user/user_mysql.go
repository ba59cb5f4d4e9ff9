package user

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"
	"github.com/studysync/diary/internal/infrastructure/driver"
	"github.com/studysync/diary/internal/infrastructure/uuid"
)

type UserRepositoryImpl struct {
	Conn          driver.ITransactionalDB
	UUIDGenerator uuid.Generator
}

var _ UserRepository = &UserRepositoryImpl{}

func NewUserRepository(Conn driver.ITransactionalDB, UUIDGenerator uuid.Generator) *UserRepositoryImpl {
	return &UserRepositoryImpl{
		Conn:          Conn,
		UUIDGenerator: UUIDGenerator,
	}
}

// FindByCredential query user with provided username or email
func (repo *UserRepositoryImpl) FindByCredential(ctx context.Context, post *UserModel) (*UserModel, error) {
	conn := repo.Conn
	row, err := conn.QueryContext(ctx, `
SELECT id, username, password, email, provider, anonymous, login_retry
FROM "user" WHERE username=$1 OR email=$2`, post.Username, post.Email)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if row.Next() {
		return scanUser(row)
	}
	return nil, nil
}

// FindByEmail query user with provided email only, used by the OAuth flow
func (repo *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*UserModel, error) {
	conn := repo.Conn
	row, err := conn.QueryContext(ctx, `
SELECT id, username, password, email, provider, anonymous, login_retry
FROM "user" WHERE email=$1`, email)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if row.Next() {
		return scanUser(row)
	}
	return nil, nil
}

func scanUser(row driver.ISQLRows) (*UserModel, error) {
	u := new(UserModel)
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.Provider, &u.Anonymous, &u.LoginRetry); err != nil {
		return nil, err
	}
	return u, nil
}

func (repo *UserRepositoryImpl) SaveUser(ctx context.Context, post *UserModel) error {
	conn := repo.Conn
	UUIDGenerator := repo.UUIDGenerator
	if uuid, err := UUIDGenerator.Generate(); err == nil {
		post.ID = uuid
	} else {
		return err
	}

	_, err := conn.ExecContext(ctx, `
INSERT INTO "user"(id, username, password, email, provider, anonymous)
VALUES($1,$2,$3,$4,$5,$6)`,
		post.ID, post.Username, post.Password, post.Email, post.Provider, post.Anonymous)

	if err, ok := err.(*mysql.MySQLError); ok && err.Number == 1062 {
		return ErrDuplicatedUser
	}
	return err
}

func (repo *UserRepositoryImpl) UpdateUser(ctx context.Context, post *UserModel) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `
UPDATE "user"
SET email=$1,
    login_retry=$2
WHERE id = $3`, post.Email, post.LoginRetry, post.ID)
	return err
}

func (repo *UserRepositoryImpl) BeginTx(ctx context.Context) (driver.ITransactionalDB, error) {
	return repo.Conn.BeginTx(ctx, &driver.TxOptions{
		Isolation: sql.LevelRepeatableRead,
	})
}
