package user

import (
	"context"
	"errors"
)

// principal providers
const (
	ProviderPassword  = "password"
	ProviderGoogle    = "google"
	ProviderAnonymous = "anonymous"
)

// UserModel the authenticated principal owning diary entries and reminders
type UserModel struct {
	ID         string `json:"id"`
	Username   string `json:"username" validate:"required,min=3,max=40"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password,omitempty" validate:"required,min=8"`
	Provider   string `json:"-"`
	Anonymous  bool   `json:"anonymous"`
	LoginRetry int    `json:"-"`
}

// ErrNoSuchUser failed to validate the credential
var ErrNoSuchUser = errors.New("No such user or password is incorrect")

// ErrDuplicatedUser unique key constraint violation
var ErrDuplicatedUser = errors.New("Username or email is already registered")

// ErrUserTooManyRetry login attempts exceeded the configured maximum
var ErrUserTooManyRetry = errors.New("Too many login attempts")

type UserRepository interface {
	FindByCredential(ctx context.Context, post *UserModel) (*UserModel, error)
	FindByEmail(ctx context.Context, email string) (*UserModel, error)
	UpdateUser(ctx context.Context, post *UserModel) error
	SaveUser(ctx context.Context, post *UserModel) error
}

type UserUseCase interface {
	SignUp(ctx context.Context, post *UserModel) (*UserModel, error)
	SignInAnonymously(ctx context.Context) (*UserModel, error)
	FindOrCreateExternal(ctx context.Context, email, name, provider string) (*UserModel, error)
	Exists(ctx context.Context, post *UserModel) (bool, error)
}
