package user

import (
	"context"
	"fmt"

	"github.com/studysync/diary/internal/infrastructure/uuid"
	"go.elastic.co/apm"
	"golang.org/x/crypto/bcrypt"
)

// UserUseCaseImpl ...
type UserUseCaseImpl struct {
	UserRepository UserRepository
	UUIDGenerator  uuid.Generator
}

var _ UserUseCase = &UserUseCaseImpl{}

// NewUserUseCase ...
func NewUserUseCase(
	UserRepository UserRepository,
	UUIDGenerator uuid.Generator,
) *UserUseCaseImpl {
	return &UserUseCaseImpl{
		UserRepository: UserRepository,
		UUIDGenerator:  UUIDGenerator,
	}
}

// SignUp create a user with a password credential
func (uu *UserUseCaseImpl) SignUp(ctx context.Context, post *UserModel) (*UserModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "UserUseCaseImpl.SignUp", "service")
	defer apmSpan.End()

	ur := uu.UserRepository
	if m, err := ur.FindByCredential(ctx, post); err != nil {
		return nil, err
	} else if m != nil {
		return nil, ErrDuplicatedUser
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(post.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	post.Password = string(hashed)
	post.Provider = ProviderPassword

	if err := ur.SaveUser(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// SignInAnonymously mint a guest principal with no credential behind it.
// Guest data lives under a normal owner id, so a later account link only
// needs to rewrite the owner column
func (uu *UserUseCaseImpl) SignInAnonymously(ctx context.Context) (*UserModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "UserUseCaseImpl.SignInAnonymously", "service")
	defer apmSpan.End()

	suffix, err := uu.UUIDGenerator.Generate()
	if err != nil {
		return nil, err
	}
	guest := &UserModel{
		Username:  fmt.Sprintf("guest-%s", suffix[:8]),
		Provider:  ProviderAnonymous,
		Anonymous: true,
	}
	if err := uu.UserRepository.SaveUser(ctx, guest); err != nil {
		return nil, err
	}
	return guest, nil
}

// FindOrCreateExternal resolve an OAuth profile to a local principal,
// registering it on first sign-in
func (uu *UserUseCaseImpl) FindOrCreateExternal(ctx context.Context, email, name, provider string) (*UserModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "UserUseCaseImpl.FindOrCreateExternal", "service")
	defer apmSpan.End()

	ur := uu.UserRepository
	if existing, err := ur.FindByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	external := &UserModel{
		Username: name,
		Email:    email,
		Provider: provider,
	}
	if external.Username == "" {
		external.Username = email
	}
	if err := ur.SaveUser(ctx, external); err != nil {
		return nil, err
	}
	return external, nil
}

// Exists find if user exists in database
func (uu *UserUseCaseImpl) Exists(ctx context.Context, post *UserModel) (bool, error) {
	apmSpan, _ := apm.StartSpan(ctx, "UserUseCaseImpl.Exists", "service")
	defer apmSpan.End()

	u, err := uu.UserRepository.FindByCredential(ctx, post)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}
