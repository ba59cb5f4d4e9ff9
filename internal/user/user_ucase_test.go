package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	nextID  int
	records []*UserModel
}

func (r *fakeUserRepo) FindByCredential(ctx context.Context, post *UserModel) (*UserModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.records {
		if (post.Username != "" && u.Username == post.Username) ||
			(post.Email != "" && u.Email == post.Email) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*UserModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.records {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, post *UserModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.records {
		if u.ID == post.ID {
			r.records[i] = post
		}
	}
	return nil
}

func (r *fakeUserRepo) SaveUser(ctx context.Context, post *UserModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	post.ID = fmt.Sprintf("user-%d", r.nextID)
	r.records = append(r.records, post)
	return nil
}

type fixedGenerator struct {
	value string
}

func (g fixedGenerator) Generate() (string, error) {
	return g.value, nil
}

func TestSignUp_HashesPasswordAndSetsProvider(t *testing.T) {
	repo := &fakeUserRepo{}
	ucase := NewUserUseCase(repo, fixedGenerator{value: "abcdefgh12345678"})

	created, err := ucase.SignUp(context.Background(), &UserModel{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if created.Provider != ProviderPassword {
		t.Fatalf("expected password provider, got %s", created.Provider)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("correct horse")); err != nil {
		t.Fatalf("stored password is not a valid hash of the input: %v", err)
	}
}

func TestSignUp_RejectsDuplicate(t *testing.T) {
	repo := &fakeUserRepo{}
	ucase := NewUserUseCase(repo, fixedGenerator{value: "abcdefgh12345678"})

	post := &UserModel{Username: "alice", Email: "alice@example.com", Password: "correct horse"}
	if _, err := ucase.SignUp(context.Background(), post); err != nil {
		t.Fatalf("first sign up failed: %v", err)
	}
	_, err := ucase.SignUp(context.Background(), &UserModel{
		Username: "alice", Email: "alice@example.com", Password: "other",
	})
	if !errors.Is(err, ErrDuplicatedUser) {
		t.Fatalf("expected ErrDuplicatedUser, got %v", err)
	}
}

func TestSignInAnonymously_MintsGuestPrincipal(t *testing.T) {
	repo := &fakeUserRepo{}
	ucase := NewUserUseCase(repo, fixedGenerator{value: "abcdefgh12345678"})

	guest, err := ucase.SignInAnonymously(context.Background())
	if err != nil {
		t.Fatalf("anonymous sign in failed: %v", err)
	}
	if !guest.Anonymous || guest.Provider != ProviderAnonymous {
		t.Fatalf("expected an anonymous principal, got %+v", guest)
	}
	if !strings.HasPrefix(guest.Username, "guest-") {
		t.Fatalf("unexpected guest username %q", guest.Username)
	}
	if guest.ID == "" {
		t.Fatal("guest must be persisted with an id")
	}
}

func TestFindOrCreateExternal_IsIdempotentPerEmail(t *testing.T) {
	repo := &fakeUserRepo{}
	ucase := NewUserUseCase(repo, fixedGenerator{value: "abcdefgh12345678"})

	first, err := ucase.FindOrCreateExternal(context.Background(), "alice@example.com", "Alice", ProviderGoogle)
	if err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}
	second, err := ucase.FindOrCreateExternal(context.Background(), "alice@example.com", "Alice A.", ProviderGoogle)
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same principal on repeat sign-in, got %s and %s", first.ID, second.ID)
	}
	if len(repo.records) != 1 {
		t.Fatalf("expected a single stored principal, got %d", len(repo.records))
	}
}

func TestFindOrCreateExternal_FallsBackToEmailAsName(t *testing.T) {
	repo := &fakeUserRepo{}
	ucase := NewUserUseCase(repo, fixedGenerator{value: "abcdefgh12345678"})

	created, err := ucase.FindOrCreateExternal(context.Background(), "bob@example.com", "", ProviderGoogle)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if created.Username != "bob@example.com" {
		t.Fatalf("expected email fallback username, got %q", created.Username)
	}
}
