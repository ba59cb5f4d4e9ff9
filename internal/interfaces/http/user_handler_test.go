package http

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/studysync/diary/internal/infrastructure/auth"
	"github.com/studysync/diary/internal/infrastructure/driver"
	"github.com/studysync/diary/internal/user"
	"golang.org/x/crypto/bcrypt"
)

type fakeConn struct{}

func (fakeConn) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (fakeConn) QueryContext(ctx context.Context, query string, args ...interface{}) (driver.ISQLRows, error) {
	return nil, nil
}

func (fc fakeConn) BeginTx(ctx context.Context, opts *driver.TxOptions) (driver.ITransactionalDB, error) {
	return fc, nil
}

func (fakeConn) Commit(ctx context.Context) error   { return nil }
func (fakeConn) Rollback(ctx context.Context) error { return nil }
func (fakeConn) Close(ctx context.Context) error    { return nil }
func (fakeConn) Ping() error                        { return nil }

type singleUserRepo struct {
	stored *user.UserModel
}

func (r *singleUserRepo) FindByCredential(ctx context.Context, post *user.UserModel) (*user.UserModel, error) {
	if post.Username == r.stored.Username || post.Email == r.stored.Email {
		return r.stored, nil
	}
	return nil, nil
}

func (r *singleUserRepo) FindByEmail(ctx context.Context, email string) (*user.UserModel, error) {
	if email == r.stored.Email {
		return r.stored, nil
	}
	return nil, nil
}

func (r *singleUserRepo) UpdateUser(ctx context.Context, post *user.UserModel) error {
	r.stored = post
	return nil
}

func (r *singleUserRepo) SaveUser(ctx context.Context, post *user.UserModel) error { return nil }

func signIn(t *testing.T, uh *UserHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	app := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := uh.HandleSignIn(app.NewContext(req, rec)); err != nil {
		t.Fatalf("sign in handler failed: %v", err)
	}
	return rec
}

func TestHandleSignIn_LockoutWindow(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	repo := &singleUserRepo{stored: &user.UserModel{
		ID:       "u1",
		Username: "alice",
		Email:    "alice@example.com",
		Password: string(hashed),
	}}
	kv := newMemKV()
	ju := auth.NewJWTUtil("HS256", "test-secret", "app_token", time.Minute)
	uh := NewUserHandler(ju, nil, fakeConn{}, repo, kv, nil, nil, 2, time.Hour, nil)

	wrong := `{"username":"alice","password":"wrong"}`
	right := `{"username":"alice","password":"correct horse"}`

	if rec := signIn(t, uh, wrong); rec.Code != http.StatusUnauthorized {
		t.Fatalf("first failure should be 401, got %d", rec.Code)
	}
	if rec := signIn(t, uh, wrong); rec.Code != http.StatusForbidden {
		t.Fatalf("reaching the attempt limit should lock with 403, got %d", rec.Code)
	}
	if locked, _ := kv.Exists(lockoutPrefix + "u1"); !locked {
		t.Fatal("expected a lockout key after exceeding the attempt limit")
	}
	if repo.stored.LoginRetry != 0 {
		t.Fatalf("retry counter should restart with the lockout window, got %d", repo.stored.LoginRetry)
	}

	// even the correct password is rejected while the window is open
	if rec := signIn(t, uh, right); rec.Code != http.StatusForbidden {
		t.Fatalf("locked account must reject sign-in, got %d", rec.Code)
	}

	// window expiry, the key is gone and sign-in recovers
	kv.Del(lockoutPrefix + "u1")
	rec := signIn(t, uh, right)
	if rec.Code != http.StatusOK {
		t.Fatalf("sign in after lockout expiry should succeed, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].Value == "" {
		t.Fatal("expected a session cookie after successful sign-in")
	}
}
