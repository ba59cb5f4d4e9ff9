package http

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/studysync/diary/internal/infrastructure/auth"
	"github.com/studysync/diary/internal/infrastructure/driver"
	"github.com/studysync/diary/internal/infrastructure/uuid"
	"github.com/studysync/diary/internal/infrastructure/validate"
	"github.com/studysync/diary/internal/user"
	"golang.org/x/crypto/bcrypt"
)

const oauthStatePrefix = "oauth:state:"
const oauthStateTTL = 10 * time.Minute

const lockoutPrefix = "lockout:"

// UserHandler user related operations
type UserHandler struct {
	JWTUtil        *auth.JWTUtil
	OAuthUtil      *auth.OAuthUtil
	Conn           driver.ITransactionalDB
	UserRepository user.UserRepository
	KVStore        driver.KeyValueDB
	UserUseCase    user.UserUseCase
	UUIDGenerator  uuid.Generator
	Validator      validate.Validator
	MaximumRetry   int
	RetryTimeout   time.Duration
}

// NewUserHandler create an user controller instance
func NewUserHandler(
	JWTUtil *auth.JWTUtil,
	OAuthUtil *auth.OAuthUtil,
	Conn driver.ITransactionalDB,
	UserRepository user.UserRepository,
	KVStore driver.KeyValueDB,
	UserUseCase user.UserUseCase,
	UUIDGenerator uuid.Generator,
	MaximumRetry int,
	RetryTimeout time.Duration,
	Validator validate.Validator,
) *UserHandler {
	return &UserHandler{
		JWTUtil:        JWTUtil,
		OAuthUtil:      OAuthUtil,
		Conn:           Conn,
		UserRepository: UserRepository,
		KVStore:        KVStore,
		UserUseCase:    UserUseCase,
		UUIDGenerator:  UUIDGenerator,
		Validator:      Validator,
		MaximumRetry:   MaximumRetry,
		RetryTimeout:   RetryTimeout,
	}
}

// HandleSignIn ...
func (uh *UserHandler) HandleSignIn(c echo.Context) (err error) {
	repo := uh.UserRepository

	post := new(user.UserModel)
	if err = c.Bind(&post); err != nil {
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, "Failed to bind user entity"))
	}

	ctx := c.Request().Context()
	tx, err := uh.Conn.BeginTx(ctx, &driver.TxOptions{
		Isolation: sql.LevelRepeatableRead,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError,
			NewRESTStandardError(http.StatusInternalServerError, "Failed to start the transaction"))
	}
	defer tx.Commit(ctx)

	found, err := repo.FindByCredential(ctx, post)
	if err != nil {
		return err
	}
	if found == nil {
		return c.JSON(http.StatusUnauthorized, NewRESTStandardError(http.StatusUnauthorized, user.ErrNoSuchUser.Error()))
	}
	if locked, err := uh.KVStore.Exists(lockoutPrefix + found.ID); err != nil {
		return err
	} else if locked {
		return c.JSON(http.StatusForbidden, NewRESTStandardError(http.StatusForbidden, user.ErrUserTooManyRetry.Error()))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(found.Password), []byte(post.Password)); err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			found.LoginRetry++
			if found.LoginRetry >= uh.MaximumRetry {
				// lock the account for the configured window; the counter
				// restarts fresh once the key expires
				if err := uh.KVStore.SetEX(lockoutPrefix+found.ID, "", uh.RetryTimeout); err != nil {
					return err
				}
				found.LoginRetry = 0
				repo.UpdateUser(ctx, found)
				return c.JSON(http.StatusForbidden, NewRESTStandardError(http.StatusForbidden, user.ErrUserTooManyRetry.Error()))
			}
			repo.UpdateUser(ctx, found)
			return c.JSON(http.StatusUnauthorized, NewRESTStandardError(http.StatusUnauthorized, user.ErrNoSuchUser.Error()))
		}
		return err
	}

	// reset retry number
	found.LoginRetry = 0
	if err := repo.UpdateUser(ctx, found); err != nil {
		return err
	}
	return uh.issueToken(c, found)
}

// HandleSignUp ...
func (uh *UserHandler) HandleSignUp(c echo.Context) (err error) {
	post := new(user.UserModel)
	if err = c.Bind(&post); err != nil {
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, "Failed to bind user entity"))
	}

	if fields := uh.Validator.Struct(post); fields != nil {
		return c.JSON(http.StatusBadRequest,
			NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", fields))
	}

	created, err := uh.UserUseCase.SignUp(c.Request().Context(), post)
	if err != nil {
		if errors.Is(err, user.ErrDuplicatedUser) {
			return c.JSON(http.StatusConflict, NewRESTStandardError(http.StatusConflict, err.Error()))
		}
		return err
	}
	return uh.issueToken(c, created)
}

// HandleGuestSignIn mint an anonymous principal and a session for it
func (uh *UserHandler) HandleGuestSignIn(c echo.Context) error {
	guest, err := uh.UserUseCase.SignInAnonymously(c.Request().Context())
	if err != nil {
		return err
	}
	return uh.issueToken(c, guest)
}

// HandleOAuthSignIn start the Google code flow. The default response is a 302
// to the consent page; mode=popup returns the consent URL as JSON so the
// client can open it in a popup window and fall back to the redirect when the
// popup is blocked
func (uh *UserHandler) HandleOAuthSignIn(c echo.Context) error {
	ou := uh.OAuthUtil
	if !ou.Enabled() {
		return c.JSON(http.StatusServiceUnavailable,
			NewRESTStandardError(http.StatusServiceUnavailable, auth.ErrOAuthDisabled.Error()))
	}

	state, err := uh.UUIDGenerator.Generate()
	if err != nil {
		return err
	}
	if err := uh.KVStore.SetEX(oauthStatePrefix+state, "", oauthStateTTL); err != nil {
		return err
	}

	consentURL := ou.ConsentURL(state)
	if c.QueryParam("mode") == "popup" {
		return c.JSON(http.StatusOK, echo.Map{"url": consentURL})
	}
	return c.Redirect(http.StatusFound, consentURL)
}

// HandleOAuthCallback finish the code flow, both popup and redirect variants
// land here
func (uh *UserHandler) HandleOAuthCallback(c echo.Context) error {
	ou := uh.OAuthUtil
	if !ou.Enabled() {
		return c.JSON(http.StatusServiceUnavailable,
			NewRESTStandardError(http.StatusServiceUnavailable, auth.ErrOAuthDisabled.Error()))
	}

	state := c.QueryParam("state")
	if state == "" {
		return c.JSON(http.StatusBadRequest, NewRESTStandardError(http.StatusBadRequest, "Missing state parameter"))
	}
	if known, err := uh.KVStore.Exists(oauthStatePrefix + state); err != nil {
		return err
	} else if !known {
		return c.JSON(http.StatusForbidden, NewRESTStandardError(http.StatusForbidden, "Unknown or expired state"))
	}
	// single use
	uh.KVStore.Del(oauthStatePrefix + state)

	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, NewRESTStandardError(http.StatusBadRequest, "Missing code parameter"))
	}

	ctx := c.Request().Context()
	profile, err := ou.Exchange(ctx, code)
	if err != nil {
		return c.JSON(http.StatusUnauthorized,
			NewRESTStandardError(http.StatusUnauthorized, "OAuth sign-in failed"))
	}

	external, err := uh.UserUseCase.FindOrCreateExternal(ctx, profile.Email, profile.Name, user.ProviderGoogle)
	if err != nil {
		return err
	}
	if err := uh.issueToken(c, external); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/")
}

// HandleSignOut ...
func (uh *UserHandler) HandleSignOut(c echo.Context) (err error) {
	ju := uh.JWTUtil
	kv := uh.KVStore

	if tokenStr, err := ju.ExtractToken(c); err == nil {
		if token, err := ju.Validate(tokenStr); err == nil {
			ju.ClearClientToken(c)
			return kv.SetEX(tokenStr, "", token.TimeRemaining())
		}
		return c.NoContent(http.StatusUnauthorized)
	}
	return nil
}

// HandleUserExists ...
func (uh *UserHandler) HandleUserExists(c echo.Context) (err error) {
	post := new(user.UserModel)
	post.Username = c.QueryParam("username")
	post.Email = c.QueryParam("email")

	if field := uh.Validator.AllEmpty([]string{"username", "email"}, post.Username, post.Email); field != nil {
		return c.JSON(http.StatusBadRequest,
			NewRESTValidationError(http.StatusBadRequest, "Failed to validate params", []*validate.FieldError{field}))
	}

	existing, err := uh.UserUseCase.Exists(c.Request().Context(), post)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, existing)
}

func (uh *UserHandler) issueToken(c echo.Context, u *user.UserModel) error {
	tokenStr, err := uh.JWTUtil.GenerateTokenStr(u)
	if err != nil {
		return err
	}
	uh.JWTUtil.SetClientToken(c, tokenStr)
	return nil
}
