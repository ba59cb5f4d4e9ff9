package http

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/studysync/diary/internal/entry"
	"github.com/studysync/diary/internal/feed"
	"github.com/studysync/diary/internal/infrastructure/auth"
	"github.com/studysync/diary/internal/infrastructure/logging"
	"github.com/studysync/diary/internal/preference"
	"github.com/studysync/diary/internal/reminder"
	"github.com/studysync/diary/internal/user"
)

// FeedHandler streams synchronized view state over a websocket. One
// connection owns one session; the session pushes a fresh state snapshot on
// every change event of the authenticated owner
type FeedHandler struct {
	Broker          feed.Broker
	EntryUseCase    entry.EntryUseCase
	ReminderUseCase reminder.ReminderUseCase
	Themes          *preference.ThemeStore
	JWTUtil         *auth.JWTUtil
}

// NewFeedHandler create a feed controller instance
func NewFeedHandler(
	Broker feed.Broker,
	EntryUseCase entry.EntryUseCase,
	ReminderUseCase reminder.ReminderUseCase,
	Themes *preference.ThemeStore,
	JWTUtil *auth.JWTUtil,
) *FeedHandler {
	return &FeedHandler{
		Broker:          Broker,
		EntryUseCase:    EntryUseCase,
		ReminderUseCase: ReminderUseCase,
		Themes:          Themes,
		JWTUtil:         JWTUtil,
	}
}

// HandleFeed meant to be wrapped by Websocket.WithHeartbeat and guarded by
// the JWT middleware
func (fh *FeedHandler) HandleFeed(c echo.Context, conn *websocket.Conn) error {
	claims := fh.JWTUtil.GetContextToken(c)
	ctx := c.Request().Context()
	logger := logging.ExtractLoggerFromContext(ctx)

	// serialize writes, state pushes race with connection teardown
	var writeMu sync.Mutex
	session := feed.NewSession(&feed.SessionConfig{
		Broker:    fh.Broker,
		Entries:   fh.EntryUseCase,
		Reminders: fh.ReminderUseCase,
		Themes:    fh.Themes,
		Logger:    logger,
		OnState: func(state feed.State) {
			writeMu.Lock()
			defer writeMu.Unlock()
			if err := conn.WriteJSON(state); err != nil {
				conn.Close()
			}
		},
	})
	defer session.Close()

	principal := &user.UserModel{
		ID:        claims.UID,
		Username:  claims.Name,
		Email:     claims.Email,
		Anonymous: claims.Anonymous,
	}
	if err := session.SetUser(ctx, principal); err != nil {
		return err
	}

	// drain the connection: keeps the pong handler firing and unblocks on
	// client close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}
