package http

import (
	"github.com/labstack/echo/v4"
	infra "github.com/studysync/diary/internal/infrastructure"
)

func v1Endpoint(
	websocket *infra.Websocket,
	UserHandler *UserHandler,
	EntryHandler *EntryHandler,
	ReminderHandler *ReminderHandler,
	StatsHandler *StatsHandler,
	PreferenceHandler *PreferenceHandler,
	FeedHandler *FeedHandler,
	jwtMiddleware echo.MiddlewareFunc,
	refreshMiddleware echo.MiddlewareFunc,
	requestIDMiddleware echo.MiddlewareFunc,
	traceLoggerMiddleware echo.MiddlewareFunc,
) *endpoint {
	return &endpoint{
		apiVersion:  "api/v1",
		middlewares: []echo.MiddlewareFunc{requestIDMiddleware, traceLoggerMiddleware},
		groups: []*apiGroup{
			{
				prefix: "/user",
				routes: []*route{
					{"POST", "/login", UserHandler.HandleSignIn, nil},
					{"POST", "/sign-up", UserHandler.HandleSignUp, nil},
					{"POST", "/guest", UserHandler.HandleGuestSignIn, nil},
					{"GET", "/oauth", UserHandler.HandleOAuthSignIn, nil},
					{"GET", "/oauth/callback", UserHandler.HandleOAuthCallback, nil},
					{"PUT", "/sign-out", UserHandler.HandleSignOut, nil},
					{"GET", "/exists", UserHandler.HandleUserExists, nil},
				},
			},
			{
				prefix:      "/entry",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware, refreshMiddleware},
				routes: []*route{
					{"GET", "", EntryHandler.HandleListEntries, nil},
					{"POST", "", EntryHandler.HandleAddEntry, nil},
					{"PUT", "/:id", EntryHandler.HandleUpdateEntry, nil},
					{"DELETE", "/:id", EntryHandler.HandleDeleteEntry, nil},
				},
			},
			{
				prefix:      "/reminder",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware, refreshMiddleware},
				routes: []*route{
					{"GET", "", ReminderHandler.HandleListReminders, nil},
					{"POST", "", ReminderHandler.HandleAddReminder, nil},
					{"DELETE", "/:id", ReminderHandler.HandleDeleteReminder, nil},
				},
			},
			{
				prefix:      "/stats",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware, refreshMiddleware},
				routes: []*route{
					{"GET", "/weekly-summary", StatsHandler.HandleGetWeeklySummary, nil},
					{"GET", "/streak", StatsHandler.HandleGetStreak, nil},
				},
			},
			{
				prefix:      "/preference",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware, refreshMiddleware},
				routes: []*route{
					{"GET", "/theme", PreferenceHandler.HandleGetTheme, nil},
					{"PUT", "/theme", PreferenceHandler.HandleToggleTheme, nil},
				},
			},
			{
				prefix:      "/ws",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware},
				routes: []*route{
					{"GET", "/feed", websocket.WithHeartbeat(FeedHandler.HandleFeed), nil},
				},
			},
		},
	}
}
