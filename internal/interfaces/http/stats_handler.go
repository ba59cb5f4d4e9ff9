package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/studysync/diary/internal/entry"
	"github.com/studysync/diary/internal/infrastructure/auth"
	"github.com/studysync/diary/internal/stats"
)

// StatsHandler derived statistics over the entry collection
type StatsHandler struct {
	EntryUseCase entry.EntryUseCase
	JWTUtil      *auth.JWTUtil
}

// NewStatsHandler create a stats controller instance
func NewStatsHandler(EntryUseCase entry.EntryUseCase, JWTUtil *auth.JWTUtil) *StatsHandler {
	return &StatsHandler{
		EntryUseCase: EntryUseCase,
		JWTUtil:      JWTUtil,
	}
}

// HandleGetWeeklySummary per-subject hours over the rolling 7-day window.
// The reference instant defaults to now, an explicit RFC3339 `ts` query
// parameter pins it for reproducible results
func (sh *StatsHandler) HandleGetWeeklySummary(c echo.Context) error {
	claims := sh.JWTUtil.GetContextToken(c)

	now := time.Now()
	if ts := c.QueryParam("ts"); ts != "" {
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return c.JSON(http.StatusBadRequest,
				NewRESTStandardError(http.StatusBadRequest, "ts must be a RFC3339 timestamp"))
		}
		now = parsed
	}

	entries, err := sh.EntryUseCase.ListByUser(c.Request().Context(), claims.UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats.ComputeWeeklySummary(entries, now))
}

// HandleGetStreak consecutive days with at least one entry, counting back
// from today
func (sh *StatsHandler) HandleGetStreak(c echo.Context) error {
	claims := sh.JWTUtil.GetContextToken(c)

	entries, err := sh.EntryUseCase.ListByUser(c.Request().Context(), claims.UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"streak": stats.ComputeStreak(entries, time.Now())})
}
