package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/studysync/diary/internal/infrastructure/auth"
	"github.com/studysync/diary/internal/preference"
)

// PreferenceHandler per-user UI preferences
type PreferenceHandler struct {
	Themes  *preference.ThemeStore
	JWTUtil *auth.JWTUtil
}

// NewPreferenceHandler create a preference controller instance
func NewPreferenceHandler(Themes *preference.ThemeStore, JWTUtil *auth.JWTUtil) *PreferenceHandler {
	return &PreferenceHandler{
		Themes:  Themes,
		JWTUtil: JWTUtil,
	}
}

// HandleGetTheme ...
func (ph *PreferenceHandler) HandleGetTheme(c echo.Context) error {
	claims := ph.JWTUtil.GetContextToken(c)
	theme, err := ph.Themes.Get(claims.UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"theme": theme})
}

// HandleToggleTheme ...
func (ph *PreferenceHandler) HandleToggleTheme(c echo.Context) error {
	claims := ph.JWTUtil.GetContextToken(c)
	theme, err := ph.Themes.Toggle(claims.UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"theme": theme})
}
