package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/studysync/diary/internal/entry"
	"github.com/studysync/diary/internal/infrastructure/auth"
	"github.com/studysync/diary/internal/infrastructure/validate"
)

// EntryHandler study entry operations
type EntryHandler struct {
	EntryUseCase entry.EntryUseCase
	JWTUtil      *auth.JWTUtil
	Validator    validate.Validator
}

// NewEntryHandler create an entry controller instance
func NewEntryHandler(EntryUseCase entry.EntryUseCase, JWTUtil *auth.JWTUtil, Validator validate.Validator) *EntryHandler {
	return &EntryHandler{
		EntryUseCase: EntryUseCase,
		JWTUtil:      JWTUtil,
		Validator:    Validator,
	}
}

// HandleListEntries newest first
func (eh *EntryHandler) HandleListEntries(c echo.Context) error {
	claims := eh.JWTUtil.GetContextToken(c)
	entries, err := eh.EntryUseCase.ListByUser(c.Request().Context(), claims.UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// HandleAddEntry ...
func (eh *EntryHandler) HandleAddEntry(c echo.Context) error {
	claims := eh.JWTUtil.GetContextToken(c)

	post := new(entry.EntryModel)
	if err := c.Bind(&post); err != nil {
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, "Failed to bind entry entity"))
	}
	if fields := eh.Validator.Struct(post); fields != nil {
		return c.JSON(http.StatusBadRequest,
			NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", fields))
	}

	created, err := eh.EntryUseCase.AddEntry(c.Request().Context(), claims.UID, post)
	if err != nil {
		if code, ok := entryErrorStatus(err); ok {
			return c.JSON(code, NewRESTStandardError(code, err.Error()))
		}
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// HandleUpdateEntry ...
func (eh *EntryHandler) HandleUpdateEntry(c echo.Context) error {
	claims := eh.JWTUtil.GetContextToken(c)

	post := new(entry.EntryModel)
	if err := c.Bind(&post); err != nil {
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, "Failed to bind entry entity"))
	}
	post.ID = c.Param("id")

	if err := eh.EntryUseCase.UpdateEntry(c.Request().Context(), claims.UID, post); err != nil {
		if code, ok := entryErrorStatus(err); ok {
			return c.JSON(code, NewRESTStandardError(code, err.Error()))
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleDeleteEntry ...
func (eh *EntryHandler) HandleDeleteEntry(c echo.Context) error {
	claims := eh.JWTUtil.GetContextToken(c)
	if err := eh.EntryUseCase.DeleteEntry(c.Request().Context(), claims.UID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func entryErrorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, entry.ErrUnknownSubject),
		errors.Is(err, entry.ErrUnknownTimeSlot),
		errors.Is(err, entry.ErrNegativeHours),
		errors.Is(err, entry.ErrBadDate):
		return http.StatusBadRequest, true
	case errors.Is(err, entry.ErrNotOwned):
		return http.StatusForbidden, true
	}
	return 0, false
}
