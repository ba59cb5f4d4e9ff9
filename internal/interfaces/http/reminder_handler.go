package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/studysync/diary/internal/infrastructure/auth"
	"github.com/studysync/diary/internal/infrastructure/validate"
	"github.com/studysync/diary/internal/reminder"
)

// ReminderHandler reminder operations
type ReminderHandler struct {
	ReminderUseCase reminder.ReminderUseCase
	JWTUtil         *auth.JWTUtil
	Validator       validate.Validator
}

// NewReminderHandler create a reminder controller instance
func NewReminderHandler(ReminderUseCase reminder.ReminderUseCase, JWTUtil *auth.JWTUtil, Validator validate.Validator) *ReminderHandler {
	return &ReminderHandler{
		ReminderUseCase: ReminderUseCase,
		JWTUtil:         JWTUtil,
		Validator:       Validator,
	}
}

// HandleListReminders ordered by date
func (rh *ReminderHandler) HandleListReminders(c echo.Context) error {
	claims := rh.JWTUtil.GetContextToken(c)
	reminders, err := rh.ReminderUseCase.ListByUser(c.Request().Context(), claims.UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reminders)
}

// HandleAddReminder ...
func (rh *ReminderHandler) HandleAddReminder(c echo.Context) error {
	claims := rh.JWTUtil.GetContextToken(c)

	post := new(reminder.ReminderModel)
	if err := c.Bind(&post); err != nil {
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, "Failed to bind reminder entity"))
	}
	if fields := rh.Validator.Struct(post); fields != nil {
		return c.JSON(http.StatusBadRequest,
			NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", fields))
	}

	created, err := rh.ReminderUseCase.AddReminder(c.Request().Context(), claims.UID, post)
	if err != nil {
		switch {
		case errors.Is(err, reminder.ErrTitleRequired),
			errors.Is(err, reminder.ErrDateRequired),
			errors.Is(err, reminder.ErrBadDate):
			return c.JSON(http.StatusBadRequest, NewRESTStandardError(http.StatusBadRequest, err.Error()))
		}
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// HandleDeleteReminder ...
func (rh *ReminderHandler) HandleDeleteReminder(c echo.Context) error {
	claims := rh.JWTUtil.GetContextToken(c)
	if err := rh.ReminderUseCase.DeleteReminder(c.Request().Context(), claims.UID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
