package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// ErrorHandlingOption options for error handling
type ErrorHandlingOption struct {
	Handler func(c echo.Context, err error)
}

// ErrorHandling recover panics and turn unhandled errors into a uniform
// response envelope
// **DO NOT return error anymore**
func ErrorHandling(option *ErrorHandlingOption) echo.MiddlewareFunc {
	handler := option.Handler
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if any := recover(); any != nil {
					err, ok := any.(error)
					if !ok {
						err = fmt.Errorf("%v", any)
					}
					handler(c, err)
				}
			}()
			if err := next(c); err != nil {
				if v, ok := err.(*echo.HTTPError); ok {
					c.String(v.Code, v.Error())
					return nil
				}
				handler(c, err)
			}
			return nil
		}
	}
}
