package middleware

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
)

// AbortRequestOption options for request deadlines
type AbortRequestOption struct {
	Timeout time.Duration
	Skipper func(c echo.Context) bool
}

// AbortRequest bound every request context with a deadline so a stuck
// downstream cannot pin the connection forever
func AbortRequest(option *AbortRequestOption) echo.MiddlewareFunc {
	timeout := option.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	skipper := func(echo.Context) bool { return false }
	if option.Skipper != nil {
		skipper = option.Skipper
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}
			r := c.Request()
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			c.SetRequest(r.WithContext(ctx))
			return next(c)
		}
	}
}
