package middleware

// identity.go holds the helper that turns the authenticated user into
// a string component of rate-limit keys. Anonymous requests share the
// "anon" bucket per IP.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID renders the JWT subject stored in context as a string,
// or "anon" when the request carries no authenticated user.
func currentUserID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "anon"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		return fmt.Sprintf("%.0f", t)
	case uint64:
		return fmt.Sprintf("%d", t)
	}
	return "anon"
}
