package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate on bound DTOs.
type Validator struct {
	v *validator.Validate
}

// NewValidator constructs the shared request validator.
func NewValidator() *Validator { return &Validator{v: validator.New()} }

// Validate implements echo.Validator.
func (val *Validator) Validate(i interface{}) error { return val.v.Struct(i) }

// getUserID extracts the user_id placed in context by the JWT
// middleware and converts it to uint64. JWT numeric claims decode as
// float64, so several representations must be accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// serverError writes a 500 JSON body. Internal error detail is only
// attached in development mode; production clients get the message
// alone.
func serverError(c echo.Context, dev bool, msg string, err error) error {
	body := echo.Map{"error": msg}
	if dev && err != nil {
		body["details"] = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, body)
}
