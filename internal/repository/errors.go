// Package repository defines error types that are reused across
// multiple repositories. These sentinel values let handlers map
// failure scenarios to specific HTTP statuses.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrMessGroupNotFound is returned when a listing id does not resolve
// to an active (non soft-deleted) row.
var ErrMessGroupNotFound = errors.New("mess group not found")
