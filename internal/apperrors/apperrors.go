package apperrors

import (
	"errors"
	"net/http"
)

// Sentinel errors for the failure kinds the API distinguishes. Handlers
// map them to HTTP statuses; everything else is an internal error.
var (
	ErrValidation      = errors.New("validation failed")
	ErrInvalidCursor   = errors.New("invalid cursor")
	ErrUnauthenticated = errors.New("authentication required")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
)

// HTTPStatus returns the status code for a known error kind.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidCursor):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
