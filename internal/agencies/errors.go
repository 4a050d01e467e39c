package agencies

import (
	"errors"
	"net/http"
)

// Domain errors for agency operations.
var (
	ErrNotFound    = errors.New("agency not found")
	ErrDuplicate   = errors.New("agency code already in use")
	ErrInvalidCode = errors.New("agency code must not be blank")
)

// MapHTTPStatus maps agency domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidCode) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
