package subrecipients

import (
	"errors"
	"net/http"
)

// Domain errors for subrecipient operations.
var (
	ErrNotFound     = errors.New("subrecipient not found")
	ErrDuplicate    = errors.New("subrecipient identifier already registered")
	ErrNoIdentifier = errors.New("subrecipient requires a UEI or TIN")
)

// MapHTTPStatus maps subrecipient domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrNoIdentifier) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
