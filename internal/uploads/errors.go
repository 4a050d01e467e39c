package uploads

import (
	"errors"
	"net/http"
)

// Domain errors for upload operations.
var (
	ErrNotFound     = errors.New("upload not found")
	ErrDuplicate    = errors.New("upload already exists")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrInvalidFile  = errors.New("uploads must be .xlsm workbooks")
	ErrPeriodClosed = errors.New("reporting period is closed to uploads")
	ErrNotValidated = errors.New("upload has not been validated")
)

// MapHTTPStatus maps upload domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrInvalidFile) || errors.Is(err, ErrNotValidated) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrPeriodClosed) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
