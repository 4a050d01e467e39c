package validation

import (
	"errors"
	"net/http"

	"github.com/granite-reporting/granite/internal/uploads"
)

// Domain errors for validation operations.
var (
	ErrPeriodCertified = errors.New("reporting period is certified")
)

// MapHTTPStatus maps validation domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrPeriodCertified) {
		return http.StatusConflict
	}
	if errors.Is(err, uploads.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
