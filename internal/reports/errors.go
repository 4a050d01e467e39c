package reports

import (
	"errors"
	"net/http"

	"github.com/granite-reporting/granite/internal/periods"
)

// Domain errors for report generation.
var (
	ErrNoCanonicalUploads = errors.New("reporting period has no validated uploads")
	ErrMissingTemplate    = errors.New("export template not found")
	ErrTemplateMismatch   = errors.New("export columns do not match template")
)

// MapHTTPStatus maps report domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNoCanonicalUploads) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, periods.ErrNotFound) || errors.Is(err, periods.ErrSettingsNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
