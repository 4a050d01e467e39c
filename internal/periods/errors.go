package periods

import (
	"errors"
	"net/http"
)

// Domain errors for reporting period operations.
var (
	ErrNotFound           = errors.New("reporting period not found")
	ErrDuplicate          = errors.New("reporting period already exists")
	ErrSettingsNotFound   = errors.New("application settings not found for tenant")
	ErrNotCurrentPeriod   = errors.New("only the current reporting period can be closed")
	ErrAlreadyCertified   = errors.New("reporting period is already certified")
	ErrNoValidatedUploads = errors.New("reporting period has no validated uploads to certify")
	ErrNoNextPeriod       = errors.New("no later reporting period exists to advance to")
	ErrEarlierPeriodOpen  = errors.New("an earlier reporting period is still uncertified")
	ErrNoCurrentPeriod    = errors.New("tenant has no current reporting period set")
	ErrCertifiedImmutable = errors.New("certified reporting periods cannot be modified")
	ErrInvalidDates       = errors.New("reporting period end date must follow its start date")
	ErrEmptyName          = errors.New("reporting period name cannot be empty")
	ErrNoTemplate         = errors.New("reporting period has no stored template")
	ErrInvalidTemplate    = errors.New("reporting period template must be an .xlsm workbook")
)

// MapHTTPStatus maps period domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSettingsNotFound) ||
		errors.Is(err, ErrNoCurrentPeriod) ||
		errors.Is(err, ErrNoTemplate) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidTemplate) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrAlreadyCertified) ||
		errors.Is(err, ErrCertifiedImmutable) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrNotCurrentPeriod) ||
		errors.Is(err, ErrEarlierPeriodOpen) ||
		errors.Is(err, ErrNoValidatedUploads) ||
		errors.Is(err, ErrNoNextPeriod) ||
		errors.Is(err, ErrInvalidDates) ||
		errors.Is(err, ErrEmptyName) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
