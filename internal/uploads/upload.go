// Package uploads implements the upload domain: workbook submissions from
// agencies, their validation lifecycle marks, and selection of the canonical
// upload per (agency, category) series within a reporting period.
package uploads

import (
	"time"

	"github.com/google/uuid"
)

// Upload is one submitted workbook. AgencyID and ECCode start nil and are
// backfilled from the workbook's cover sheet during validation, so an upload
// that never validated may have neither.
//
// The lifecycle marks are mutually exclusive: a validated upload has
// ValidatedAt set and InvalidatedAt clear, an invalidated one the reverse,
// and a never-validated upload has both clear.
type Upload struct {
	ID                uuid.UUID  `json:"id"`
	TenantID          uuid.UUID  `json:"tenant_id"`
	ReportingPeriodID uuid.UUID  `json:"reporting_period_id"`
	AgencyID          *uuid.UUID `json:"agency_id"`
	ECCode            *string    `json:"ec_code"`
	Filename          string     `json:"filename"`
	Notes             *string    `json:"notes"`
	UserID            uuid.UUID  `json:"user_id"`
	CreatedAt         time.Time  `json:"created_at"`
	ValidatedAt       *time.Time `json:"validated_at"`
	ValidatedBy       *uuid.UUID `json:"validated_by"`
	InvalidatedAt     *time.Time `json:"invalidated_at"`
	InvalidatedBy     *uuid.UUID `json:"invalidated_by"`
}

// Validated reports whether the upload currently counts toward the report.
func (u *Upload) Validated() bool {
	return u.ValidatedAt != nil
}

// Status renders the lifecycle marks as a display state.
func (u *Upload) Status() string {
	switch {
	case u.ValidatedAt != nil:
		return "validated"
	case u.InvalidatedAt != nil:
		return "invalidated"
	default:
		return "not validated"
	}
}

// CreateCommand carries the data needed to store a new upload.
type CreateCommand struct {
	TenantID          uuid.UUID
	ReportingPeriodID uuid.UUID
	UserID            uuid.UUID
	Filename          string
	Notes             *string
	Data              []byte
}
