// Package periods implements the reporting period domain: the quarterly
// windows uploads are collected in, the settings pointer naming the one
// open period per tenant, and the close transition that certifies a period
// and advances the pointer.
package periods

import (
	"time"

	"github.com/google/uuid"
)

// ReportingPeriod is one quarterly reporting window. A period is open until
// CertifiedAt is set; certification is permanent.
type ReportingPeriod struct {
	ID               uuid.UUID  `json:"id"`
	TenantID         uuid.UUID  `json:"tenant_id"`
	Name             string     `json:"name"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          time.Time  `json:"end_date"`
	TemplateFilename *string    `json:"template_filename"`
	CertifiedAt      *time.Time `json:"certified_at"`
	CertifiedBy      *uuid.UUID `json:"certified_by"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Certified reports whether the period has been closed.
func (p *ReportingPeriod) Certified() bool {
	return p.CertifiedAt != nil
}

// Settings is the per-tenant application state. CurrentReportingPeriodID
// points at the single period currently open for uploads.
type Settings struct {
	TenantID                 uuid.UUID `json:"tenant_id"`
	Title                    string    `json:"title"`
	CurrentReportingPeriodID uuid.UUID `json:"current_reporting_period_id"`
}

// CreateCommand carries the data needed to define a new reporting period.
type CreateCommand struct {
	TenantID  uuid.UUID `json:"tenant_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// UpdateCommand carries mutable period fields. Nil fields are unchanged.
// Certified periods reject updates.
type UpdateCommand struct {
	Name             *string    `json:"name,omitempty"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	TemplateFilename *string    `json:"template_filename,omitempty"`
}

// CloseCommand certifies the tenant's current period and advances the
// settings pointer to the next period by start date.
type CloseCommand struct {
	TenantID uuid.UUID `json:"tenant_id"`
	UserID   uuid.UUID `json:"user_id"`
}

// CloseResult reports a completed close: the period just certified and the
// period the settings pointer now names.
type CloseResult struct {
	Closed *ReportingPeriod `json:"closed"`
	Next   *ReportingPeriod `json:"next"`
}
