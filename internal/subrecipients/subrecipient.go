// Package subrecipients implements the subrecipient registry: entities that
// receive subawards, identified by UEI or TIN. Validation upserts them from
// upload Subrecipient sheets so the latest submitted details win, and report
// generation reads them back for the subrecipient export.
package subrecipients

import (
	"time"

	"github.com/google/uuid"

	"github.com/granite-reporting/granite/internal/rules"
)

// Subrecipient is a registered subaward recipient. UEI and TIN are the two
// accepted identifiers; at least one must be present. Record holds the full
// field content from the most recent upload that mentioned the entity.
type Subrecipient struct {
	ID        uuid.UUID     `json:"id"`
	TenantID  uuid.UUID     `json:"tenant_id"`
	UEI       *string       `json:"uei"`
	TIN       *string       `json:"tin"`
	Record    rules.Content `json:"record"`
	UploadID  uuid.UUID     `json:"upload_id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// UpsertCommand carries one subrecipient row lifted from an upload.
type UpsertCommand struct {
	TenantID uuid.UUID
	UEI      *string
	TIN      *string
	Record   rules.Content
	UploadID uuid.UUID
}
