// Package agencies implements the agency domain: the government entities
// whose uploads the service collects and reports on. Agency codes appear
// in upload filenames and cover sheets and resolve to agency rows here.
package agencies

import (
	"time"

	"github.com/google/uuid"
)

// Agency is a reporting agency within a tenant.
type Agency struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to register a new agency.
type CreateCommand struct {
	TenantID uuid.UUID `json:"tenant_id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
}

// UpdateCommand carries mutable agency fields. Nil fields are unchanged.
type UpdateCommand struct {
	Code *string `json:"code,omitempty"`
	Name *string `json:"name,omitempty"`
}
