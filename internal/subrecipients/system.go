package subrecipients

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for subrecipient domain operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, tenantID uuid.UUID) ([]Subrecipient, error)
	Find(ctx context.Context, id uuid.UUID) (*Subrecipient, error)
	// FindByIdentifier locates a subrecipient by UEI first, then TIN.
	FindByIdentifier(ctx context.Context, tenantID uuid.UUID, uei, tin *string) (*Subrecipient, error)
	// Register upserts every given row in one transaction: new identifiers
	// insert, known identifiers refresh their stored record. A failure on
	// any row leaves the registry unchanged.
	Register(ctx context.Context, cmds []UpsertCommand) ([]Subrecipient, error)
}
