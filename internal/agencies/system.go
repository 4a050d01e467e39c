package agencies

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for agency domain operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, tenantID uuid.UUID) ([]Agency, error)
	Find(ctx context.Context, id uuid.UUID) (*Agency, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Agency, error)
	Create(ctx context.Context, cmd CreateCommand) (*Agency, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Agency, error)
}
