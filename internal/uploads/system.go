package uploads

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// System defines the public contract for upload domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	Create(ctx context.Context, cmd CreateCommand) (*Upload, error)
	Find(ctx context.Context, id uuid.UUID) (*Upload, error)
	InPeriod(ctx context.Context, tenantID, periodID uuid.UUID) ([]Upload, error)
	// Series returns every upload sharing the given upload's agency and
	// category within its reporting period, newest first.
	Series(ctx context.Context, id uuid.UUID) ([]Upload, error)
	// UsedForTreasuryExport returns the canonical upload per (agency,
	// category) series in a period: the latest validated one of each.
	UsedForTreasuryExport(ctx context.Context, tenantID, periodID uuid.UUID) ([]Upload, error)
	// Workbook streams the stored workbook blob. The caller must close it.
	Workbook(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)

	// SetAgency and SetECCode backfill cover sheet values during validation.
	SetAgency(ctx context.Context, id, agencyID uuid.UUID) error
	SetECCode(ctx context.Context, id uuid.UUID, ecCode string) error

	MarkValidated(ctx context.Context, id, userID uuid.UUID) (*Upload, error)
	MarkNotValidated(ctx context.Context, id uuid.UUID) (*Upload, error)
	Invalidate(ctx context.Context, id, userID uuid.UUID) (*Upload, error)
}
