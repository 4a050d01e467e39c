package periods

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// System defines the public contract for reporting period operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(ctx context.Context, tenantID uuid.UUID) ([]ReportingPeriod, error)
	Find(ctx context.Context, id uuid.UUID) (*ReportingPeriod, error)
	Create(ctx context.Context, cmd CreateCommand) (*ReportingPeriod, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*ReportingPeriod, error)

	// SetTemplate stores a period's bulk-upload workbook template and
	// records its filename on the period row.
	SetTemplate(ctx context.Context, id uuid.UUID, filename string, data []byte) (*ReportingPeriod, error)
	// Template streams a period's stored workbook template back, with the
	// filename it was stored under.
	Template(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error)

	// Settings returns the tenant's application settings row.
	Settings(ctx context.Context, tenantID uuid.UUID) (*Settings, error)
	// Current returns the period the settings pointer names.
	Current(ctx context.Context, tenantID uuid.UUID) (*ReportingPeriod, error)

	// Close certifies the current period and advances the pointer. The
	// whole transition happens in one transaction holding the settings
	// row lock, so concurrent closes cannot both succeed.
	Close(ctx context.Context, cmd CloseCommand) (*CloseResult, error)
}
