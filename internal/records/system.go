package records

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/granite-reporting/granite/internal/rules"
	"github.com/granite-reporting/granite/pkg/storage"
)

// System produces the extracted records for uploads, backed by blob
// storage for the workbooks and the extraction cache.
type System interface {
	// ForUpload returns the records of one upload, extracting on first use.
	ForUpload(ctx context.Context, id uuid.UUID) ([]Record, error)
	// ForUploads returns records for a set of uploads keyed by upload id.
	// Workbook parsing holds whole sheets in memory, so only a couple of
	// extractions run at once.
	ForUploads(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]Record, error)
	// Invalidate drops an upload's cached extraction.
	Invalidate(id uuid.UUID) error
}

type system struct {
	blobs   storage.System
	cache   *Cache
	catalog *rules.Catalog
	logger  *slog.Logger
}

func New(blobs storage.System, cache *Cache, catalog *rules.Catalog, logger *slog.Logger) System {
	return &system{
		blobs:   blobs,
		cache:   cache,
		catalog: catalog,
		logger:  logger.With("system", "records"),
	}
}

// extractionConcurrency bounds simultaneous workbook parses; each parse
// holds every sheet of a workbook in memory at once.
const extractionConcurrency = 2

func (s *system) ForUpload(ctx context.Context, id uuid.UUID) ([]Record, error) {
	return s.cache.Records(id, func() ([]Record, error) {
		return s.extract(ctx, id)
	})
}

func (s *system) ForUploads(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]Record, error) {
	results := make([][]Record, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(extractionConcurrency)

	for i, id := range ids {
		g.Go(func() error {
			records, err := s.ForUpload(ctx, id)
			if err != nil {
				return fmt.Errorf("upload %s: %w", id, err)
			}
			results[i] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID][]Record, len(ids))
	for i, id := range ids {
		out[id] = results[i]
	}
	return out, nil
}

func (s *system) Invalidate(id uuid.UUID) error {
	return s.cache.Invalidate(id)
}

func (s *system) extract(ctx context.Context, id uuid.UUID) ([]Record, error) {
	reader, err := s.blobs.Download(ctx, WorkbookKey(id))
	if err != nil {
		return nil, fmt.Errorf("fetch workbook: %w", err)
	}
	defer reader.Close()

	workbook, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer workbook.Close()

	records, err := ExtractRecords(workbook, s.catalog, id)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("extracted upload records", "upload_id", id, "records", len(records))

	return records, nil
}
