package reports

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/granite-reporting/granite/internal/periods"
	"github.com/granite-reporting/granite/internal/records"
	"github.com/granite-reporting/granite/internal/rules"
	"github.com/granite-reporting/granite/internal/uploads"
)

// renderConcurrency bounds parallel CSV rendering during archive assembly.
const renderConcurrency = 2

// Report is a generated treasury archive.
type Report struct {
	Filename string
	Content  []byte
	Files    int
	Uploads  int
}

// System generates treasury report archives for reporting periods.
type System interface {
	Handler() *Handler

	// Generate builds the treasury archive for a reporting period from
	// the canonical upload of every (agency, category) series. The whole
	// export succeeds or fails; a partial archive is never returned.
	Generate(ctx context.Context, tenantID, periodID uuid.UUID) (*Report, error)
}

type system struct {
	catalog *rules.Catalog
	uploads uploads.System
	records records.System
	periods periods.System
	logger  *slog.Logger
}

func New(catalog *rules.Catalog, up uploads.System, rec records.System, per periods.System, logger *slog.Logger) System {
	return &system{
		catalog: catalog,
		uploads: up,
		records: rec,
		periods: per,
		logger:  logger.With("system", "reports"),
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *system) Generate(ctx context.Context, tenantID, periodID uuid.UUID) (*Report, error) {
	period, err := s.periods.Find(ctx, periodID)
	if err != nil {
		return nil, err
	}
	settings, err := s.periods.Settings(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	canonical, err := s.uploads.UsedForTreasuryExport(ctx, tenantID, period.ID)
	if err != nil {
		return nil, err
	}
	if len(canonical) == 0 {
		return nil, ErrNoCanonicalUploads
	}

	ids := make([]uuid.UUID, len(canonical))
	for i, up := range canonical {
		ids[i] = up.ID
	}
	recsByUpload, err := s.records.ForUploads(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("extracting canonical uploads: %w", err)
	}

	exporters := make([]*Exporter, len(ExportCategories))
	for i, cat := range ExportCategories {
		exporter, err := NewExporter(s.catalog, cat)
		if err != nil {
			return nil, err
		}
		exporters[i] = exporter
	}

	for _, up := range canonical {
		if up.ECCode == nil {
			continue
		}
		for _, rec := range recsByUpload[up.ID] {
			for _, exporter := range exporters {
				exporter.Add(rec, *up.ECCode)
			}
		}
	}

	files, err := renderFiles(ctx, exporters)
	if err != nil {
		return nil, err
	}

	content, err := buildArchive(files)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Filename: reportFilename(settings.Title, period.ID, time.Now().UTC()),
		Content:  content,
		Files:    len(files),
		Uploads:  len(canonical),
	}

	s.logger.Info("generated treasury report",
		"reporting_period_id", period.ID,
		"uploads", report.Uploads,
		"files", report.Files,
		"bytes", len(report.Content))

	return report, nil
}

// renderFiles encodes every non-empty category concurrently, preserving
// category order in the result.
func renderFiles(ctx context.Context, exporters []*Exporter) ([]archiveFile, error) {
	rendered := make([][]byte, len(exporters))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(renderConcurrency)
	for i, exporter := range exporters {
		if exporter.Empty() {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := exporter.Render()
			if err != nil {
				return err
			}
			mu.Lock()
			rendered[i] = content
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	files := make([]archiveFile, 0, len(exporters))
	for i, exporter := range exporters {
		if rendered[i] == nil {
			continue
		}
		files = append(files, archiveFile{name: exporter.Category.Name, content: rendered[i]})
	}
	return files, nil
}

func reportFilename(title string, periodID uuid.UUID, now time.Time) string {
	title = strings.ReplaceAll(strings.TrimSpace(title), " ", "-")
	return fmt.Sprintf("%s-Period-%s-Treasury-Report-generated-%s.zip",
		title, periodID, now.Format("2006-01-02T15-04-05Z"))
}
