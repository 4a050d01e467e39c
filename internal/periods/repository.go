package periods

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/granite-reporting/granite/pkg/repository"
	"github.com/granite-reporting/granite/pkg/storage"
)

const periodColumns = `id, tenant_id, name, start_date, end_date,
	template_filename, certified_at, certified_by, created_at, updated_at`

const templateContentType = "application/vnd.ms-excel.sheet.macroEnabled.12"

type repo struct {
	db     *sql.DB
	blobs  storage.System
	logger *slog.Logger
}

// New creates a reporting period repository implementing the System interface.
func New(db *sql.DB, blobs storage.System, logger *slog.Logger) System {
	return &repo{
		db:     db,
		blobs:  blobs,
		logger: logger.With("system", "periods"),
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, maxUploadSize)
}

func (r *repo) List(ctx context.Context, tenantID uuid.UUID) ([]ReportingPeriod, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM reporting_periods
		WHERE tenant_id = $1
		ORDER BY start_date`, periodColumns)

	items, err := repository.QueryMany(ctx, r.db, q, []any{tenantID}, scanPeriod)
	if err != nil {
		return nil, fmt.Errorf("list reporting periods: %w", err)
	}
	return items, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*ReportingPeriod, error) {
	q := fmt.Sprintf("SELECT %s FROM reporting_periods WHERE id = $1", periodColumns)

	p, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanPeriod)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*ReportingPeriod, error) {
	if !cmd.EndDate.After(cmd.StartDate) {
		return nil, ErrInvalidDates
	}
	cmd.Name = cleanName(cmd.Name)
	if cmd.Name == "" {
		return nil, ErrEmptyName
	}

	q := fmt.Sprintf(`
		INSERT INTO reporting_periods(id, tenant_id, name, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, periodColumns)

	args := []any{uuid.New(), cmd.TenantID, cmd.Name, cmd.StartDate, cmd.EndDate}

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPeriod)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("reporting period created", "id", p.ID, "name", p.Name)
	return &p, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*ReportingPeriod, error) {
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Certified() {
		return nil, ErrCertifiedImmutable
	}
	if cmd.Name != nil {
		cleaned := cleanName(*cmd.Name)
		if cleaned == "" {
			return nil, ErrEmptyName
		}
		cmd.Name = &cleaned
	}

	q := fmt.Sprintf(`
		UPDATE reporting_periods
		SET name = COALESCE($2, name),
		    start_date = COALESCE($3, start_date),
		    end_date = COALESCE($4, end_date),
		    template_filename = COALESCE($5, template_filename),
		    updated_at = now()
		WHERE id = $1
		RETURNING %s`, periodColumns)

	args := []any{id, cmd.Name, cmd.StartDate, cmd.EndDate, cmd.TemplateFilename}

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPeriod)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	if !p.EndDate.After(p.StartDate) {
		return nil, ErrInvalidDates
	}
	return &p, nil
}

func (r *repo) SetTemplate(ctx context.Context, id uuid.UUID, filename string, data []byte) (*ReportingPeriod, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".xlsm") {
		return nil, ErrInvalidTemplate
	}

	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Certified() {
		return nil, ErrCertifiedImmutable
	}

	if err := r.blobs.Upload(ctx, templateKey(id), bytes.NewReader(data), templateContentType); err != nil {
		return nil, fmt.Errorf("store period template blob: %w", err)
	}

	q := fmt.Sprintf(`
		UPDATE reporting_periods
		SET template_filename = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s`, periodColumns)

	p, err := repository.QueryOne(ctx, r.db, q, []any{id, filename}, scanPeriod)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("period template stored", "id", p.ID, "filename", filename)
	return &p, nil
}

func (r *repo) Template(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
	p, err := r.Find(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if p.TemplateFilename == nil {
		return nil, "", ErrNoTemplate
	}

	rc, err := r.blobs.Download(ctx, templateKey(id))
	if err != nil {
		return nil, "", fmt.Errorf("fetch period template blob: %w", err)
	}
	return rc, *p.TemplateFilename, nil
}

func templateKey(id uuid.UUID) string {
	return fmt.Sprintf("templates/%s.xlsm", id)
}

func (r *repo) Settings(ctx context.Context, tenantID uuid.UUID) (*Settings, error) {
	q := `
		SELECT tenant_id, title, current_reporting_period_id
		FROM application_settings
		WHERE tenant_id = $1`

	s, err := repository.QueryOne(ctx, r.db, q, []any{tenantID}, scanSettings)
	if err != nil {
		return nil, repository.MapError(err, ErrSettingsNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) Current(ctx context.Context, tenantID uuid.UUID) (*ReportingPeriod, error) {
	settings, err := r.Settings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if settings.CurrentReportingPeriodID == uuid.Nil {
		return nil, ErrNoCurrentPeriod
	}
	return r.Find(ctx, settings.CurrentReportingPeriodID)
}

// Close runs the certify-and-advance transition in one transaction. The
// settings row lock serializes concurrent closes for a tenant; whichever
// transaction commits second finds the period already certified and fails.
func (r *repo) Close(ctx context.Context, cmd CloseCommand) (*CloseResult, error) {
	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (CloseResult, error) {
		var zero CloseResult

		settings, err := repository.QueryOne(ctx, tx, `
			SELECT tenant_id, title, current_reporting_period_id
			FROM application_settings
			WHERE tenant_id = $1
			FOR UPDATE`, []any{cmd.TenantID}, scanSettings)
		if err != nil {
			return zero, repository.MapError(err, ErrSettingsNotFound, ErrDuplicate)
		}
		if settings.CurrentReportingPeriodID == uuid.Nil {
			return zero, ErrNoCurrentPeriod
		}

		periodQuery := fmt.Sprintf(`
			SELECT %s FROM reporting_periods
			WHERE id = $1
			FOR UPDATE`, periodColumns)
		period, err := repository.QueryOne(ctx, tx, periodQuery, []any{settings.CurrentReportingPeriodID}, scanPeriod)
		if err != nil {
			return zero, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		var earlierOpen int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM reporting_periods
			WHERE tenant_id = $1
			  AND start_date < $2
			  AND certified_at IS NULL`, cmd.TenantID, period.StartDate).Scan(&earlierOpen); err != nil {
			return zero, fmt.Errorf("count earlier open periods: %w", err)
		}

		var canonical int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM (
				SELECT DISTINCT agency_id, ec_code FROM uploads
				WHERE tenant_id = $1
				  AND reporting_period_id = $2
				  AND validated_at IS NOT NULL
				  AND agency_id IS NOT NULL
				  AND ec_code IS NOT NULL
			) series`, cmd.TenantID, period.ID).Scan(&canonical); err != nil {
			return zero, fmt.Errorf("count canonical uploads: %w", err)
		}

		nextQuery := fmt.Sprintf(`
			SELECT %s FROM reporting_periods
			WHERE tenant_id = $1 AND start_date > $2
			ORDER BY start_date
			LIMIT 1`, periodColumns)
		next, err := repository.QueryOne(ctx, tx, nextQuery, []any{cmd.TenantID, period.StartDate}, scanPeriod)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return zero, ErrNoNextPeriod
			}
			return zero, fmt.Errorf("find next reporting period: %w", err)
		}

		if err := ValidateClose(&period, &settings, earlierOpen, canonical, &next); err != nil {
			return zero, err
		}

		closedQuery := fmt.Sprintf(`
			UPDATE reporting_periods
			SET certified_at = now(), certified_by = $2, updated_at = now()
			WHERE id = $1 AND certified_at IS NULL
			RETURNING %s`, periodColumns)
		closed, err := repository.QueryOne(ctx, tx, closedQuery, []any{period.ID, cmd.UserID}, scanPeriod)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return zero, ErrAlreadyCertified
			}
			return zero, fmt.Errorf("certify reporting period: %w", err)
		}

		if err := repository.ExecExpectOne(ctx, tx, `
			UPDATE application_settings
			SET current_reporting_period_id = $2
			WHERE tenant_id = $1`, cmd.TenantID, next.ID); err != nil {
			return zero, fmt.Errorf("advance current period pointer: %w", err)
		}

		return CloseResult{Closed: &closed, Next: &next}, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("reporting period closed",
		"closed_id", result.Closed.ID,
		"next_id", result.Next.ID,
		"certified_by", cmd.UserID,
	)
	return &result, nil
}

func scanPeriod(s repository.Scanner) (ReportingPeriod, error) {
	var p ReportingPeriod
	err := s.Scan(
		&p.ID,
		&p.TenantID,
		&p.Name,
		&p.StartDate,
		&p.EndDate,
		&p.TemplateFilename,
		&p.CertifiedAt,
		&p.CertifiedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// cleanName collapses interior whitespace runs, matching how period names
// are compared for uniqueness.
func cleanName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func scanSettings(s repository.Scanner) (Settings, error) {
	var (
		st      Settings
		current uuid.NullUUID
	)
	err := s.Scan(
		&st.TenantID,
		&st.Title,
		&current,
	)
	if current.Valid {
		st.CurrentReportingPeriodID = current.UUID
	}
	return st, err
}
