package uploads

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/granite-reporting/granite/internal/records"
	"github.com/granite-reporting/granite/pkg/repository"
	"github.com/granite-reporting/granite/pkg/storage"
)

const uploadColumns = `id, tenant_id, reporting_period_id, agency_id, ec_code,
	filename, notes, user_id, created_at, validated_at, validated_by, invalidated_at, invalidated_by`

const workbookContentType = "application/vnd.ms-excel.sheet.macroEnabled.12"

type repo struct {
	db     *sql.DB
	blobs  storage.System
	logger *slog.Logger
}

// New creates an upload repository implementing the System interface.
func New(db *sql.DB, blobs storage.System, logger *slog.Logger) System {
	return &repo{
		db:     db,
		blobs:  blobs,
		logger: logger.With("system", "uploads"),
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, maxUploadSize)
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Upload, error) {
	if !strings.EqualFold(filepath.Ext(cmd.Filename), ".xlsm") {
		return nil, ErrInvalidFile
	}

	id := uuid.New()
	key := records.WorkbookKey(id)

	if err := r.blobs.Upload(ctx, key, bytes.NewReader(cmd.Data), workbookContentType); err != nil {
		return nil, fmt.Errorf("store workbook blob: %w", err)
	}

	q := fmt.Sprintf(`
		INSERT INTO uploads(id, tenant_id, reporting_period_id, filename, notes, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, uploadColumns)

	args := []any{id, cmd.TenantID, cmd.ReportingPeriodID, cmd.Filename, cmd.Notes, cmd.UserID}

	u, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Upload, error) {
		return repository.QueryOne(ctx, tx, q, args, scanUpload)
	})
	if err != nil {
		if delErr := r.blobs.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("upload stored", "id", u.ID, "filename", u.Filename, "period_id", u.ReportingPeriodID)
	return &u, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Upload, error) {
	q := fmt.Sprintf("SELECT %s FROM uploads WHERE id = $1", uploadColumns)

	u, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanUpload)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &u, nil
}

func (r *repo) InPeriod(ctx context.Context, tenantID, periodID uuid.UUID) ([]Upload, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM uploads
		WHERE tenant_id = $1 AND reporting_period_id = $2
		ORDER BY created_at DESC`, uploadColumns)

	items, err := repository.QueryMany(ctx, r.db, q, []any{tenantID, periodID}, scanUpload)
	if err != nil {
		return nil, fmt.Errorf("list uploads in period: %w", err)
	}
	return items, nil
}

func (r *repo) Series(ctx context.Context, id uuid.UUID) ([]Upload, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM uploads
		WHERE reporting_period_id = (SELECT reporting_period_id FROM uploads WHERE id = $1)
		  AND agency_id = (SELECT agency_id FROM uploads WHERE id = $1)
		  AND ec_code = (SELECT ec_code FROM uploads WHERE id = $1)
		ORDER BY created_at DESC`, uploadColumns)

	items, err := repository.QueryMany(ctx, r.db, q, []any{id}, scanUpload)
	if err != nil {
		return nil, fmt.Errorf("list upload series: %w", err)
	}
	return items, nil
}

func (r *repo) UsedForTreasuryExport(ctx context.Context, tenantID, periodID uuid.UUID) ([]Upload, error) {
	q := fmt.Sprintf(`
		SELECT DISTINCT ON (agency_id, ec_code) %s FROM uploads
		WHERE tenant_id = $1
		  AND reporting_period_id = $2
		  AND validated_at IS NOT NULL
		  AND agency_id IS NOT NULL
		  AND ec_code IS NOT NULL
		ORDER BY agency_id, ec_code, created_at DESC`, uploadColumns)

	items, err := repository.QueryMany(ctx, r.db, q, []any{tenantID, periodID}, scanUpload)
	if err != nil {
		return nil, fmt.Errorf("select canonical uploads: %w", err)
	}
	return items, nil
}

func (r *repo) Workbook(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	u, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.blobs.Download(ctx, records.WorkbookKey(u.ID))
}

func (r *repo) SetAgency(ctx context.Context, id, agencyID uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db,
		"UPDATE uploads SET agency_id = $2 WHERE id = $1", id, agencyID)
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}

func (r *repo) SetECCode(ctx context.Context, id uuid.UUID, ecCode string) error {
	err := repository.ExecExpectOne(ctx, r.db,
		"UPDATE uploads SET ec_code = $2 WHERE id = $1", id, ecCode)
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}

func (r *repo) MarkValidated(ctx context.Context, id, userID uuid.UUID) (*Upload, error) {
	q := fmt.Sprintf(`
		UPDATE uploads
		SET validated_at = now(), validated_by = $2,
		    invalidated_at = NULL, invalidated_by = NULL
		WHERE id = $1
		RETURNING %s`, uploadColumns)

	u, err := repository.QueryOne(ctx, r.db, q, []any{id, userID}, scanUpload)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("upload validated", "id", u.ID, "validated_by", userID)
	return &u, nil
}

func (r *repo) MarkNotValidated(ctx context.Context, id uuid.UUID) (*Upload, error) {
	q := fmt.Sprintf(`
		UPDATE uploads
		SET validated_at = NULL, validated_by = NULL,
		    invalidated_at = NULL, invalidated_by = NULL
		WHERE id = $1
		RETURNING %s`, uploadColumns)

	u, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanUpload)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &u, nil
}

func (r *repo) Invalidate(ctx context.Context, id, userID uuid.UUID) (*Upload, error) {
	q := fmt.Sprintf(`
		UPDATE uploads
		SET invalidated_at = now(), invalidated_by = $2,
		    validated_at = NULL, validated_by = NULL
		WHERE id = $1
		RETURNING %s`, uploadColumns)

	u, err := repository.QueryOne(ctx, r.db, q, []any{id, userID}, scanUpload)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("upload invalidated", "id", u.ID, "invalidated_by", userID)
	return &u, nil
}

func scanUpload(s repository.Scanner) (Upload, error) {
	var u Upload
	err := s.Scan(
		&u.ID,
		&u.TenantID,
		&u.ReportingPeriodID,
		&u.AgencyID,
		&u.ECCode,
		&u.Filename,
		&u.Notes,
		&u.UserID,
		&u.CreatedAt,
		&u.ValidatedAt,
		&u.ValidatedBy,
		&u.InvalidatedAt,
		&u.InvalidatedBy,
	)
	return u, err
}
