package agencies

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/granite-reporting/granite/pkg/repository"
)

const agencyColumns = "id, tenant_id, code, name, created_at, updated_at"

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates an agency repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "agencies"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) List(ctx context.Context, tenantID uuid.UUID) ([]Agency, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM agencies
		WHERE tenant_id = $1
		ORDER BY code`, agencyColumns)

	items, err := repository.QueryMany(ctx, r.db, q, []any{tenantID}, scanAgency)
	if err != nil {
		return nil, fmt.Errorf("list agencies: %w", err)
	}
	return items, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Agency, error) {
	q := fmt.Sprintf("SELECT %s FROM agencies WHERE id = $1", agencyColumns)

	a, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanAgency)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Agency, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM agencies
		WHERE tenant_id = $1 AND UPPER(code) = UPPER($2)`, agencyColumns)

	a, err := repository.QueryOne(ctx, r.db, q, []any{tenantID, strings.TrimSpace(code)}, scanAgency)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Agency, error) {
	if strings.TrimSpace(cmd.Code) == "" {
		return nil, ErrInvalidCode
	}

	q := fmt.Sprintf(`
		INSERT INTO agencies(id, tenant_id, code, name)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, agencyColumns)

	args := []any{uuid.New(), cmd.TenantID, strings.TrimSpace(cmd.Code), cmd.Name}

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAgency)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("agency created", "id", a.ID, "code", a.Code)
	return &a, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Agency, error) {
	if cmd.Code != nil && strings.TrimSpace(*cmd.Code) == "" {
		return nil, ErrInvalidCode
	}

	q := fmt.Sprintf(`
		UPDATE agencies
		SET code = COALESCE($2, code),
		    name = COALESCE($3, name),
		    updated_at = now()
		WHERE id = $1
		RETURNING %s`, agencyColumns)

	a, err := repository.QueryOne(ctx, r.db, q, []any{id, cmd.Code, cmd.Name}, scanAgency)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func scanAgency(s repository.Scanner) (Agency, error) {
	var a Agency
	err := s.Scan(
		&a.ID,
		&a.TenantID,
		&a.Code,
		&a.Name,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}
