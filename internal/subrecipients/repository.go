package subrecipients

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/granite-reporting/granite/internal/rules"
	"github.com/granite-reporting/granite/pkg/repository"
)

const subrecipientColumns = "id, tenant_id, uei, tin, record, upload_id, created_at, updated_at"

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a subrecipient repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "subrecipients"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) List(ctx context.Context, tenantID uuid.UUID) ([]Subrecipient, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM subrecipients
		WHERE tenant_id = $1
		ORDER BY created_at`, subrecipientColumns)

	items, err := repository.QueryMany(ctx, r.db, q, []any{tenantID}, scanSubrecipient)
	if err != nil {
		return nil, fmt.Errorf("list subrecipients: %w", err)
	}
	return items, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Subrecipient, error) {
	q := fmt.Sprintf("SELECT %s FROM subrecipients WHERE id = $1", subrecipientColumns)

	sub, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanSubrecipient)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &sub, nil
}

func (r *repo) FindByIdentifier(ctx context.Context, tenantID uuid.UUID, uei, tin *string) (*Subrecipient, error) {
	return findByIdentifier(ctx, r.db, tenantID, uei, tin)
}

func findByIdentifier(ctx context.Context, q repository.Querier, tenantID uuid.UUID, uei, tin *string) (*Subrecipient, error) {
	if identifier(uei) == "" && identifier(tin) == "" {
		return nil, ErrNoIdentifier
	}

	if identifier(uei) != "" {
		query := fmt.Sprintf(`
			SELECT %s FROM subrecipients
			WHERE tenant_id = $1 AND uei = $2`, subrecipientColumns)
		sub, err := repository.QueryOne(ctx, q, query, []any{tenantID, identifier(uei)}, scanSubrecipient)
		if err == nil {
			return &sub, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("find subrecipient by uei: %w", err)
		}
	}

	if identifier(tin) != "" {
		query := fmt.Sprintf(`
			SELECT %s FROM subrecipients
			WHERE tenant_id = $1 AND tin = $2`, subrecipientColumns)
		sub, err := repository.QueryOne(ctx, q, query, []any{tenantID, identifier(tin)}, scanSubrecipient)
		if err == nil {
			return &sub, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("find subrecipient by tin: %w", err)
		}
	}

	return nil, ErrNotFound
}

func (r *repo) Register(ctx context.Context, cmds []UpsertCommand) ([]Subrecipient, error) {
	subs, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]Subrecipient, error) {
		registered := make([]Subrecipient, 0, len(cmds))
		for _, cmd := range cmds {
			sub, err := upsert(ctx, tx, cmd)
			if err != nil {
				return nil, err
			}
			registered = append(registered, *sub)
		}
		return registered, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("subrecipients registered", "count", len(subs))
	return subs, nil
}

func upsert(ctx context.Context, tx *sql.Tx, cmd UpsertCommand) (*Subrecipient, error) {
	existing, err := findByIdentifier(ctx, tx, cmd.TenantID, cmd.UEI, cmd.TIN)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	record, err := json.Marshal(cmd.Record)
	if err != nil {
		return nil, fmt.Errorf("encode subrecipient record: %w", err)
	}

	if existing != nil {
		q := fmt.Sprintf(`
			UPDATE subrecipients
			SET record = $2, upload_id = $3, updated_at = now()
			WHERE id = $1
			RETURNING %s`, subrecipientColumns)

		sub, err := repository.QueryOne(ctx, tx, q, []any{existing.ID, record, cmd.UploadID}, scanSubrecipient)
		if err != nil {
			return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}
		return &sub, nil
	}

	q := fmt.Sprintf(`
		INSERT INTO subrecipients(id, tenant_id, uei, tin, record, upload_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, subrecipientColumns)

	args := []any{uuid.New(), cmd.TenantID, nullable(cmd.UEI), nullable(cmd.TIN), record, cmd.UploadID}

	sub, err := repository.QueryOne(ctx, tx, q, args, scanSubrecipient)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &sub, nil
}

func identifier(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func nullable(v *string) *string {
	if identifier(v) == "" {
		return nil
	}
	trimmed := identifier(v)
	return &trimmed
}

func scanSubrecipient(s repository.Scanner) (Subrecipient, error) {
	var (
		sub    Subrecipient
		record []byte
	)
	err := s.Scan(
		&sub.ID,
		&sub.TenantID,
		&sub.UEI,
		&sub.TIN,
		&record,
		&sub.UploadID,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return sub, err
	}

	sub.Record = make(rules.Content)
	if len(record) > 0 {
		if err := json.Unmarshal(record, &sub.Record); err != nil {
			return sub, fmt.Errorf("decode subrecipient record: %w", err)
		}
	}
	return sub, nil
}
