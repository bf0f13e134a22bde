package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tradedispatch/dispatch-api/internal/data/pgxutil"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

// EnrichmentRepo manages the enrichment queue and the cold leads it produces.
type EnrichmentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// EnrichmentRepoOptions configures an EnrichmentRepo.
type EnrichmentRepoOptions struct {
	TimeProvider TimeProvider
}

// NewEnrichmentRepo creates a new EnrichmentRepo.
func NewEnrichmentRepo(db *sql.DB, opts EnrichmentRepoOptions) *EnrichmentRepo {
	return &EnrichmentRepo{DB: db, timeProvider: timeProviderOrDefault(opts.TimeProvider)}
}

const targetColumns = `id::text, business_name, contact_name, website, domain, trade, email, email_verified,
	status, attempts, email_found, last_error, updated_at`

const coldLeadColumns = `id::text, target_id::text, email, name, business_name, trade, campaign_id, pushed_at, created_at`

func (r *EnrichmentRepo) queryTarget(ctx context.Context, query string, args ...any) (*model.EnrichmentTarget, error) {
	var t *model.EnrichmentTarget
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		t, err = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.EnrichmentTarget])
		return err
	})
	return t, err
}

// GetTarget retrieves an enrichment target by ID.
func (r *EnrichmentRepo) GetTarget(ctx context.Context, id string) (*model.EnrichmentTarget, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrTargetNotFound
	}
	t, err := r.queryTarget(ctx, `SELECT `+targetColumns+` FROM enrichment_targets WHERE id = $1`, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTargetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get enrichment target: %w", err)
	}
	return t, nil
}

// ClaimTarget moves a pending or failed target to processing. Targets that are
// processing or completed yield ErrTargetNotClaimable.
func (r *EnrichmentRepo) ClaimTarget(ctx context.Context, id string) (*model.EnrichmentTarget, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrTargetNotFound
	}
	t, err := r.queryTarget(ctx, `
		UPDATE enrichment_targets SET status = 'processing', updated_at = $2
		WHERE id = $1 AND status IN ('pending', 'failed')
		RETURNING `+targetColumns, id, r.timeProvider.Now())
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.GetTarget(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrTargetNotClaimable
	}
	if err != nil {
		return nil, fmt.Errorf("claim enrichment target: %w", err)
	}
	return t, nil
}

// ListClaimable returns IDs of pending targets and failed targets with attempts below maxAttempts.
func (r *EnrichmentRepo) ListClaimable(ctx context.Context, limit, maxAttempts int) ([]string, error) {
	if limit <= 0 {
		limit = 25
	}
	var ids []string
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id::text FROM enrichment_targets
			WHERE status = 'pending' OR (status = 'failed' AND attempts < $2)
			ORDER BY created_at ASC
			LIMIT $1`, limit, maxAttempts)
		if err != nil {
			return err
		}
		ids, err = pgx.CollectRows(rows, pgx.RowTo[string])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list claimable targets: %w", err)
	}
	return ids, nil
}

// CompleteTarget records the outcome of a successful enrichment run.
func (r *EnrichmentRepo) CompleteTarget(ctx context.Context, params model.CompleteEnrichmentParams) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `
			UPDATE enrichment_targets SET
				status = 'completed',
				domain = COALESCE(NULLIF($2, ''), domain),
				email = $3,
				email_verified = $4,
				email_found = $5,
				attempts = attempts + 1,
				last_error = NULL,
				updated_at = $6
			WHERE id = $1`,
			params.TargetID, params.Domain, params.Email, params.EmailVerified, params.EmailFound,
			r.timeProvider.Now())
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("complete enrichment target: %w", err)
	}
	if affected == 0 {
		return ErrTargetNotFound
	}
	return nil
}

// FailTarget marks the target failed, increments attempts and stores the error.
func (r *EnrichmentRepo) FailTarget(ctx context.Context, id, errMsg string) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `
			UPDATE enrichment_targets
			SET status = 'failed', attempts = attempts + 1, last_error = $2, updated_at = $3
			WHERE id = $1`, id, errMsg, r.timeProvider.Now())
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("fail enrichment target: %w", err)
	}
	if affected == 0 {
		return ErrTargetNotFound
	}
	return nil
}

// CreateColdLead inserts a cold lead. An existing lead with the same email is returned unchanged.
func (r *EnrichmentRepo) CreateColdLead(ctx context.Context, lead *model.ColdLead) (*model.ColdLead, error) {
	if lead == nil || lead.Email == "" {
		return nil, errors.New("cold lead email is required")
	}
	var out *model.ColdLead
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			WITH ins AS (
				INSERT INTO cold_leads (target_id, email, name, business_name, trade, campaign_id)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT ON CONSTRAINT uq_cold_leads_email DO NOTHING
				RETURNING `+coldLeadColumns+`
			)
			SELECT * FROM ins
			UNION ALL
			SELECT `+coldLeadColumns+` FROM cold_leads WHERE email = $2 AND NOT EXISTS (SELECT 1 FROM ins)`,
			lead.TargetID, lead.Email, lead.Name, lead.BusinessName, lead.Trade, lead.CampaignID)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.ColdLead])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create cold lead: %w", err)
	}
	return out, nil
}

// MarkColdLeadPushed records when a cold lead was handed to the cold outreach provider.
func (r *EnrichmentRepo) MarkColdLeadPushed(ctx context.Context, id string, at time.Time) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `UPDATE cold_leads SET pushed_at = $2 WHERE id = $1`, id, at)
		return err
	})
	if err != nil {
		return fmt.Errorf("mark cold lead pushed: %w", err)
	}
	return nil
}
