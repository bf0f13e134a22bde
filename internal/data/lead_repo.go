package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tradedispatch/dispatch-api/internal/data/database"
	"github.com/tradedispatch/dispatch-api/internal/data/pgxutil"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

// LeadRepo stages contractor leads imported from license boards.
type LeadRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// LeadRepoOptions configures a LeadRepo.
type LeadRepoOptions struct {
	TimeProvider TimeProvider
}

// NewLeadRepo creates a new LeadRepo.
func NewLeadRepo(db *sql.DB, opts LeadRepoOptions) *LeadRepo {
	return &LeadRepo{DB: db, timeProvider: timeProviderOrDefault(opts.TimeProvider)}
}

func leadColumnList() []string {
	return []string{
		"id", "source", "license_number", "business_name", "contact_name", "trade", "classification",
		"city", "state", "phone", "website", "email", "email_confidence", "email_verified",
		"enrichment_status", "created_at",
	}
}

const maxLeadListLimit = 500

// buildLeadListQuery translates list options into SQL. id is cast so text IDs compare against the uuid column.
func buildLeadListQuery(opts model.LeadListOptions) (string, []any) {
	limit := opts.Limit
	if limit <= 0 || limit > maxLeadListLimit {
		limit = maxLeadListLimit
	}
	qo := []database.ListQueryOption{
		database.WithColumns(leadColumnList()...),
		database.WithOrderBy("created_at", "ASC"),
		database.WithLimit(limit),
	}
	if len(opts.IDs) > 0 {
		qo = append(qo, database.WithCondition(database.WhereRawCond("id::text = ANY($1)", opts.IDs)))
	}
	if opts.Source != "" {
		qo = append(qo, database.WithCondition(database.WhereCond("source", database.Equal, string(opts.Source))))
	}
	if opts.Status != "" {
		qo = append(qo, database.WithCondition(
			database.WhereCond("enrichment_status", database.Equal, string(opts.Status))))
	}
	if opts.WithEmailOnly {
		qo = append(qo, database.WithCondition(database.WhereRawCond("email IS NOT NULL AND email <> ''")))
	}
	return database.BuildListQuery(database.NewListQueryOptions("leads", qo...))
}

// List returns leads matching opts, oldest first.
func (r *LeadRepo) List(ctx context.Context, opts model.LeadListOptions) ([]*model.Lead, error) {
	query, args := buildLeadListQuery(opts)
	var leads []*model.Lead
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		leads, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.Lead])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return leads, nil
}

// ExistingLicenseNumbers returns which of numbers are already staged for source.
func (r *LeadRepo) ExistingLicenseNumbers(
	ctx context.Context,
	source model.LeadSource,
	numbers []string,
) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	if len(numbers) == 0 {
		return out, nil
	}
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT license_number FROM leads
			WHERE source = $1 AND license_number = ANY($2)`, source, numbers)
		if err != nil {
			return err
		}
		found, err := pgx.CollectRows(rows, pgx.RowTo[string])
		for _, n := range found {
			out[n] = struct{}{}
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("existing license numbers: %w", err)
	}
	return out, nil
}

// UpsertBatch writes leads keyed by (source, license_number) in one transaction and
// returns the number of rows written. Existing rows keep their enrichment state.
func (r *LeadRepo) UpsertBatch(ctx context.Context, leads []model.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}
	now := r.timeProvider.Now()
	written := 0
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i := range leads {
			l := &leads[i]
			batch.Queue(`
				INSERT INTO leads (source, license_number, business_name, contact_name, trade, classification,
					city, state, phone, website, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
				ON CONFLICT ON CONSTRAINT uq_leads_source_license DO UPDATE SET
					business_name  = EXCLUDED.business_name,
					contact_name   = EXCLUDED.contact_name,
					trade          = EXCLUDED.trade,
					classification = EXCLUDED.classification,
					city           = EXCLUDED.city,
					state          = EXCLUDED.state,
					phone          = EXCLUDED.phone,
					website        = COALESCE(EXCLUDED.website, leads.website),
					updated_at     = EXCLUDED.updated_at`,
				l.Source, l.LicenseNumber, l.BusinessName, l.ContactName, l.Trade, l.Classification,
				l.City, l.State, l.Phone, l.Website, now,
			)
		}
		br := tx.SendBatch(ctx, batch)
		for range leads {
			tag, err := br.Exec()
			if err != nil {
				_ = br.Close()
				return err
			}
			written += int(tag.RowsAffected())
		}
		return br.Close()
	}})
	if err != nil {
		return 0, fmt.Errorf("upsert leads: %w", err)
	}
	return written, nil
}

// UpdateEmail stores the outcome of an enrichment or verification on a lead.
func (r *LeadRepo) UpdateEmail(ctx context.Context, upd model.LeadEmailUpdate) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `
			UPDATE leads SET
				email             = COALESCE($2, email),
				email_confidence  = COALESCE($3, email_confidence),
				email_verified    = $4,
				enrichment_status = $5,
				updated_at        = $6
			WHERE id::text = $1`,
			upd.LeadID, upd.Email, upd.Confidence, upd.Verified, upd.Status, r.timeProvider.Now())
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("update lead email: %w", err)
	}
	if affected == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// Stats counts leads by enrichment state.
func (r *LeadRepo) Stats(ctx context.Context) (*model.LeadStats, error) {
	var s model.LeadStats
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT
				count(*),
				count(*) FILTER (WHERE enrichment_status = 'pending'),
				count(*) FILTER (WHERE enrichment_status = 'enriched'),
				count(*) FILTER (WHERE enrichment_status = 'not_found'),
				count(*) FILTER (WHERE enrichment_status = 'failed'),
				count(*) FILTER (WHERE email_verified)
			FROM leads`).Scan(&s.Total, &s.Pending, &s.Enriched, &s.NotFound, &s.Failed, &s.Verified)
	})
	if err != nil {
		return nil, fmt.Errorf("lead stats: %w", err)
	}
	return &s, nil
}
