package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/data/pgxutil"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

// JobRepo provides database operations for work orders and technician matching.
type JobRepo struct {
	DB *sql.DB
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{DB: db}
}

const jobColumns = `id, trade, urgency, description, raw_text, address, city, state, zip,
	latitude, longitude, budget::text, scheduled_for, status, created_at`

func scanJob(row pgx.Row) (*model.Job, error) {
	var (
		j      model.Job
		budget *string
	)
	err := row.Scan(
		&j.ID, &j.Trade, &j.Urgency, &j.Description, &j.RawText, &j.Address, &j.City, &j.State, &j.Zip,
		&j.Latitude, &j.Longitude, &budget, &j.ScheduledFor, &j.Status, &j.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if budget != nil {
		d, perr := decimal.NewFromString(*budget)
		if perr != nil {
			return nil, fmt.Errorf("parse budget %q: %w", *budget, perr)
		}
		j.Budget = decimal.NewNullDecimal(d)
	}
	return &j, nil
}

// GetByID retrieves a job by its ID.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	var job *model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var scanErr error
		job, scanErr = scanJob(conn.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
		return scanErr
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// FindMatchingTechnicians returns candidates from the find_matching_technicians procedure.
func (r *JobRepo) FindMatchingTechnicians(ctx context.Context, jobID string) ([]model.Candidate, error) {
	var out []model.Candidate
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT technician_id, name, email, signed_up, trade, distance_miles
			FROM find_matching_technicians($1)`, jobID)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Candidate, error) {
			var c model.Candidate
			scanErr := row.Scan(&c.TechnicianID, &c.Name, &c.Email, &c.SignedUp, &c.Trade, &c.DistanceMi)
			return c, scanErr
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("find matching technicians: %w", err)
	}
	return out, nil
}

// ApplyParse writes parsed fields back to a job. Blank parsed fields keep the stored value.
func (r *JobRepo) ApplyParse(ctx context.Context, params core.ApplyJobParseParams) (*model.Job, error) {
	p := params.Parsed
	var lat, lng *float64
	var city, state, zip string
	if params.Geo != nil {
		lat, lng = &params.Geo.Latitude, &params.Geo.Longitude
		city, state, zip = params.Geo.City, params.Geo.State, params.Geo.Zip
	}

	var job *model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var scanErr error
		job, scanErr = scanJob(conn.QueryRow(ctx, `
			UPDATE jobs SET
				raw_text    = $2,
				trade       = COALESCE(NULLIF($3, ''), trade),
				urgency     = COALESCE(NULLIF($4, ''), urgency),
				description = COALESCE(NULLIF($5, ''), description),
				address     = COALESCE(NULLIF($6, ''), address),
				city        = COALESCE(NULLIF($7, ''), city),
				state       = COALESCE(NULLIF($8, ''), state),
				zip         = COALESCE(NULLIF($9, ''), zip),
				latitude    = COALESCE($10, latitude),
				longitude   = COALESCE($11, longitude)
			WHERE id = $1
			RETURNING `+jobColumns,
			params.JobID, params.RawText,
			strings.TrimSpace(p.TradeNeeded), strings.TrimSpace(p.Urgency),
			strings.TrimSpace(p.Description), strings.TrimSpace(p.Address),
			city, state, zip, lat, lng,
		))
		return scanErr
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("apply job parse: %w", err)
	}
	return job, nil
}
