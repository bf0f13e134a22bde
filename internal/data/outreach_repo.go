package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/data/pgxutil"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

// OutreachRepo stores dispatch runs and their per-technician recipients.
type OutreachRepo struct {
	DB *sql.DB
}

// NewOutreachRepo creates a new OutreachRepo.
func NewOutreachRepo(db *sql.DB) *OutreachRepo {
	return &OutreachRepo{DB: db}
}

const outreachColumns = `id::text, job_id, total_recipients, warm_sent, cold_sent, status, created_at, completed_at`

const recipientColumns = `id::text, outreach_id::text, technician_id, email, dispatch_method, email_sent, sent_at, error`

func (r *OutreachRepo) queryOutreach(ctx context.Context, query string, args ...any) (*model.WorkOrderOutreach, error) {
	var o *model.WorkOrderOutreach
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		o, err = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.WorkOrderOutreach])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOutreachNotFound
	}
	return o, err
}

// Create opens an in-progress outreach for a job.
func (r *OutreachRepo) Create(ctx context.Context, jobID string, totalRecipients int) (*model.WorkOrderOutreach, error) {
	o, err := r.queryOutreach(ctx, `
		INSERT INTO work_order_outreach (job_id, total_recipients, status)
		VALUES ($1, $2, $3)
		RETURNING `+outreachColumns, jobID, totalRecipients, model.OutreachStatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("create outreach: %w", err)
	}
	return o, nil
}

// GetByID retrieves an outreach by its ID.
func (r *OutreachRepo) GetByID(ctx context.Context, id string) (*model.WorkOrderOutreach, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrOutreachNotFound
	}
	o, err := r.queryOutreach(ctx, `SELECT `+outreachColumns+` FROM work_order_outreach WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, ErrOutreachNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get outreach: %w", err)
	}
	return o, nil
}

// CreateRecipient records a technician targeted by an outreach before the send happens.
func (r *OutreachRepo) CreateRecipient(
	ctx context.Context,
	req model.CreateRecipientRequest,
) (*model.OutreachRecipient, error) {
	if !req.DispatchMethod.Valid() {
		return nil, fmt.Errorf("invalid dispatch method %q", req.DispatchMethod)
	}

	var rec *model.OutreachRecipient
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO outreach_recipients (outreach_id, technician_id, email, dispatch_method)
			VALUES ($1, $2, $3, $4)
			RETURNING `+recipientColumns,
			req.OutreachID, req.TechnicianID, req.Email, req.DispatchMethod)
		if err != nil {
			return err
		}
		rec, err = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.OutreachRecipient])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create outreach recipient: %w", err)
	}
	return rec, nil
}

func (r *OutreachRepo) execRecipient(ctx context.Context, query string, args ...any) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, query, args...)
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRecipientMissing
	}
	return nil
}

// MarkRecipientSent flags a recipient as delivered.
func (r *OutreachRepo) MarkRecipientSent(ctx context.Context, recipientID string, at time.Time) error {
	err := r.execRecipient(ctx, `
		UPDATE outreach_recipients SET email_sent = true, sent_at = $2, error = NULL
		WHERE id = $1`, recipientID, at)
	if err != nil {
		return fmt.Errorf("mark recipient sent: %w", err)
	}
	return nil
}

// MarkRecipientFailed stores the send error on a recipient.
func (r *OutreachRepo) MarkRecipientFailed(ctx context.Context, recipientID, errMsg string) error {
	err := r.execRecipient(ctx, `
		UPDATE outreach_recipients SET email_sent = false, error = $2
		WHERE id = $1`, recipientID, errMsg)
	if err != nil {
		return fmt.Errorf("mark recipient failed: %w", err)
	}
	return nil
}

// RefreshStats calls the refresh_outreach_stats procedure.
func (r *OutreachRepo) RefreshStats(ctx context.Context, outreachID string) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `SELECT refresh_outreach_stats($1)`, outreachID)
		return err
	})
	if err != nil {
		return fmt.Errorf("refresh outreach stats: %w", err)
	}
	return nil
}

// Finish sets the terminal status of an outreach.
func (r *OutreachRepo) Finish(ctx context.Context, params core.FinishOutreachParams) (*model.WorkOrderOutreach, error) {
	o, err := r.queryOutreach(ctx, `
		UPDATE work_order_outreach SET status = $2, completed_at = $3
		WHERE id = $1
		RETURNING `+outreachColumns, params.OutreachID, params.Status, params.At)
	if err != nil {
		if errors.Is(err, ErrOutreachNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("finish outreach: %w", err)
	}
	return o, nil
}

// ListRecipients returns the recipients of an outreach in insertion order.
func (r *OutreachRepo) ListRecipients(ctx context.Context, outreachID string) ([]*model.OutreachRecipient, error) {
	var recs []*model.OutreachRecipient
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+recipientColumns+` FROM outreach_recipients
			WHERE outreach_id = $1 ORDER BY created_at ASC`, outreachID)
		if err != nil {
			return err
		}
		recs, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.OutreachRecipient])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list outreach recipients: %w", err)
	}
	return recs, nil
}
