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

// SLAChangeChannel is the NOTIFY channel fired by sla_timers and sla_alerts triggers.
const SLAChangeChannel = "sla_changes"

// SLARepo provides database operations for SLA timers and alerts.
type SLARepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// SLARepoOptions configures an SLARepo.
type SLARepoOptions struct {
	TimeProvider TimeProvider
}

// NewSLARepo creates a new SLARepo.
func NewSLARepo(db *sql.DB, opts SLARepoOptions) *SLARepo {
	return &SLARepo{DB: db, timeProvider: timeProviderOrDefault(opts.TimeProvider)}
}

const slaTimerColumns = `id::text, job_id, stage, target_minutes, started_at, completed_at, breached, breach_time, created_at`

const slaAlertColumns = `id::text, job_id, alert_type, stage, message, sent_at, acknowledged`

func (r *SLARepo) queryTimers(ctx context.Context, query string, args ...any) ([]*model.SLATimer, error) {
	var timers []*model.SLATimer
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		timers, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.SLATimer])
		return err
	})
	return timers, err
}

// ListTimers returns a job's timers in creation order.
func (r *SLARepo) ListTimers(ctx context.Context, jobID string) ([]*model.SLATimer, error) {
	timers, err := r.queryTimers(ctx,
		`SELECT `+slaTimerColumns+` FROM sla_timers WHERE job_id = $1 ORDER BY created_at ASC, id ASC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list sla timers: %w", err)
	}
	return timers, nil
}

// ListAlerts returns a job's alerts, most recent first.
func (r *SLARepo) ListAlerts(ctx context.Context, jobID string) ([]*model.SLAAlert, error) {
	var alerts []*model.SLAAlert
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+slaAlertColumns+` FROM sla_alerts WHERE job_id = $1 ORDER BY sent_at DESC`, jobID)
		if err != nil {
			return err
		}
		alerts, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.SLAAlert])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list sla alerts: %w", err)
	}
	return alerts, nil
}

// CreateTimers inserts the four stage timers of a job in one transaction.
// Only the dispatch timer is started. A second start while timers are active
// violates uq_sla_timers_active.
func (r *SLARepo) CreateTimers(ctx context.Context, params core.CreateSLATimersParams) ([]*model.SLATimer, error) {
	if err := params.Config.Validate(); err != nil {
		return nil, err
	}
	startedAt := params.StartedAt
	if startedAt.IsZero() {
		startedAt = r.timeProvider.Now()
	}

	var timers []*model.SLATimer
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		for _, stage := range model.SLAStages() {
			var started *time.Time
			if stage == model.SLAStageDispatch {
				started = &startedAt
			}
			rows, err := tx.Query(ctx, `
				INSERT INTO sla_timers (job_id, stage, target_minutes, started_at)
				VALUES ($1, $2, $3, $4)
				RETURNING `+slaTimerColumns,
				params.JobID, stage, params.Config.Minutes(stage), started)
			if err != nil {
				return err
			}
			t, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.SLATimer])
			if err != nil {
				return err
			}
			timers = append(timers, t)
		}
		return nil
	}})
	if err != nil {
		return nil, fmt.Errorf("create sla timers: %w", err)
	}
	return timers, nil
}

// CompleteStage calls the complete_sla_stage procedure.
func (r *SLARepo) CompleteStage(ctx context.Context, jobID string, stage model.SLAStage) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `SELECT complete_sla_stage($1, $2)`, jobID, stage)
		return err
	})
	if err != nil {
		return fmt.Errorf("complete sla stage %s: %w", stage, err)
	}
	return nil
}

// AcknowledgeAlert marks an alert acknowledged. Acknowledging twice is a no-op.
func (r *SLARepo) AcknowledgeAlert(ctx context.Context, alertID string) (*model.SLAAlert, error) {
	if _, err := uuid.Parse(alertID); err != nil {
		return nil, ErrAlertNotFound
	}

	var alert *model.SLAAlert
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE sla_alerts SET acknowledged = true
			WHERE id = $1
			RETURNING `+slaAlertColumns, alertID)
		if err != nil {
			return err
		}
		alert, err = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.SLAAlert])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAlertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("acknowledge sla alert: %w", err)
	}
	return alert, nil
}

// ListActiveTimers returns started timers that are neither completed nor breached,
// earliest deadline first so overdue timers are never crowded out of a batch.
func (r *SLARepo) ListActiveTimers(ctx context.Context, limit int) ([]*model.SLATimer, error) {
	if limit <= 0 {
		limit = 500
	}
	timers, err := r.queryTimers(ctx, `
		SELECT `+slaTimerColumns+`
		FROM sla_timers
		WHERE started_at IS NOT NULL AND completed_at IS NULL AND breached = false
		ORDER BY started_at + target_minutes * interval '1 minute' ASC, started_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list active sla timers: %w", err)
	}
	return timers, nil
}

// MarkBreached flips an active timer to breached. It reports false when the timer
// was completed or already breached in the meantime.
func (r *SLARepo) MarkBreached(ctx context.Context, timerID string, at time.Time) (bool, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `
			UPDATE sla_timers SET breached = true, breach_time = $2
			WHERE id = $1 AND completed_at IS NULL AND breached = false`, timerID, at)
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("mark sla timer breached: %w", err)
	}
	return affected > 0, nil
}

// RecordAlert inserts an alert once per (job, stage, type) and reports whether it was inserted.
func (r *SLARepo) RecordAlert(ctx context.Context, alert *model.SLAAlert) (bool, error) {
	if alert == nil || !alert.AlertType.Valid() || !alert.Stage.Valid() {
		return false, errors.New("valid alert type and stage are required")
	}
	sentAt := alert.SentAt
	if sentAt.IsZero() {
		sentAt = r.timeProvider.Now()
	}

	inserted := false
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO sla_alerts (job_id, alert_type, stage, message, sent_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT ON CONSTRAINT uq_sla_alerts_once DO NOTHING
			RETURNING `+slaAlertColumns,
			alert.JobID, alert.AlertType, alert.Stage, alert.Message, sentAt)
		if err != nil {
			return err
		}
		stored, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SLAAlert])
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		*alert = stored
		inserted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("record sla alert: %w", err)
	}
	return inserted, nil
}

// ListenSLAChanges holds one LISTEN connection on SLAChangeChannel and calls
// onChange with the job id of every timer or alert change until ctx is done.
func (r *SLARepo) ListenSLAChanges(ctx context.Context, listening func(), onChange func(jobID string)) error {
	return pgxutil.Listen(ctx, r.DB, SLAChangeChannel, listening, onChange)
}
