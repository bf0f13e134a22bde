package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/data/pgxutil"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

// ReplyRepo stores drafted replies awaiting approval.
type ReplyRepo struct {
	DB *sql.DB
}

// NewReplyRepo creates a new ReplyRepo.
func NewReplyRepo(db *sql.DB) *ReplyRepo {
	return &ReplyRepo{DB: db}
}

const replyColumns = `id::text, to_email, subject, body, status, sent_at, error, created_at`

// GetByID retrieves a reply by ID.
func (r *ReplyRepo) GetByID(ctx context.Context, id string) (*model.OutboundReply, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrReplyNotFound
	}
	var reply *model.OutboundReply
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+replyColumns+` FROM outbound_replies WHERE id = $1`, id)
		if err != nil {
			return err
		}
		reply, err = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.OutboundReply])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReplyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reply: %w", err)
	}
	return reply, nil
}

// Transition moves a reply from params.FromStatus() to params.Status in one
// conditional UPDATE. A reply in any other status yields ErrReplyNotPending, so
// only one of several concurrent claims succeeds.
func (r *ReplyRepo) Transition(ctx context.Context, params core.ReplyTransitionParams) (*model.OutboundReply, error) {
	if _, err := uuid.Parse(params.ID); err != nil {
		return nil, ErrReplyNotFound
	}
	var reply *model.OutboundReply
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE outbound_replies SET status = $2, sent_at = COALESCE($3, sent_at), error = $4
			WHERE id = $1 AND status = $5
			RETURNING `+replyColumns, params.ID, params.Status, params.At, params.Error, params.FromStatus())
		if err != nil {
			return err
		}
		reply, err = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.OutboundReply])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, params.ID); getErr != nil {
			return nil, getErr
		}
		return nil, ErrReplyNotPending
	}
	if err != nil {
		return nil, fmt.Errorf("transition reply: %w", err)
	}
	return reply, nil
}
