package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	apperrors "github.com/tradedispatch/dispatch-api/internal/errors"
)

// ReplyServiceOptions groups dependencies for ReplyService.
type ReplyServiceOptions struct {
	Repo   core.ReplyRepository // Required: reply queue
	Mailer core.PlainMailer     // Required: outbound email
	Clock  Clock                // Optional: defaults to the system clock
	Logger *slog.Logger         // Optional: structured logger
}

// ReplyService approves or rejects queued outbound replies.
type ReplyService struct {
	repo   core.ReplyRepository
	mailer core.PlainMailer
	clock  Clock
	logger *slog.Logger
}

// NewReplyService constructs a new ReplyService.
func NewReplyService(opts ReplyServiceOptions) (*ReplyService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ReplyRepository is required")
	}
	if opts.Mailer == nil {
		return nil, errors.New("mailer is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ReplyService{
		repo:   opts.Repo,
		mailer: opts.Mailer,
		clock:  clockOrDefault(opts.Clock),
		logger: logger.With("component", "reply_service"),
	}, nil
}

// Send claims a pending reply, emails it and marks it sent. Only the caller that
// wins the pending to sending claim talks to the provider, so concurrent approvals
// send at most once. A provider failure marks the reply failed.
func (s *ReplyService) Send(ctx context.Context, id string) (*model.OutboundReply, error) {
	reply, err := s.repo.Transition(ctx, core.ReplyTransitionParams{
		ID:     id,
		Status: model.ReplyStatusSending,
	})
	if err != nil {
		return nil, fmt.Errorf("claim reply: %w", err)
	}

	if sendErr := s.mailer.Send(ctx, model.PlainEmail{
		To:      reply.ToEmail,
		Subject: reply.Subject,
		Body:    reply.Body,
	}); sendErr != nil {
		msg := sendErr.Error()
		// The request context may be the reason the send failed.
		if _, terr := s.repo.Transition(context.WithoutCancel(ctx), core.ReplyTransitionParams{
			ID:     id,
			From:   model.ReplyStatusSending,
			Status: model.ReplyStatusFailed,
			Error:  &msg,
		}); terr != nil {
			s.logger.ErrorContext(ctx, "mark reply failed", "reply_id", id, "error", terr)
		}
		return nil, apperrors.Upstream(sendErr, "send reply")
	}

	now := s.clock.Now()
	sent, err := s.repo.Transition(context.WithoutCancel(ctx), core.ReplyTransitionParams{
		ID:     id,
		From:   model.ReplyStatusSending,
		Status: model.ReplyStatusSent,
		At:     &now,
	})
	if err != nil {
		return nil, fmt.Errorf("mark reply sent: %w", err)
	}
	s.logger.InfoContext(ctx, "reply sent", "reply_id", id)
	return sent, nil
}

// Reject discards a pending reply without sending it.
func (s *ReplyService) Reject(ctx context.Context, id string) (*model.OutboundReply, error) {
	reply, err := s.repo.Transition(ctx, core.ReplyTransitionParams{
		ID:     id,
		Status: model.ReplyStatusRejected,
	})
	if err != nil {
		return nil, fmt.Errorf("reject reply: %w", err)
	}
	return reply, nil
}
