package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	"github.com/tradedispatch/dispatch-api/internal/domain/sla"
	apperrors "github.com/tradedispatch/dispatch-api/internal/errors"
)

// Clock supplies the current time. data.TimeProvider satisfies it.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return systemClock{}
	}
	return c
}

// SLAServiceOptions groups dependencies for SLAService.
type SLAServiceOptions struct {
	Repo     core.SLARepository // Required: timer and alert store
	Jobs     core.JobRepository // Optional: resolves trade and urgency when a start request omits them
	Resolver *sla.Resolver      // Optional: defaults to the embedded preset table
	Feed     sla.Feed           // Optional: defaults to a change feed over Repo
	Clock    Clock              // Optional: defaults to the system clock
	Logger   *slog.Logger       // Optional: structured logger
}

// SLAService owns SLA timers and alerts of jobs.
//
// This service manages:
// - Resolving stage budgets from the preset table.
// - Starting, completing and projecting timers.
// - Alert acknowledgement.
// - Change subscriptions for live snapshot streams.
type SLAService struct {
	repo     core.SLARepository
	jobs     core.JobRepository
	resolver *sla.Resolver
	feed     sla.Feed
	clock    Clock
	logger   *slog.Logger
}

// NewSLAService constructs a new SLAService.
func NewSLAService(opts SLAServiceOptions) (*SLAService, error) {
	if opts.Repo == nil {
		return nil, errors.New("SLARepository is required")
	}

	resolver := opts.Resolver
	if resolver == nil {
		resolver = sla.NewResolver(nil)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	feed := opts.Feed
	if feed == nil {
		var err error
		feed, err = sla.NewChangeFeed(sla.FeedOptions{
			Source: opts.Repo,
			Logger: logger.With("component", "sla_feed"),
		})
		if err != nil {
			return nil, fmt.Errorf("create sla change feed: %w", err)
		}
	}

	return &SLAService{
		repo:     opts.Repo,
		jobs:     opts.Jobs,
		resolver: resolver,
		feed:     feed,
		clock:    clockOrDefault(opts.Clock),
		logger:   logger.With("component", "sla_service"),
	}, nil
}

// Resolve returns the stage budgets for a (trade, urgency) pair.
func (s *SLAService) Resolve(trade, urgency string) model.SLAConfig {
	return s.resolver.Resolve(trade, urgency)
}

// Presets exposes the preset table.
func (s *SLAService) Presets() *sla.Presets {
	return s.resolver.Presets()
}

// LoadTimers returns a job's timers in creation order. Read failures are logged
// and yield an empty list so a snapshot still renders.
func (s *SLAService) LoadTimers(ctx context.Context, jobID string) []*model.SLATimer {
	timers, err := s.repo.ListTimers(ctx, jobID)
	if err != nil {
		s.logger.WarnContext(ctx, "load sla timers failed", "job_id", jobID, "error", err)
		return []*model.SLATimer{}
	}
	if timers == nil {
		return []*model.SLATimer{}
	}
	return timers
}

// LoadAlerts returns a job's alerts newest first, soft-failing like LoadTimers.
func (s *SLAService) LoadAlerts(ctx context.Context, jobID string) []*model.SLAAlert {
	alerts, err := s.repo.ListAlerts(ctx, jobID)
	if err != nil {
		s.logger.WarnContext(ctx, "load sla alerts failed", "job_id", jobID, "error", err)
		return []*model.SLAAlert{}
	}
	if alerts == nil {
		return []*model.SLAAlert{}
	}
	return alerts
}

// Snapshot loads timers and alerts in parallel and projects timer status as of now.
func (s *SLAService) Snapshot(ctx context.Context, jobID string) *model.SLASnapshot {
	var (
		timers []*model.SLATimer
		alerts []*model.SLAAlert
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		timers = s.LoadTimers(gctx, jobID)
		return nil
	})
	g.Go(func() error {
		alerts = s.LoadAlerts(gctx, jobID)
		return nil
	})
	_ = g.Wait()

	now := s.clock.Now()
	return &model.SLASnapshot{
		JobID:       jobID,
		Timers:      sla.ProjectAll(timers, now),
		Alerts:      alerts,
		GeneratedAt: now,
	}
}

// StartTimers creates the four stage timers of a job and starts the dispatch stage.
// Trade and urgency default to the job's own values when omitted.
func (s *SLAService) StartTimers(ctx context.Context, req model.StartSLATimersRequest) (*model.SLASnapshot, error) {
	jobID := strings.TrimSpace(req.JobID)
	if jobID == "" {
		return nil, apperrors.ValidationField("job_id", "job_id is required")
	}

	trade, urgency := req.Trade, req.Urgency
	if (trade == "" || urgency == "") && s.jobs != nil {
		job, err := s.jobs.GetByID(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("load job for sla: %w", err)
		}
		if trade == "" {
			trade = job.Trade
		}
		if urgency == "" {
			urgency = job.Urgency
		}
	}

	if req.Override != nil {
		if err := validateOverride(*req.Override); err != nil {
			return nil, err
		}
	}
	cfg := sla.ApplyOverride(s.resolver.Resolve(trade, urgency), req.Override)

	if _, err := s.repo.CreateTimers(ctx, core.CreateSLATimersParams{
		JobID:     jobID,
		Config:    cfg,
		StartedAt: s.clock.Now(),
	}); err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsConflict(mapped) {
			return nil, apperrors.Conflictf("sla timers already running for job %s", jobID)
		}
		return nil, fmt.Errorf("start sla timers: %w", mapped)
	}

	s.logger.InfoContext(ctx, "sla timers started",
		"job_id", jobID,
		"trade", trade,
		"urgency", urgency,
		"dispatch_minutes", cfg.Dispatch,
	)
	return s.Snapshot(ctx, jobID), nil
}

func validateOverride(o model.SLAConfig) error {
	for _, stage := range model.SLAStages() {
		if o.Minutes(stage) < 0 {
			return apperrors.ValidationField("override."+stage.String(), "minutes must not be negative")
		}
	}
	return nil
}

// CompleteStage completes a stage and starts the next one.
func (s *SLAService) CompleteStage(ctx context.Context, jobID string, stage model.SLAStage) error {
	if !stage.Valid() {
		return apperrors.ValidationField("stage", "unknown sla stage")
	}
	if err := s.repo.CompleteStage(ctx, jobID, stage); err != nil {
		return fmt.Errorf("complete sla stage %s: %w", stage, err)
	}
	return nil
}

// Acknowledge flips the acknowledged flag of an alert.
func (s *SLAService) Acknowledge(ctx context.Context, alertID string) (*model.SLAAlert, error) {
	alert, err := s.repo.AcknowledgeAlert(ctx, alertID)
	if err != nil {
		return nil, fmt.Errorf("acknowledge sla alert: %w", err)
	}
	return alert, nil
}

// Subscribe streams snapshots of a job: one immediately and one after every change.
// The channel closes when ctx is done or the feed shuts down. Changes that arrive
// while a snapshot is still unread coalesce into one re-fetch.
func (s *SLAService) Subscribe(ctx context.Context, jobID string) <-chan *model.SLASnapshot {
	out := make(chan *model.SLASnapshot, 1)
	unsub, wake := s.feed.Subscribe(jobID)

	go func() {
		defer close(out)
		defer unsub()

		if !s.deliver(ctx, out, jobID) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-wake:
				if !ok {
					return
				}
				if !s.deliver(ctx, out, jobID) {
					return
				}
			}
		}
	}()
	return out
}

func (s *SLAService) deliver(ctx context.Context, out chan *model.SLASnapshot, jobID string) bool {
	snap := s.Snapshot(ctx, jobID)
	select {
	case out <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close stops every change listener.
func (s *SLAService) Close() {
	s.feed.StopAll()
}
