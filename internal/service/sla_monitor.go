package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/tradedispatch/dispatch-api/config"
	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	"github.com/tradedispatch/dispatch-api/internal/domain/sla"
	obserrors "github.com/tradedispatch/dispatch-api/internal/observability/errors"
	"github.com/tradedispatch/dispatch-api/internal/observability/metrics"
	"github.com/tradedispatch/dispatch-api/internal/observability/notify"
	"github.com/tradedispatch/dispatch-api/internal/observability/statsd"
)

// AlertNotifier fans recorded SLA alerts out to chat and paging sinks.
type AlertNotifier interface {
	NotifySLAAlert(ctx context.Context, payload notify.SLAAlertPayload)
}

// SLAMonitorServiceOptions groups dependencies for SLAMonitorService.
type SLAMonitorServiceOptions struct {
	Repo     core.SLARepository      // Required: timer and alert store
	Jobs     core.JobRepository      // Optional: enriches notifications with trade and location
	Config   config.SLAMonitorConfig // Required: monitor configuration
	Notifier AlertNotifier           // Optional: alert fan-out
	Clock    Clock                   // Optional: defaults to the system clock
	Logger   *slog.Logger            // Optional: structured logger
	Metrics  statsd.Sink             // Optional: metrics sink (StatsD-compatible)
}

// SLAMonitorService periodically sweeps running timers.
//
// This service manages:
// - Marking overdue timers breached.
// - Recording one breach alert per job and stage.
// - Recording one warning alert per job and stage when enabled.
type SLAMonitorService struct {
	repo     core.SLARepository
	jobs     core.JobRepository
	config   config.SLAMonitorConfig
	notifier AlertNotifier
	clock    Clock
	logger   *slog.Logger
	metrics  statsd.Sink
}

// SweepResult counts what one sweep changed.
type SweepResult struct {
	Checked  int
	Breached int
	Warnings int
}

// NewSLAMonitorService constructs a new SLAMonitorService.
func NewSLAMonitorService(opts SLAMonitorServiceOptions) (*SLAMonitorService, error) {
	if opts.Repo == nil {
		return nil, errors.New("SLARepository is required")
	}
	if opts.Config.Interval <= 0 {
		return nil, errors.New("monitor interval must be positive")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "sla_monitor")
		logger.Debug("SLAMonitorService initialized",
			"interval", opts.Config.Interval,
			"batch_size", opts.Config.BatchSize,
			"warning_alerts", opts.Config.WarningAlerts,
		)
	}

	return &SLAMonitorService{
		repo:     opts.Repo,
		jobs:     opts.Jobs,
		config:   opts.Config,
		notifier: opts.Notifier,
		clock:    clockOrDefault(opts.Clock),
		logger:   logger,
		metrics:  opts.Metrics,
	}, nil
}

// Run sweeps at the configured interval until the context is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *SLAMonitorService) Run(ctx context.Context) error {
	if s.logger != nil {
		s.logger.InfoContext(ctx, "starting sla monitor", "interval", s.config.Interval)
	}

	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	if _, err := s.Sweep(ctx); err != nil {
		s.logSweepError(err, "initial sweep")
	}

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.InfoContext(ctx, "sla monitor stopping", "reason", ctx.Err())
			}
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logSweepError(err, "sweep")
			}
		}
	}
}

// waitWithJitter delays startup by up to 10% of the interval so replicas drift apart.
func (s *SLAMonitorService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return
	}
	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}

// Sweep evaluates one batch of running timers.
func (s *SLAMonitorService) Sweep(ctx context.Context) (SweepResult, error) {
	start := time.Now()
	var res SweepResult

	timers, err := s.repo.ListActiveTimers(ctx, s.config.BatchSize)
	if err != nil {
		s.emitSweepMetrics(res, time.Since(start), err)
		return res, fmt.Errorf("list active timers: %w", err)
	}

	now := s.clock.Now()
	jobs := make(map[string]*model.Job)
	var errs []error
	for _, t := range timers {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		res.Checked++
		if err := s.evaluate(ctx, t, now, jobs, &res); err != nil {
			errs = append(errs, fmt.Errorf("timer %s: %w", t.ID, err))
		}
	}

	joined := errors.Join(errs...)
	s.emitSweepMetrics(res, time.Since(start), joined)
	if res.Breached > 0 || res.Warnings > 0 {
		if s.logger != nil {
			s.logger.InfoContext(ctx, "sla sweep recorded alerts",
				"checked", res.Checked,
				"breached", res.Breached,
				"warnings", res.Warnings,
			)
		}
	}
	if joined != nil {
		return res, fmt.Errorf("sla sweep failed: %w", joined)
	}
	return res, nil
}

func (s *SLAMonitorService) evaluate(
	ctx context.Context,
	t *model.SLATimer,
	now time.Time,
	jobs map[string]*model.Job,
	res *SweepResult,
) error {
	switch {
	case sla.Overdue(t, now):
		marked, err := s.repo.MarkBreached(ctx, t.ID, now)
		if err != nil {
			return fmt.Errorf("mark breached: %w", err)
		}
		if !marked {
			return nil
		}
		res.Breached++
		_, err = s.recordAlert(ctx, t, model.SLAAlertTypeBreach, now, jobs)
		return err

	case s.config.WarningAlerts && sla.Status(t, now) == model.SLAStatusWarning:
		inserted, err := s.recordAlert(ctx, t, model.SLAAlertTypeWarning, now, jobs)
		if err != nil {
			return err
		}
		if inserted {
			res.Warnings++
		}
	}
	return nil
}

func (s *SLAMonitorService) recordAlert(
	ctx context.Context,
	t *model.SLATimer,
	alertType model.SLAAlertType,
	now time.Time,
	jobs map[string]*model.Job,
) (bool, error) {
	elapsed := sla.Elapsed(t, now)
	alert := &model.SLAAlert{
		JobID:     t.JobID,
		AlertType: alertType,
		Stage:     t.Stage,
		Message:   alertMessage(t, alertType, elapsed),
		SentAt:    now,
	}
	inserted, err := s.repo.RecordAlert(ctx, alert)
	if err != nil {
		return false, fmt.Errorf("record %s alert: %w", alertType, err)
	}
	if !inserted {
		return false, nil
	}

	metrics.EmitSLAAlert(s.metrics, t.Stage.String(), string(alertType))
	if s.notifier != nil {
		payload := notify.SLAAlertPayload{
			JobID:         t.JobID,
			Stage:         t.Stage.String(),
			AlertType:     string(alertType),
			Message:       alert.Message,
			TargetMinutes: t.TargetMinutes,
			Elapsed:       elapsed,
			OccurredAt:    now,
		}
		if job := s.lookupJob(ctx, t.JobID, jobs); job != nil {
			payload.Trade = job.Trade
			payload.Location = job.Location()
		}
		s.notifier.NotifySLAAlert(ctx, payload)
	}
	return true, nil
}

func (s *SLAMonitorService) lookupJob(ctx context.Context, jobID string, cache map[string]*model.Job) *model.Job {
	if s.jobs == nil {
		return nil
	}
	if job, ok := cache[jobID]; ok {
		return job
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "load job for sla alert failed", "job_id", jobID, "error", err)
		}
		job = nil
	}
	cache[jobID] = job
	return job
}

func alertMessage(t *model.SLATimer, alertType model.SLAAlertType, elapsed time.Duration) string {
	minutes := int(math.Floor(elapsed.Minutes()))
	if alertType == model.SLAAlertTypeBreach {
		return fmt.Sprintf("%s stage breached: %d of %d minutes elapsed", t.Stage, minutes, t.TargetMinutes)
	}
	return fmt.Sprintf("%s stage nearing deadline: %d of %d minutes elapsed", t.Stage, minutes, t.TargetMinutes)
}

func (s *SLAMonitorService) emitSweepMetrics(res SweepResult, elapsed time.Duration, err error) {
	if s.metrics == nil {
		return
	}

	result := metrics.ResultSuccess
	switch {
	case err != nil:
		result = metrics.ResultError
	case res.Breached == 0 && res.Warnings == 0:
		result = metrics.ResultNoop
	}

	tags := map[string]string{"result": result}
	if err != nil {
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
	}

	s.metrics.Count("sla.sweep", 1, tags)
	s.metrics.Timing("sla.sweep_duration", elapsed, metrics.CloneTags(tags))
	s.metrics.Gauge("sla.active_timers", float64(res.Checked), nil)
	if err == nil {
		s.metrics.Gauge("sla.last_sweep_epoch", float64(time.Now().Unix()), nil)
	}
}

func (s *SLAMonitorService) logSweepError(err error, label string) {
	if err == nil || s.logger == nil {
		return
	}
	if isContextCancellation(err) {
		s.logger.Debug(label+" cancelled by context", "error", err)
		return
	}
	s.logger.Error(label+" failed", "error", err)
}

func isContextCancellation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
