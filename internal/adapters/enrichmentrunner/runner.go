// Package enrichmentrunner drains the enrichment queue on a cron schedule.
package enrichmentrunner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tradedispatch/dispatch-api/config"
	obserrors "github.com/tradedispatch/dispatch-api/internal/observability/errors"
	"github.com/tradedispatch/dispatch-api/internal/observability/metrics"
	"github.com/tradedispatch/dispatch-api/internal/observability/statsd"
	"github.com/tradedispatch/dispatch-api/internal/service"
)

// Enricher processes one batch of claimable enrichment targets.
type Enricher interface {
	RunPending(ctx context.Context, limit, maxAttempts int) (service.RunResult, error)
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Enricher Enricher
	Config   config.EnrichmentRunnerConfig
	Logger   *slog.Logger
	Metrics  statsd.Sink
}

// Runner ticks the enrichment queue. Overlapping ticks are skipped so a slow
// provider never stacks batches.
type Runner struct {
	enricher Enricher
	config   config.EnrichmentRunnerConfig
	cron     *cron.Cron
	logger   *slog.Logger
	metrics  statsd.Sink
}

// NewRunner validates the schedule and builds the runner.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Enricher == nil {
		return nil, errors.New("enricher is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "enrichment_runner")

	r := &Runner{
		enricher: opts.Enricher,
		config:   opts.Config,
		logger:   logger,
		metrics:  opts.Metrics,
	}
	r.cron = cron.New(
		cron.WithLogger(cronLogger{logger: logger}),
		cron.WithChain(cron.Recover(cronLogger{logger: logger}), cron.SkipIfStillRunning(cronLogger{logger: logger})),
	)
	return r, nil
}

// Run schedules ticks and blocks until ctx is cancelled. The running tick, if
// any, is allowed to finish before Run returns.
func (r *Runner) Run(ctx context.Context) error {
	spec := r.config.Spec()
	if _, err := r.cron.AddFunc(spec, func() { r.Tick(ctx) }); err != nil {
		return fmt.Errorf("schedule enrichment runner %q: %w", spec, err)
	}

	r.logger.InfoContext(ctx, "starting enrichment runner",
		"schedule", spec,
		"batch_size", r.config.BatchSize,
		"max_attempts", r.config.MaxAttempts,
	)
	r.cron.Start()

	<-ctx.Done()
	<-r.cron.Stop().Done()
	r.logger.InfoContext(ctx, "enrichment runner stopping", "reason", ctx.Err())
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

// Tick processes one batch and records the outcome.
func (r *Runner) Tick(ctx context.Context) service.RunResult {
	if ctx.Err() != nil {
		return service.RunResult{}
	}
	start := time.Now()
	res, err := r.enricher.RunPending(ctx, r.config.BatchSize, r.config.MaxAttempts)
	r.emitTickMetrics(res, time.Since(start), err)

	switch {
	case err != nil && ctx.Err() != nil:
		r.logger.Debug("enrichment tick cancelled", "error", err)
	case err != nil:
		r.logger.Error("enrichment tick failed", "error", err)
	case res.Claimed > 0 || res.Skipped > 0:
		r.logger.Info("enrichment tick processed targets",
			"claimed", res.Claimed,
			"completed", res.Completed,
			"failed", res.Failed,
			"skipped", res.Skipped,
		)
	}
	return res
}

func (r *Runner) emitTickMetrics(res service.RunResult, elapsed time.Duration, err error) {
	if r.metrics == nil {
		return
	}

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	} else if res.Claimed == 0 {
		result = metrics.ResultNoop
	}

	tags := map[string]string{"result": result}
	if err != nil {
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
	}

	r.metrics.Count("enrichment.tick", 1, tags)
	if res.Completed > 0 {
		r.metrics.Count("enrichment.targets_completed", int64(res.Completed), nil)
	}
	if res.Failed > 0 {
		r.metrics.Count("enrichment.targets_failed", int64(res.Failed), nil)
	}
	if elapsed > 0 {
		r.metrics.Timing("enrichment.tick_duration", elapsed, metrics.CloneTags(tags))
	}
	if err == nil {
		r.metrics.Gauge("enrichment.last_success_epoch", float64(time.Now().Unix()), nil)
	}
}

// cronLogger routes cron's internal logging through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
