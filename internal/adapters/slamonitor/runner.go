// Package slamonitor provides adapters for running the SLA breach monitor.
package slamonitor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tradedispatch/dispatch-api/config"
	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/data"
	"github.com/tradedispatch/dispatch-api/internal/observability/statsd"
	"github.com/tradedispatch/dispatch-api/internal/service"
)

// Runner provides a simple adapter to run the SLA monitor loop.
// It constructs the monitor service and runs the sweep loop.
type Runner struct {
	monitor *service.SLAMonitorService
	logger  *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB       *sql.DB
	Config   config.SLAMonitorConfig
	Logger   *slog.Logger
	Notifier service.AlertNotifier
	Metrics  statsd.Sink

	// Optional dependency injection for testing/decoupling
	Repo core.SLARepository
	Jobs core.JobRepository
}

// NewRunner creates a new SLA monitor runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if err := validateRunnerOptions(&opts); err != nil {
		return nil, err
	}

	monitor, err := wireMonitorService(opts)
	if err != nil {
		return nil, fmt.Errorf("wire sla monitor service: %w", err)
	}

	return &Runner{monitor: monitor, logger: opts.Logger}, nil
}

func validateRunnerOptions(opts *RunnerOptions) error {
	if opts.DB == nil && opts.Repo == nil {
		return errors.New("database connection is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return nil
}

func wireMonitorService(opts RunnerOptions) (*service.SLAMonitorService, error) {
	repo := opts.Repo
	if repo == nil {
		repo = data.NewSLARepo(opts.DB, data.SLARepoOptions{})
	}
	jobs := opts.Jobs
	if jobs == nil && opts.DB != nil {
		jobs = data.NewJobRepo(opts.DB)
	}

	return service.NewSLAMonitorService(service.SLAMonitorServiceOptions{
		Repo:     repo,
		Jobs:     jobs,
		Config:   opts.Config,
		Notifier: opts.Notifier,
		Logger:   opts.Logger,
		Metrics:  opts.Metrics,
	})
}

// Run starts the monitor loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting sla monitor runner")
	return r.monitor.Run(ctx)
}
