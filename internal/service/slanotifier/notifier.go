// Package slanotifier fans recorded SLA alerts out to the configured sinks.
package slanotifier

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	obserrors "github.com/tradedispatch/dispatch-api/internal/observability/errors"
	"github.com/tradedispatch/dispatch-api/internal/observability/notify"
	"github.com/tradedispatch/dispatch-api/internal/observability/statsd"
)

// SinkRegistration names a sink for logs and metric tags.
type SinkRegistration struct {
	Name string
	Sink notify.Sink
}

// Options configures the notifier.
type Options struct {
	Logger  *slog.Logger
	Sinks   []SinkRegistration
	Metrics statsd.Sink
	// Timeout caps one sink's delivery, retries included. Zero leaves only
	// the caller's deadline.
	Timeout time.Duration
}

// Service delivers each alert to every sink in parallel.
type Service struct {
	logger  *slog.Logger
	sinks   []SinkRegistration
	metrics statsd.Sink
	timeout time.Duration
}

func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		logger:  logger.With("component", "sla_notifier"),
		metrics: opts.Metrics,
		timeout: opts.Timeout,
	}
	for _, reg := range opts.Sinks {
		if reg.Sink == nil {
			continue
		}
		if reg.Name == "" {
			reg.Name = "sink"
		}
		s.sinks = append(s.sinks, reg)
	}
	return s
}

// Enabled reports whether any sink is registered.
func (s *Service) Enabled() bool {
	return len(s.sinks) > 0
}

// NotifySLAAlert returns once every sink has finished. Failures are logged
// and counted; one sink failing never blocks another.
func (s *Service) NotifySLAAlert(ctx context.Context, payload notify.SLAAlertPayload) {
	if !s.Enabled() {
		return
	}
	if payload.Severity == "" {
		payload.Severity = notify.SeverityWarning
		if payload.AlertType == "breach" {
			payload.Severity = notify.SeverityCritical
		}
	}

	var g errgroup.Group
	for _, reg := range s.sinks {
		g.Go(func() error {
			s.deliver(ctx, reg, payload)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Service) deliver(ctx context.Context, reg SinkRegistration, payload notify.SLAAlertPayload) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	err := reg.Sink.SendSLAAlert(ctx, payload)

	tags := map[string]string{"sink": reg.Name, "alert_type": payload.AlertType, "result": "success"}
	if err != nil {
		tags["result"] = "error"
		tags["error_class"] = obserrors.Classify(err)
		s.logger.ErrorContext(ctx, "sla alert delivery failed",
			"sink", reg.Name,
			"job_id", payload.JobID,
			"stage", payload.Stage,
			"alert_type", payload.AlertType,
			"error", err,
		)
	}
	if s.metrics != nil {
		s.metrics.Count("sla.notify", 1, tags)
		s.metrics.Timing("sla.notify_duration", time.Since(start), tags)
	}
}
