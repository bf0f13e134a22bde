package bootstrap

import (
	"log/slog"
	"time"

	"github.com/tradedispatch/dispatch-api/config"
	"github.com/tradedispatch/dispatch-api/internal/observability/notify/pagerduty"
	"github.com/tradedispatch/dispatch-api/internal/observability/notify/slack"
	"github.com/tradedispatch/dispatch-api/internal/observability/statsd"
	"github.com/tradedispatch/dispatch-api/internal/service/slanotifier"
)

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink    *statsd.Client
	MetricsConfig  config.ObservabilityMetricsConfig
	Notifier       *slanotifier.Service
	NotifierConfig config.ObservabilityNotificationsConfig
}

// Sink returns the metrics sink, or nil when metrics are disabled.
//
//nolint:ireturn // callers take the port, and a nil *Client must not leak into it.
func (o ObservabilityContainer) Sink() statsd.Sink {
	if o.MetricsSink == nil {
		return nil
	}
	return o.MetricsSink
}

// buildObservability configures metrics and notification adapters.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled:       true,
			Address:       cfg.Metrics.StatsdAddress,
			Prefix:        cfg.Metrics.Prefix,
			Logger:        obsLogger,
			GlobalTags:    cfg.Metrics.Tags,
			FlushInterval: cfg.Metrics.FlushInterval,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:    metricsSink,
		MetricsConfig:  cfg.Metrics,
		Notifier:       buildSLANotifier(obsLogger, cfg.Notifications, metricsSink),
		NotifierConfig: cfg.Notifications,
	}
}

// buildSLANotifier registers the enabled breach sinks. With none enabled the
// notifier only logs.
func buildSLANotifier(
	logger *slog.Logger,
	cfg config.ObservabilityNotificationsConfig,
	metrics *statsd.Client,
) *slanotifier.Service {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = slog.Default()
	}

	sinks := make([]slanotifier.SinkRegistration, 0, 2)

	if cfg.Slack.Enabled {
		client, err := slack.NewClient(slack.Config{
			WebhookURL:   cfg.Slack.WebhookURL,
			Channel:      cfg.Slack.Channel,
			Username:     cfg.Slack.Username,
			Timeout:      cfg.Timeout,
			RetryLimit:   cfg.RetryLimit,
			JobURLPrefix: cfg.Slack.JobURLPrefix,
		})
		if err != nil {
			baseLogger.Error("failed to initialise slack notifier", "error", err)
		} else {
			sinks = append(sinks, slanotifier.SinkRegistration{
				Name: "slack",
				Sink: client,
			})
		}
	}

	if cfg.PagerDuty.Enabled {
		client, err := pagerduty.NewClient(pagerduty.Config{
			RoutingKey: cfg.PagerDuty.RoutingKey,
			Source:     cfg.PagerDuty.Source,
			Component:  cfg.PagerDuty.Component,
			Timeout:    cfg.Timeout,
			RetryLimit: cfg.RetryLimit,
		})
		if err != nil {
			baseLogger.Error("failed to initialise pagerduty notifier", "error", err)
		} else {
			sinks = append(sinks, slanotifier.SinkRegistration{
				Name: "pagerduty",
				Sink: client,
			})
		}
	}

	opts := slanotifier.Options{
		Logger: baseLogger,
		Sinks:  sinks,
		// Every attempt plus the backoff between them.
		Timeout: time.Duration(cfg.RetryLimit+2) * cfg.Timeout,
	}
	if metrics != nil {
		opts.Metrics = metrics
	}
	return slanotifier.NewService(opts)
}
