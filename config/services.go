package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeSLAMonitor runs the SLA breach monitor.
	ServiceModeSLAMonitor ServiceMode = "sla-monitor"
	// ServiceModeEnrichmentRunner runs the pending enrichment target poller.
	ServiceModeEnrichmentRunner ServiceMode = "enrichment-runner"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeSLAMonitor,
		ServiceModeEnrichmentRunner,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	parts := strings.Split(servicesStr, ",")
	for _, part := range parts {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeSLAMonitor, ServiceModeEnrichmentRunner:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, sla-monitor, enrichment-runner)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// SLAMonitorConfig contains SLA monitor service configuration.
type SLAMonitorConfig struct {
	// Interval is the monitor tick interval.
	Interval time.Duration `env:"SLA_MONITOR_INTERVAL" envDefault:"1m"`

	// BatchSize is the maximum number of active timers evaluated per sweep.
	BatchSize int `env:"SLA_MONITOR_BATCH_SIZE" envDefault:"500"`

	// WarningAlerts controls whether warning alerts are recorded in addition to breaches.
	WarningAlerts bool `env:"SLA_MONITOR_WARNING_ALERTS" envDefault:"true"`
}

// Sanitize applies guardrails to SLA monitor configuration values.
func (s *SLAMonitorConfig) Sanitize() {
	if s.Interval < 10*time.Second {
		s.Interval = 10 * time.Second
	}
	if s.BatchSize < 1 {
		s.BatchSize = 1
	}
	if s.BatchSize > 10000 {
		s.BatchSize = 10000
	}
}

// EnrichmentRunnerConfig contains enrichment runner service configuration.
type EnrichmentRunnerConfig struct {
	// Interval is the poll interval for pending enrichment targets.
	Interval time.Duration `env:"ENRICHMENT_RUNNER_INTERVAL" envDefault:"30s"`

	// Schedule is an optional cron expression that replaces Interval, e.g. "*/5 8-18 * * 1-5".
	Schedule string `env:"ENRICHMENT_RUNNER_SCHEDULE"`

	// BatchSize is the number of pending targets processed per tick.
	BatchSize int `env:"ENRICHMENT_RUNNER_BATCH_SIZE" envDefault:"10"`

	// MaxAttempts stops retrying a failed target after this many attempts.
	MaxAttempts int `env:"ENRICHMENT_RUNNER_MAX_ATTEMPTS" envDefault:"3"`
}

// Sanitize applies guardrails to enrichment runner configuration values.
func (e *EnrichmentRunnerConfig) Sanitize() {
	if e.Interval < 5*time.Second {
		e.Interval = 5 * time.Second
	}
	if e.BatchSize < 1 {
		e.BatchSize = 1
	}
	if e.MaxAttempts < 1 {
		e.MaxAttempts = 1
	}
	e.Schedule = strings.TrimSpace(e.Schedule)
}

// Spec returns the cron spec the runner is scheduled with.
func (e EnrichmentRunnerConfig) Spec() string {
	if e.Schedule != "" {
		return e.Schedule
	}
	return "@every " + e.Interval.String()
}

// DispatchConfig contains work order dispatch configuration.
type DispatchConfig struct {
	// AcceptPath is appended to APP_BASE_URL to build the job accept link.
	AcceptPath string `env:"DISPATCH_ACCEPT_PATH" envDefault:"/jobs/%s/accept"`

	// TrackingPath is appended to APP_BASE_URL to build the open tracking pixel.
	TrackingPath string `env:"DISPATCH_TRACKING_PATH" envDefault:"/api/track/open/%s"`
}

// Sanitize applies guardrails to dispatch configuration values.
func (d *DispatchConfig) Sanitize() {
	if !strings.Contains(d.AcceptPath, "%s") {
		d.AcceptPath = "/jobs/%s/accept"
	}
	if !strings.Contains(d.TrackingPath, "%s") {
		d.TrackingPath = "/api/track/open/%s"
	}
}
