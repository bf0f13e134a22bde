package config

import (
	"strings"
	"time"
)

// serviceName identifies this process to StatsD, Slack and PagerDuty by default.
const serviceName = "dispatch-api"

// ObservabilityConfig covers StatsD metrics and SLA breach notifications.
type ObservabilityConfig struct {
	Metrics       ObservabilityMetricsConfig
	Notifications ObservabilityNotificationsConfig
}

func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
	c.Notifications.Sanitize()
}

// ObservabilityMetricsConfig points the DogStatsD client at an agent.
type ObservabilityMetricsConfig struct {
	Enabled       bool          `env:"STATSD_ENABLED"        envDefault:"false"`
	StatsdAddress string        `env:"STATSD_ADDRESS"        envDefault:"127.0.0.1:8125"`
	Prefix        string        `env:"STATSD_PREFIX"         envDefault:"dispatch"`
	FlushInterval time.Duration `env:"STATSD_FLUSH_INTERVAL" envDefault:"1s"`
	// Tags are added to every metric, as "env:prod,region:us".
	Tags map[string]string `env:"STATSD_TAGS" envKeyValSeparator:":"`
}

// Sanitize turns metrics off when no agent address is left after trimming.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	c.Prefix = strings.Trim(strings.TrimSpace(c.Prefix), ".")
	c.Enabled = c.Enabled && c.StatsdAddress != ""
	if c.FlushInterval < 100*time.Millisecond {
		c.FlushInterval = time.Second
	}
}

func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}

// ObservabilityNotificationsConfig selects the sinks SLA alerts fan out to.
// Timeout and RetryLimit apply to each sink.
type ObservabilityNotificationsConfig struct {
	Timeout    time.Duration               `env:"NOTIFICATIONS_TIMEOUT"     envDefault:"5s"`
	RetryLimit int                         `env:"NOTIFICATIONS_RETRY_LIMIT" envDefault:"3"`
	Slack      SlackNotificationConfig     `envPrefix:"SLACK_"`
	PagerDuty  PagerDutyNotificationConfig `envPrefix:"PAGERDUTY_"`
}

// Sanitize disables any sink whose credential is blank.
func (c *ObservabilityNotificationsConfig) Sanitize() {
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	c.RetryLimit = max(c.RetryLimit, 0)
	c.Slack.sanitize()
	c.PagerDuty.sanitize()
}

// SlackNotificationConfig posts warnings and breaches to an incoming webhook.
type SlackNotificationConfig struct {
	Enabled      bool   `env:"ENABLED"        envDefault:"false"`
	WebhookURL   string `env:"WEBHOOK_URL"                        validate:"omitempty,http_url"`
	Channel      string `env:"CHANNEL"`
	Username     string `env:"USERNAME"       envDefault:"dispatch-api"`
	JobURLPrefix string `env:"JOB_URL_PREFIX"`
}

func (c *SlackNotificationConfig) sanitize() {
	c.WebhookURL = strings.TrimSpace(c.WebhookURL)
	c.Channel = strings.TrimSpace(c.Channel)
	c.Username = orDefault(c.Username, serviceName)
	c.JobURLPrefix = strings.TrimRight(strings.TrimSpace(c.JobURLPrefix), "/")
	c.Enabled = c.Enabled && c.WebhookURL != ""
}

// PagerDutyNotificationConfig pages on breaches through the Events API v2.
type PagerDutyNotificationConfig struct {
	Enabled    bool   `env:"ENABLED"     envDefault:"false"`
	RoutingKey string `env:"ROUTING_KEY"`
	Source     string `env:"SOURCE"      envDefault:"dispatch-api"`
	Component  string `env:"COMPONENT"   envDefault:"sla-monitor"`
}

func (c *PagerDutyNotificationConfig) sanitize() {
	c.RoutingKey = strings.TrimSpace(c.RoutingKey)
	c.Source = orDefault(c.Source, serviceName)
	c.Component = orDefault(c.Component, "sla-monitor")
	c.Enabled = c.Enabled && c.RoutingKey != ""
}

// orDefault trims v and substitutes def when nothing is left.
func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
