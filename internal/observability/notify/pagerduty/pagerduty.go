// Package pagerduty triggers incidents for SLA breaches through the Events API v2.
package pagerduty

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tradedispatch/dispatch-api/internal/observability/notify"
)

// APIEndpoint is the Events API v2 ingest URL.
const APIEndpoint = "https://events.pagerduty.com/v2/enqueue"

// Config configures the events sink.
type Config struct {
	RoutingKey string
	Source     string
	Component  string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
	// Endpoint overrides APIEndpoint.
	Endpoint string
}

// Client pages on breaches only; warnings are dropped.
type Client struct {
	routingKey string
	source     string
	component  string
	endpoint   string
	poster     *notify.Poster
}

// NewClient requires a routing key.
func NewClient(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.RoutingKey)
	if key == "" {
		return nil, errors.New("pagerduty routing key is required")
	}
	return &Client{
		routingKey: key,
		source:     notify.Or(strings.TrimSpace(cfg.Source), "dispatch-api"),
		component:  notify.Or(strings.TrimSpace(cfg.Component), "sla-monitor"),
		endpoint:   notify.Or(strings.TrimSpace(cfg.Endpoint), APIEndpoint),
		poster:     notify.NewPoster("pagerduty", cfg.Client, cfg.Timeout, cfg.RetryLimit),
	}, nil
}

// SendSLAAlert enqueues a trigger event for a breach.
func (c *Client) SendSLAAlert(ctx context.Context, payload notify.SLAAlertPayload) error {
	if payload.AlertType != "breach" {
		return nil
	}
	return c.poster.PostJSON(ctx, c.endpoint, c.buildEvent(payload))
}

type event struct {
	RoutingKey  string       `json:"routing_key"`
	EventAction string       `json:"event_action"`
	DedupKey    string       `json:"dedup_key,omitempty"`
	Payload     eventPayload `json:"payload"`
}

type eventPayload struct {
	Summary       string         `json:"summary"`
	Severity      string         `json:"severity"`
	Source        string         `json:"source"`
	Component     string         `json:"component,omitempty"`
	Group         string         `json:"group,omitempty"`
	Class         string         `json:"class,omitempty"`
	Timestamp     string         `json:"timestamp"`
	CustomDetails map[string]any `json:"custom_details,omitempty"`
}

// severities accepted by the Events API.
var severities = map[string]bool{"critical": true, "error": true, "warning": true, "info": true}

func (c *Client) buildEvent(p notify.SLAAlertPayload) event {
	severity := strings.ToLower(strings.TrimSpace(p.Severity))
	if !severities[severity] {
		severity = notify.SeverityCritical
	}
	at := p.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}

	details := make(map[string]any, len(p.Metadata)+6)
	for k, v := range p.Metadata {
		details[k] = v
	}
	details["job_id"] = p.JobID
	details["stage"] = p.Stage
	details["trade"] = p.Trade
	details["location"] = p.Location
	details["target_minutes"] = p.TargetMinutes
	details["message"] = p.Message
	if p.Elapsed > 0 {
		details["elapsed_minutes"] = int(p.Elapsed.Minutes())
	}

	return event{
		RoutingKey:  c.routingKey,
		EventAction: "trigger",
		// One incident per job and stage; repeat sends fold into it.
		DedupKey: dedupKey(p.JobID, p.Stage),
		Payload: eventPayload{
			Summary:       "SLA breach on job " + notify.Or(p.JobID, "unknown") + " (" + notify.Or(p.Stage, "unknown") + " stage)",
			Severity:      severity,
			Source:        c.source,
			Component:     c.component,
			Group:         p.Trade,
			Class:         "sla_" + notify.Or(p.Stage, "unknown"),
			Timestamp:     at.UTC().Format(time.RFC3339),
			CustomDetails: details,
		},
	}
}

func dedupKey(jobID, stage string) string {
	if jobID == "" && stage == "" {
		return ""
	}
	return "sla:" + jobID + ":" + stage
}
