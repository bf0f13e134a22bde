package notify

import (
	"context"
	"time"
)

// Severity constants recognised by downstream sinks.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// SLAAlertPayload captures the data emitted when an SLA timer crosses a threshold.
type SLAAlertPayload struct {
	JobID         string
	Trade         string
	Location      string
	Stage         string
	AlertType     string
	Message       string
	TargetMinutes int
	Elapsed       time.Duration
	Severity      string
	OccurredAt    time.Time
	Metadata      map[string]string
}

// Sink describes a destination capable of consuming SLA alert notifications.
type Sink interface {
	SendSLAAlert(ctx context.Context, payload SLAAlertPayload) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload SLAAlertPayload) error

// SendSLAAlert implements the Sink interface.
func (f SinkFunc) SendSLAAlert(ctx context.Context, payload SLAAlertPayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}
