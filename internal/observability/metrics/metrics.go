package metrics

import (
	"time"

	obserrors "github.com/tradedispatch/dispatch-api/internal/observability/errors"
	"github.com/tradedispatch/dispatch-api/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
	ResultSkipped = "skipped"
)

// SendMetric describes one outbound invitation attempt.
type SendMetric struct {
	Channel  string
	Trade    string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitSend emits per-recipient dispatch send metrics.
func EmitSend(sink statsd.Sink, in SendMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"channel": in.Channel,
		"trade":   in.Trade,
		"result":  in.Result,
	}
	addErrorClass(tags, in.Result, in.Err)

	sink.Count("dispatch.send", 1, tags)
	if in.Duration > 0 {
		sink.Timing("dispatch.send_duration", in.Duration, CloneTags(tags))
	}
}

// TransitionMetric captures a state machine transition such as enrichment pending to completed.
type TransitionMetric struct {
	Entity     string
	Transition string
	Result     string
	Duration   time.Duration
	Err        error
}

// EmitTransition emits standardised lifecycle metrics for enrichment targets and leads.
func EmitTransition(sink statsd.Sink, in TransitionMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"entity":     in.Entity,
		"transition": in.Transition,
		"result":     in.Result,
	}
	addErrorClass(tags, in.Result, in.Err)

	sink.Count("lifecycle.transition", 1, tags)
	if in.Duration > 0 {
		sink.Timing("lifecycle.duration", in.Duration, CloneTags(tags))
	}
}

// EmitSLAAlert counts a recorded SLA warning or breach.
func EmitSLAAlert(sink statsd.Sink, stage, alertType string) {
	if sink == nil {
		return
	}
	sink.Count("sla.alert", 1, map[string]string{
		"stage":      stage,
		"alert_type": alertType,
	})
}

// CloneTags creates a shallow copy of a tag map, filtering out empty keys.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		if k == "" {
			continue
		}
		out[k] = v
	}
	return out
}

func addErrorClass(tags map[string]string, result string, err error) {
	if err == nil || result != ResultError {
		return
	}
	if class := obserrors.Classify(err); class != "" {
		tags["error_class"] = class
	}
}
