package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMetric struct {
	name string
	kind string
	tags map[string]string
}

type recordingSink struct {
	metrics []recordedMetric
}

func (r *recordingSink) Count(name string, _ int64, tags map[string]string) {
	r.metrics = append(r.metrics, recordedMetric{name: name, kind: "count", tags: tags})
}

func (r *recordingSink) Gauge(name string, _ float64, tags map[string]string) {
	r.metrics = append(r.metrics, recordedMetric{name: name, kind: "gauge", tags: tags})
}

func (r *recordingSink) Timing(name string, _ time.Duration, tags map[string]string) {
	r.metrics = append(r.metrics, recordedMetric{name: name, kind: "timing", tags: tags})
}

type providerErr struct{}

func (providerErr) Error() string { return "provider" }

func TestEmitSend(t *testing.T) {
	sink := &recordingSink{}
	EmitSend(sink, SendMetric{
		Channel:  "sendgrid_warm",
		Trade:    "hvac",
		Result:   ResultError,
		Duration: 25 * time.Millisecond,
		Err:      providerErr{},
	})

	require.Len(t, sink.metrics, 2)
	assert.Equal(t, "dispatch.send", sink.metrics[0].name)
	assert.Equal(t, "metrics_providererr", sink.metrics[0].tags["error_class"])
	assert.Equal(t, "dispatch.send_duration", sink.metrics[1].name)
}

func TestEmitTransitionSkipsErrorClassOnSuccess(t *testing.T) {
	sink := &recordingSink{}
	EmitTransition(sink, TransitionMetric{
		Entity:     "enrichment_target",
		Transition: "completed",
		Result:     ResultSuccess,
		Err:        errors.New("ignored"),
	})

	require.Len(t, sink.metrics, 1)
	_, ok := sink.metrics[0].tags["error_class"]
	assert.False(t, ok)
}

func TestEmitNilSink(t *testing.T) {
	EmitSend(nil, SendMetric{})
	EmitTransition(nil, TransitionMetric{})
	EmitSLAAlert(nil, "dispatch", "breach")
}

func TestCloneTags(t *testing.T) {
	assert.Nil(t, CloneTags(nil))
	out := CloneTags(map[string]string{"a": "1", "": "x"})
	assert.Equal(t, map[string]string{"a": "1"}, out)
}
