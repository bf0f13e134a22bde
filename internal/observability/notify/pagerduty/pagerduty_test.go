package pagerduty

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedispatch/dispatch-api/internal/observability/notify"
)

func TestNewClientRequiresRoutingKey(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}

func TestBuildEvent(t *testing.T) {
	client, err := NewClient(Config{RoutingKey: "key"})
	require.NoError(t, err)

	ev := client.buildEvent(notify.SLAAlertPayload{
		JobID:         "job-123",
		Stage:         "arrival",
		Trade:         "plumbing",
		AlertType:     "breach",
		Severity:      "Loud",
		TargetMinutes: 120,
		Elapsed:       150 * time.Minute,
		Message:       "arrival exceeded 120 minute target",
		OccurredAt:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.FixedZone("CST", -6*3600)),
		Metadata:      map[string]string{"job_id": "spoofed", "technician": "t-1"},
	})

	assert.Equal(t, "key", ev.RoutingKey)
	assert.Equal(t, "trigger", ev.EventAction)
	assert.Equal(t, "sla:job-123:arrival", ev.DedupKey)
	assert.Equal(t, "SLA breach on job job-123 (arrival stage)", ev.Payload.Summary)
	assert.Equal(t, notify.SeverityCritical, ev.Payload.Severity, "unknown severities fall back to critical")
	assert.Equal(t, "dispatch-api", ev.Payload.Source)
	assert.Equal(t, "sla-monitor", ev.Payload.Component)
	assert.Equal(t, "plumbing", ev.Payload.Group)
	assert.Equal(t, "sla_arrival", ev.Payload.Class)
	assert.Equal(t, "2024-01-01T18:00:00Z", ev.Payload.Timestamp)
	assert.Equal(t, "job-123", ev.Payload.CustomDetails["job_id"], "payload fields win over metadata")
	assert.Equal(t, "t-1", ev.Payload.CustomDetails["technician"])
	assert.Equal(t, 150, ev.Payload.CustomDetails["elapsed_minutes"])
}

func TestBuildEventKeepsKnownSeverity(t *testing.T) {
	client, err := NewClient(Config{RoutingKey: "key"})
	require.NoError(t, err)
	ev := client.buildEvent(notify.SLAAlertPayload{AlertType: "breach", Severity: "Warning"})
	assert.Equal(t, "warning", ev.Payload.Severity)
	assert.Empty(t, ev.DedupKey)
}

func TestSendSLAAlert(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		var got event
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "sla:job-9:completion", got.DedupKey)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client, err := NewClient(Config{RoutingKey: "key", Endpoint: srv.URL, Client: srv.Client()})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, client.SendSLAAlert(ctx, notify.SLAAlertPayload{AlertType: "warning", JobID: "job-9"}))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "warnings do not page")

	require.NoError(t, client.SendSLAAlert(ctx, notify.SLAAlertPayload{AlertType: "breach", JobID: "job-9", Stage: "completion"}))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
