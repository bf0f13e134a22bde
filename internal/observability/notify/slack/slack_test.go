package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedispatch/dispatch-api/internal/observability/notify"
)

func TestNewClientRequiresWebhook(t *testing.T) {
	_, err := NewClient(Config{WebhookURL: "  "})
	require.Error(t, err)
}

func allText(m message) string {
	parts := []string{m.Text}
	for _, b := range m.Blocks {
		if b.Text != nil {
			parts = append(parts, b.Text.Text)
		}
		for _, f := range b.Fields {
			parts = append(parts, f.Text)
		}
		for _, e := range b.Elements {
			parts = append(parts, e.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func TestBuildMessageBreach(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL: "https://hooks.slack.com/services/test",
		Channel:    "#dispatch",
		Username:   "bot",
	})
	require.NoError(t, err)

	msg := client.buildMessage(notify.SLAAlertPayload{
		JobID:         "job-123",
		Trade:         "hvac",
		Location:      "Austin, TX",
		Stage:         "arrival",
		AlertType:     "breach",
		Message:       "arrival exceeded 120 minute target",
		TargetMinutes: 120,
		Elapsed:       135 * time.Minute,
		OccurredAt:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Metadata:      map[string]string{"technician": "t-9"},
	})

	assert.Equal(t, "bot", msg.Username)
	assert.Equal(t, "#dispatch", msg.Channel)
	assert.Equal(t, "*SLA breach* `arrival` (hvac)", msg.Text)
	text := allText(msg)
	for _, want := range []string{"job-123 (Austin, TX)", "120 min", "135 min", "exceeded", "technician: t-9", "2024-01-01T12:00:00Z"} {
		assert.Contains(t, text, want)
	}
	assert.Equal(t, "context", msg.Blocks[len(msg.Blocks)-1].Type)
}

func TestBuildMessageWarningOmitsEmptyFields(t *testing.T) {
	client, err := NewClient(Config{WebhookURL: "https://hooks.slack.com/services/test"})
	require.NoError(t, err)

	msg := client.buildMessage(notify.SLAAlertPayload{AlertType: "warning", Stage: "dispatch"})
	assert.Equal(t, "*SLA warning* `dispatch`", msg.Text)
	require.Len(t, msg.Blocks, 3)
	assert.Len(t, msg.Blocks[1].Fields, 1, "only severity is set")
	assert.Equal(t, "dispatch-api", msg.Username)
}

func TestJobLabel(t *testing.T) {
	tcs := []struct {
		name     string
		jobID    string
		location string
		prefix   string
		want     string
	}{
		{name: "id with link", jobID: "job-1", prefix: "https://app.example/jobs", want: "<https://app.example/jobs/job-1|job-1>"},
		{name: "location only", location: "Austin, TX", prefix: "https://app.example/jobs", want: "Austin, TX"},
		{
			name: "id and location with link", jobID: "job-2", location: "Austin, TX", prefix: "https://app.example/jobs/",
			want: "<https://app.example/jobs/job-2|job-2> (Austin, TX)",
		},
		{name: "relative prefix is ignored", jobID: "job-3", location: "Tampa & <FL>", prefix: "jobs", want: "job-3 (Tampa &amp; &lt;FL&gt;)"},
		{name: "empty", prefix: "https://app.example/jobs", want: ""},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			client, err := NewClient(Config{WebhookURL: "https://hooks.slack.com/services/test", JobURLPrefix: tc.prefix})
			require.NoError(t, err)
			assert.Equal(t, tc.want, client.jobLabel(tc.jobID, tc.location))
		})
	}
}

func TestSendSLAAlertRetriesUntilSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var got message
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "*SLA breach* `completion`", got.Text)
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(Config{WebhookURL: srv.URL, RetryLimit: 1, Client: srv.Client()})
	require.NoError(t, err)

	err = client.SendSLAAlert(context.Background(), notify.SLAAlertPayload{AlertType: "breach", Stage: "completion"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSendSLAAlertReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no_service", http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := NewClient(Config{WebhookURL: srv.URL, RetryLimit: 3})
	require.NoError(t, err)

	err = client.SendSLAAlert(context.Background(), notify.SLAAlertPayload{AlertType: "warning"})
	require.ErrorContains(t, err, "slack: 404 Not Found: no_service")
}
