package notify

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
)

func newTestPoster(retries int) *Poster {
	p := NewPoster("test", nil, time.Second, retries)
	p.Step = time.Millisecond
	return p
}

func TestPostJSONRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "v", body["k"])
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	require.NoError(t, newTestPoster(2).PostJSON(context.Background(), srv.URL, map[string]string{"k": "v"}))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestPostJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "invalid routing key", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := newTestPoster(3).PostJSON(context.Background(), srv.URL, struct{}{})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Contains(t, err.Error(), "test: 400 Bad Request: invalid routing key")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPostJSONStopsOnContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := newTestPoster(5)
	p.Step = time.Hour
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, p.PostJSON(ctx, srv.URL, struct{}{}), context.DeadlineExceeded)
}

func TestStatusErrorRetryable(t *testing.T) {
	assert.True(t, (&StatusError{Code: 429}).Retryable())
	assert.True(t, (&StatusError{Code: 503}).Retryable())
	assert.False(t, (&StatusError{Code: 404}).Retryable())
}

func TestOr(t *testing.T) {
	assert.Equal(t, "x", Or("  ", "x"))
	assert.Equal(t, "y", Or("y", "x"))
}
