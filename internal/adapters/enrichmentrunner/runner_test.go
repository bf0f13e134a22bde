package enrichmentrunner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedispatch/dispatch-api/config"
	"github.com/tradedispatch/dispatch-api/internal/service"
)

type fakeEnricher struct {
	mu    sync.Mutex
	calls int
	args  [2]int
	res   service.RunResult
	err   error
}

func (f *fakeEnricher) RunPending(_ context.Context, limit, maxAttempts int) (service.RunResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.args = [2]int{limit, maxAttempts}
	return f.res, f.err
}

type countingSink struct {
	mu     sync.Mutex
	counts map[string][]map[string]string
}

func (s *countingSink) Count(name string, _ int64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts == nil {
		s.counts = map[string][]map[string]string{}
	}
	s.counts[name] = append(s.counts[name], tags)
}

func (s *countingSink) Gauge(string, float64, map[string]string) {}

func (s *countingSink) Timing(string, time.Duration, map[string]string) {}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRunner_RequiresEnricher(t *testing.T) {
	_, err := NewRunner(RunnerOptions{})
	require.Error(t, err)
}

func TestTick_PassesBatchSettings(t *testing.T) {
	enricher := &fakeEnricher{res: service.RunResult{Claimed: 2, Completed: 1, Failed: 1}}
	sink := &countingSink{}
	r, err := NewRunner(RunnerOptions{
		Enricher: enricher,
		Config:   config.EnrichmentRunnerConfig{BatchSize: 7, MaxAttempts: 4},
		Logger:   quietLogger(),
		Metrics:  sink,
	})
	require.NoError(t, err)

	res := r.Tick(context.Background())
	assert.Equal(t, 2, res.Claimed)
	assert.Equal(t, [2]int{7, 4}, enricher.args)
	require.Len(t, sink.counts["enrichment.tick"], 1)
	assert.Equal(t, "success", sink.counts["enrichment.tick"][0]["result"])
	assert.Len(t, sink.counts["enrichment.targets_failed"], 1)
}

func TestTick_ErrorAndNoop(t *testing.T) {
	sink := &countingSink{}
	enricher := &fakeEnricher{err: errors.New("db down")}
	r, err := NewRunner(RunnerOptions{Enricher: enricher, Logger: quietLogger(), Metrics: sink})
	require.NoError(t, err)

	r.Tick(context.Background())
	enricher.err = nil
	r.Tick(context.Background())

	ticks := sink.counts["enrichment.tick"]
	require.Len(t, ticks, 2)
	assert.Equal(t, "error", ticks[0]["result"])
	assert.Equal(t, "noop", ticks[1]["result"])
}

func TestTick_SkipsWhenCancelled(t *testing.T) {
	enricher := &fakeEnricher{}
	r, err := NewRunner(RunnerOptions{Enricher: enricher, Logger: quietLogger()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.Tick(ctx)
	assert.Zero(t, enricher.calls)
}

func TestRun_RejectsBadSchedule(t *testing.T) {
	r, err := NewRunner(RunnerOptions{
		Enricher: &fakeEnricher{},
		Config:   config.EnrichmentRunnerConfig{Schedule: "not a cron spec"},
		Logger:   quietLogger(),
	})
	require.NoError(t, err)

	err = r.Run(context.Background())
	require.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	r, err := NewRunner(RunnerOptions{
		Enricher: &fakeEnricher{},
		Config:   config.EnrichmentRunnerConfig{Interval: time.Hour},
		Logger:   quietLogger(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
}
