package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedispatch/dispatch-api/config"
	"github.com/tradedispatch/dispatch-api/internal/adapters/memstore"
	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/data"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	"github.com/tradedispatch/dispatch-api/internal/testutil"
)

func TestSLAMonitor_Sweep_OverdueTimerNotCrowdedOut(t *testing.T) {
	ctx := context.Background()
	clock := data.NewFixedTimeProvider(testutil.TestTime())
	store := memstore.New(memstore.Options{TimeProvider: clock})
	repo := store.SLA()

	// Started first with a three day budget, so it sorts ahead on start time.
	_, err := repo.CreateTimers(ctx, core.CreateSLATimersParams{
		JobID:  "job-long",
		Config: model.SLAConfig{Dispatch: 4320, Assignment: 60, Arrival: 60, Completion: 60},
	})
	require.NoError(t, err)
	clock.Advance(time.Hour)
	_, err = repo.CreateTimers(ctx, core.CreateSLATimersParams{
		JobID:  "job-short",
		Config: model.SLAConfig{Dispatch: 15, Assignment: 30, Arrival: 120, Completion: 240},
	})
	require.NoError(t, err)
	clock.Advance(time.Hour)

	notifier := &recordingNotifier{}
	svc, err := NewSLAMonitorService(SLAMonitorServiceOptions{
		Repo:     repo,
		Config:   config.SLAMonitorConfig{Interval: time.Minute, BatchSize: 1},
		Notifier: notifier,
		Clock:    clock,
		Logger:   discardLogger(),
	})
	require.NoError(t, err)

	res, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Checked: 1, Breached: 1}, res)

	timers, err := repo.ListTimers(ctx, "job-short")
	require.NoError(t, err)
	require.NotEmpty(t, timers)
	assert.True(t, timers[0].Breached)
	require.Len(t, notifier.payloads, 1)
	assert.Equal(t, "job-short", notifier.payloads[0].JobID)

	res, err = svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Checked: 1}, res, "the long budget timer is checked once the overdue one is breached")
}
