package slamonitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tradedispatch/dispatch-api/config"
	"github.com/tradedispatch/dispatch-api/internal/mocks"
)

func TestNewRunner_RequiresStore(t *testing.T) {
	_, err := NewRunner(RunnerOptions{Config: config.SLAMonitorConfig{Interval: time.Minute}})
	require.Error(t, err)
}

func TestNewRunner_RejectsBadConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, err := NewRunner(RunnerOptions{Repo: mocks.NewMockSLARepository(ctrl)})
	require.Error(t, err)
}

func TestRunner_RunStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSLARepository(ctrl)
	repo.EXPECT().ListActiveTimers(gomock.Any(), 100).Return(nil, nil).AnyTimes()

	r, err := NewRunner(RunnerOptions{
		Repo:   repo,
		Jobs:   mocks.NewMockJobRepository(ctrl),
		Config: config.SLAMonitorConfig{Interval: time.Minute, BatchSize: 100},
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
