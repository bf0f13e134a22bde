package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tradedispatch/dispatch-api/config"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	"github.com/tradedispatch/dispatch-api/internal/mocks"
	"github.com/tradedispatch/dispatch-api/internal/observability/notify"
	"github.com/tradedispatch/dispatch-api/internal/testutil"
)

type recordingNotifier struct {
	mu       sync.Mutex
	payloads []notify.SLAAlertPayload
}

func (n *recordingNotifier) NotifySLAAlert(_ context.Context, p notify.SLAAlertPayload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payloads = append(n.payloads, p)
}

type monitorFixture struct {
	repo     *mocks.MockSLARepository
	jobs     *mocks.MockJobRepository
	notifier *recordingNotifier
	sink     *recordingSink
	svc      *SLAMonitorService
}

func newMonitorFixture(t *testing.T, warnings bool) *monitorFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &monitorFixture{
		repo:     mocks.NewMockSLARepository(ctrl),
		jobs:     mocks.NewMockJobRepository(ctrl),
		notifier: &recordingNotifier{},
		sink:     newRecordingSink(),
	}
	svc, err := NewSLAMonitorService(SLAMonitorServiceOptions{
		Repo:     f.repo,
		Jobs:     f.jobs,
		Config:   config.SLAMonitorConfig{Interval: time.Minute, BatchSize: 50, WarningAlerts: warnings},
		Notifier: f.notifier,
		Clock:    fixedClock{now: testutil.TestTime()},
		Logger:   discardLogger(),
		Metrics:  f.sink,
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestNewSLAMonitorService_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)

	_, err := NewSLAMonitorService(SLAMonitorServiceOptions{Config: config.SLAMonitorConfig{Interval: time.Minute}})
	require.Error(t, err)

	_, err = NewSLAMonitorService(SLAMonitorServiceOptions{Repo: mocks.NewMockSLARepository(ctrl)})
	require.Error(t, err)
}

func TestSLAMonitor_Sweep_BreachesOverdueTimer(t *testing.T) {
	f := newMonitorFixture(t, false)
	now := testutil.TestTime()
	ctx := context.Background()

	overdue := startedTimer("t-1", model.SLAStageDispatch, 15, now.Add(-20*time.Minute))
	f.repo.EXPECT().ListActiveTimers(ctx, 50).Return([]*model.SLATimer{overdue}, nil)
	f.repo.EXPECT().MarkBreached(ctx, "t-1", now).Return(true, nil)
	f.repo.EXPECT().RecordAlert(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, a *model.SLAAlert) (bool, error) {
			assert.Equal(t, "job-1", a.JobID)
			assert.Equal(t, model.SLAAlertTypeBreach, a.AlertType)
			assert.Equal(t, model.SLAStageDispatch, a.Stage)
			assert.Equal(t, "dispatch stage breached: 20 of 15 minutes elapsed", a.Message)
			assert.Equal(t, now, a.SentAt)
			return true, nil
		})
	f.jobs.EXPECT().GetByID(ctx, "job-1").Return(testutil.NewJob("job-1").Build(), nil)

	res, err := f.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Checked: 1, Breached: 1}, res)

	require.Len(t, f.notifier.payloads, 1)
	p := f.notifier.payloads[0]
	assert.Equal(t, "breach", p.AlertType)
	assert.Equal(t, "hvac", p.Trade)
	assert.Equal(t, "Austin, TX", p.Location)
	assert.Equal(t, 15, p.TargetMinutes)
	assert.Equal(t, 20*time.Minute, p.Elapsed)

	assert.Equal(t, int64(1), f.sink.count("sla.alert"))
	assert.Equal(t, []string{"success"}, f.sink.resultsFor("sla.sweep"))
}

func TestSLAMonitor_Sweep_AlreadyBreachedElsewhere(t *testing.T) {
	f := newMonitorFixture(t, false)
	now := testutil.TestTime()

	overdue := startedTimer("t-1", model.SLAStageArrival, 60, now.Add(-2*time.Hour))
	f.repo.EXPECT().ListActiveTimers(gomock.Any(), 50).Return([]*model.SLATimer{overdue}, nil)
	f.repo.EXPECT().MarkBreached(gomock.Any(), "t-1", now).Return(false, nil)

	res, err := f.svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Breached)
	assert.Empty(t, f.notifier.payloads)
	assert.Equal(t, []string{"noop"}, f.sink.resultsFor("sla.sweep"))
}

func TestSLAMonitor_Sweep_DuplicateAlertIsNotNotified(t *testing.T) {
	f := newMonitorFixture(t, false)
	now := testutil.TestTime()

	overdue := startedTimer("t-1", model.SLAStageDispatch, 15, now.Add(-30*time.Minute))
	f.repo.EXPECT().ListActiveTimers(gomock.Any(), 50).Return([]*model.SLATimer{overdue}, nil)
	f.repo.EXPECT().MarkBreached(gomock.Any(), "t-1", now).Return(true, nil)
	f.repo.EXPECT().RecordAlert(gomock.Any(), gomock.Any()).Return(false, nil)

	res, err := f.svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Breached)
	assert.Empty(t, f.notifier.payloads)
	assert.Zero(t, f.sink.count("sla.alert"))
}

func TestSLAMonitor_Sweep_WarningAlerts(t *testing.T) {
	now := testutil.TestTime()
	nearly := func() *model.SLATimer {
		return startedTimer("t-2", model.SLAStageAssignment, 60, now.Add(-50*time.Minute))
	}

	t.Run("disabled", func(t *testing.T) {
		f := newMonitorFixture(t, false)
		f.repo.EXPECT().ListActiveTimers(gomock.Any(), 50).Return([]*model.SLATimer{nearly()}, nil)

		res, err := f.svc.Sweep(context.Background())
		require.NoError(t, err)
		assert.Equal(t, SweepResult{Checked: 1}, res)
	})

	t.Run("enabled", func(t *testing.T) {
		f := newMonitorFixture(t, true)
		f.repo.EXPECT().ListActiveTimers(gomock.Any(), 50).Return([]*model.SLATimer{nearly()}, nil)
		f.repo.EXPECT().RecordAlert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, a *model.SLAAlert) (bool, error) {
				assert.Equal(t, model.SLAAlertTypeWarning, a.AlertType)
				assert.Equal(t, "assignment stage nearing deadline: 50 of 60 minutes elapsed", a.Message)
				return true, nil
			})
		f.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(nil, errors.New("gone"))

		res, err := f.svc.Sweep(context.Background())
		require.NoError(t, err)
		assert.Equal(t, SweepResult{Checked: 1, Warnings: 1}, res)
		require.Len(t, f.notifier.payloads, 1)
		assert.Empty(t, f.notifier.payloads[0].Trade)
	})
}

func TestSLAMonitor_Sweep_CachesJobLookups(t *testing.T) {
	f := newMonitorFixture(t, false)
	now := testutil.TestTime()

	a := startedTimer("t-1", model.SLAStageDispatch, 15, now.Add(-20*time.Minute))
	b := startedTimer("t-2", model.SLAStageAssignment, 15, now.Add(-20*time.Minute))
	f.repo.EXPECT().ListActiveTimers(gomock.Any(), 50).Return([]*model.SLATimer{a, b}, nil)
	f.repo.EXPECT().MarkBreached(gomock.Any(), gomock.Any(), now).Return(true, nil).Times(2)
	f.repo.EXPECT().RecordAlert(gomock.Any(), gomock.Any()).Return(true, nil).Times(2)
	f.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(testutil.NewJob("job-1").Build(), nil).Times(1)

	res, err := f.svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Breached)
	assert.Len(t, f.notifier.payloads, 2)
}

func TestSLAMonitor_Sweep_ContinuesPastTimerErrors(t *testing.T) {
	f := newMonitorFixture(t, false)
	now := testutil.TestTime()

	a := startedTimer("t-1", model.SLAStageDispatch, 15, now.Add(-20*time.Minute))
	b := startedTimer("t-2", model.SLAStageAssignment, 15, now.Add(-20*time.Minute))
	f.repo.EXPECT().ListActiveTimers(gomock.Any(), 50).Return([]*model.SLATimer{a, b}, nil)
	f.repo.EXPECT().MarkBreached(gomock.Any(), "t-1", now).Return(false, errors.New("deadlock"))
	f.repo.EXPECT().MarkBreached(gomock.Any(), "t-2", now).Return(true, nil)
	f.repo.EXPECT().RecordAlert(gomock.Any(), gomock.Any()).Return(true, nil)
	f.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(testutil.NewJob("job-1").Build(), nil)

	res, err := f.svc.Sweep(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "t-1")
	assert.Equal(t, 2, res.Checked)
	assert.Equal(t, 1, res.Breached)
	assert.Equal(t, []string{"error"}, f.sink.resultsFor("sla.sweep"))
}

func TestSLAMonitor_Sweep_ListFailure(t *testing.T) {
	f := newMonitorFixture(t, false)
	f.repo.EXPECT().ListActiveTimers(gomock.Any(), 50).Return(nil, errors.New("db down"))

	_, err := f.svc.Sweep(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"error"}, f.sink.resultsFor("sla.sweep"))
}

func TestSLAMonitor_RunStopsOnCancel(t *testing.T) {
	f := newMonitorFixture(t, false)
	f.repo.EXPECT().ListActiveTimers(gomock.Any(), 50).Return(nil, nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.svc.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop")
	}
}
