package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/data"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	apperrors "github.com/tradedispatch/dispatch-api/internal/errors"
	"github.com/tradedispatch/dispatch-api/internal/mocks"
	"github.com/tradedispatch/dispatch-api/internal/testutil"
)

// stubFeed hands out a wake channel the test controls.
type stubFeed struct {
	wake    chan struct{}
	unsubs  int
	stopped bool
}

func (f *stubFeed) Subscribe(string) (func(), <-chan struct{}) {
	return func() { f.unsubs++ }, f.wake
}

func (f *stubFeed) StopAll() { f.stopped = true }

func newSLAServiceForTest(t *testing.T, repo core.SLARepository, jobs core.JobRepository) (*SLAService, *stubFeed) {
	t.Helper()
	feed := &stubFeed{wake: make(chan struct{}, 1)}
	svc, err := NewSLAService(SLAServiceOptions{
		Repo:   repo,
		Jobs:   jobs,
		Feed:   feed,
		Clock:  fixedClock{now: testutil.TestTime()},
		Logger: discardLogger(),
	})
	require.NoError(t, err)
	return svc, feed
}

func TestNewSLAService_RequiresRepo(t *testing.T) {
	_, err := NewSLAService(SLAServiceOptions{})
	require.Error(t, err)
}

func TestSLAService_Resolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _ := newSLAServiceForTest(t, mocks.NewMockSLARepository(ctrl), nil)

	cfg := svc.Resolve("hvac", "emergency")
	assert.Equal(t, model.SLAConfig{Dispatch: 15, Assignment: 30, Arrival: 120, Completion: 240}, cfg)

	fallback := svc.Resolve("roofing", "whenever")
	assert.Equal(t, model.SLAConfig{Dispatch: 60, Assignment: 120, Arrival: 240, Completion: 480}, fallback)
}

func TestSLAService_StartTimers_UsesJobTradeAndUrgency(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSLARepository(ctrl)
	jobs := mocks.NewMockJobRepository(ctrl)
	svc, _ := newSLAServiceForTest(t, repo, jobs)
	ctx := context.Background()

	job := testutil.NewJob("job-1").WithTrade("hvac").WithUrgency("emergency").Build()
	jobs.EXPECT().GetByID(ctx, "job-1").Return(job, nil)

	want := core.CreateSLATimersParams{
		JobID:     "job-1",
		Config:    model.SLAConfig{Dispatch: 15, Assignment: 30, Arrival: 120, Completion: 240},
		StartedAt: testutil.TestTime(),
	}
	timer := startedTimer("t-1", model.SLAStageDispatch, 15, testutil.TestTime())
	repo.EXPECT().CreateTimers(ctx, want).Return([]*model.SLATimer{timer}, nil)
	repo.EXPECT().ListTimers(gomock.Any(), "job-1").Return([]*model.SLATimer{timer}, nil)
	repo.EXPECT().ListAlerts(gomock.Any(), "job-1").Return(nil, nil)

	snap, err := svc.StartTimers(ctx, model.StartSLATimersRequest{JobID: "job-1"})
	require.NoError(t, err)
	require.Len(t, snap.Timers, 1)
	assert.Equal(t, model.SLAStatusOnTime, snap.Timers[0].Status)
	assert.Empty(t, snap.Alerts)
	assert.NotNil(t, snap.Alerts)
}

func TestSLAService_StartTimers_AppliesOverride(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSLARepository(ctrl)
	svc, _ := newSLAServiceForTest(t, repo, nil)
	ctx := context.Background()

	repo.EXPECT().CreateTimers(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p core.CreateSLATimersParams) ([]*model.SLATimer, error) {
			assert.Equal(t, 5, p.Config.Dispatch)
			assert.Equal(t, 30, p.Config.Assignment)
			return nil, nil
		})
	repo.EXPECT().ListTimers(gomock.Any(), "job-2").Return(nil, nil)
	repo.EXPECT().ListAlerts(gomock.Any(), "job-2").Return(nil, nil)

	_, err := svc.StartTimers(ctx, model.StartSLATimersRequest{
		JobID:    "job-2",
		Trade:    "hvac",
		Urgency:  "emergency",
		Override: &model.SLAConfig{Dispatch: 5},
	})
	require.NoError(t, err)
}

func TestSLAService_StartTimers_RejectsNegativeOverride(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _ := newSLAServiceForTest(t, mocks.NewMockSLARepository(ctrl), nil)

	_, err := svc.StartTimers(context.Background(), model.StartSLATimersRequest{
		JobID:    "job-3",
		Trade:    "hvac",
		Urgency:  "urgent",
		Override: &model.SLAConfig{Arrival: -1},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "override.arrival", apperrors.GetField(err))
}

func TestSLAService_StartTimers_DuplicateIsConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSLARepository(ctrl)
	svc, _ := newSLAServiceForTest(t, repo, nil)

	repo.EXPECT().CreateTimers(gomock.Any(), gomock.Any()).Return(nil, &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "sla_timers_job_id_stage_key",
	})

	_, err := svc.StartTimers(context.Background(), model.StartSLATimersRequest{
		JobID: "job-4", Trade: "hvac", Urgency: "urgent",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestSLAService_StartTimers_JobNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSLARepository(ctrl)
	jobs := mocks.NewMockJobRepository(ctrl)
	svc, _ := newSLAServiceForTest(t, repo, jobs)

	jobs.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, data.ErrJobNotFound)

	_, err := svc.StartTimers(context.Background(), model.StartSLATimersRequest{JobID: "missing"})
	require.ErrorIs(t, err, data.ErrJobNotFound)
}

func TestSLAService_StartTimers_RequiresJobID(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _ := newSLAServiceForTest(t, mocks.NewMockSLARepository(ctrl), nil)

	_, err := svc.StartTimers(context.Background(), model.StartSLATimersRequest{JobID: "  "})
	assert.True(t, apperrors.IsValidation(err))
}

func TestSLAService_Snapshot_SoftFailsReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSLARepository(ctrl)
	svc, _ := newSLAServiceForTest(t, repo, nil)

	repo.EXPECT().ListTimers(gomock.Any(), "job-5").Return(nil, errors.New("db down"))
	repo.EXPECT().ListAlerts(gomock.Any(), "job-5").Return(nil, errors.New("db down"))

	snap := svc.Snapshot(context.Background(), "job-5")
	require.NotNil(t, snap)
	assert.Equal(t, "job-5", snap.JobID)
	assert.Empty(t, snap.Timers)
	assert.NotNil(t, snap.Alerts)
	assert.Equal(t, testutil.TestTime(), snap.GeneratedAt)
}

func TestSLAService_Snapshot_ProjectsStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSLARepository(ctrl)
	svc, _ := newSLAServiceForTest(t, repo, nil)

	now := testutil.TestTime()
	warn := startedTimer("t-warn", model.SLAStageDispatch, 10, now.Add(-9*time.Minute))
	late := startedTimer("t-late", model.SLAStageAssignment, 10, now.Add(-20*time.Minute))
	late.Breached = true
	done := startedTimer("t-done", model.SLAStageArrival, 10, now.Add(-20*time.Minute))
	done.CompletedAt = testutil.TimePtr(now.Add(-15 * time.Minute))

	repo.EXPECT().ListTimers(gomock.Any(), "job-1").Return([]*model.SLATimer{warn, late, done}, nil)
	repo.EXPECT().ListAlerts(gomock.Any(), "job-1").Return(nil, nil)

	snap := svc.Snapshot(context.Background(), "job-1")
	require.Len(t, snap.Timers, 3)
	assert.Equal(t, model.SLAStatusWarning, snap.Timers[0].Status)
	assert.Equal(t, model.SLAStatusBreached, snap.Timers[1].Status)
	assert.Equal(t, model.SLAStatusCompleted, snap.Timers[2].Status)
}

func TestSLAService_CompleteStage(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSLARepository(ctrl)
	svc, _ := newSLAServiceForTest(t, repo, nil)
	ctx := context.Background()

	repo.EXPECT().CompleteStage(ctx, "job-1", model.SLAStageDispatch).Return(nil)
	require.NoError(t, svc.CompleteStage(ctx, "job-1", model.SLAStageDispatch))

	err := svc.CompleteStage(ctx, "job-1", model.SLAStage("lunch"))
	assert.True(t, apperrors.IsValidation(err))
}

func TestSLAService_Acknowledge(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSLARepository(ctrl)
	svc, _ := newSLAServiceForTest(t, repo, nil)
	ctx := context.Background()

	repo.EXPECT().AcknowledgeAlert(ctx, "a-1").Return(&model.SLAAlert{ID: "a-1", Acknowledged: true}, nil)
	alert, err := svc.Acknowledge(ctx, "a-1")
	require.NoError(t, err)
	assert.True(t, alert.Acknowledged)

	repo.EXPECT().AcknowledgeAlert(ctx, "a-2").Return(nil, data.ErrAlertNotFound)
	_, err = svc.Acknowledge(ctx, "a-2")
	assert.ErrorIs(t, err, data.ErrAlertNotFound)
}

func TestSLAService_Subscribe_SendsInitialAndOnChange(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSLARepository(ctrl)
	svc, feed := newSLAServiceForTest(t, repo, nil)

	repo.EXPECT().ListTimers(gomock.Any(), "job-1").Return(nil, nil).Times(2)
	repo.EXPECT().ListAlerts(gomock.Any(), "job-1").Return(nil, nil).Times(2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := svc.Subscribe(ctx, "job-1")

	select {
	case snap := <-stream:
		require.NotNil(t, snap)
		assert.Equal(t, "job-1", snap.JobID)
	case <-time.After(time.Second):
		t.Fatal("expected initial snapshot")
	}

	feed.wake <- struct{}{}
	select {
	case snap := <-stream:
		require.NotNil(t, snap)
	case <-time.After(time.Second):
		t.Fatal("expected snapshot after change")
	}

	close(feed.wake)
	select {
	case _, ok := <-stream:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected stream to close")
	}
	assert.Equal(t, 1, feed.unsubs)
}

func TestSLAService_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, feed := newSLAServiceForTest(t, mocks.NewMockSLARepository(ctrl), nil)
	svc.Close()
	assert.True(t, feed.stopped)
}
