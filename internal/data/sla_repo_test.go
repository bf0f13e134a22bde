package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	apperrors "github.com/tradedispatch/dispatch-api/internal/errors"
	"github.com/tradedispatch/dispatch-api/internal/testutil"
)

var testSLAConfig = model.SLAConfig{Dispatch: 15, Assignment: 30, Arrival: 120, Completion: 240}

func TestSLARepo_CreateAndComplete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	clock := NewFixedTimeProvider(testutil.TestTime())
	repo := NewSLARepo(db, SLARepoOptions{TimeProvider: clock})
	ctx := context.Background()

	jobID := testutil.SeedJob(t, db, "hvac", "emergency")

	timers, err := repo.CreateTimers(ctx, core.CreateSLATimersParams{JobID: jobID, Config: testSLAConfig})
	require.NoError(t, err)
	require.Len(t, timers, 4)
	for i, stage := range model.SLAStages() {
		assert.Equal(t, stage, timers[i].Stage)
		assert.Equal(t, testSLAConfig.Minutes(stage), timers[i].TargetMinutes)
	}
	require.NotNil(t, timers[0].StartedAt)
	assert.True(t, timers[0].StartedAt.Equal(clock.Now()))
	assert.Nil(t, timers[1].StartedAt)

	t.Run("second start conflicts while timers are active", func(t *testing.T) {
		_, err := repo.CreateTimers(ctx, core.CreateSLATimersParams{JobID: jobID, Config: testSLAConfig})
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(apperrors.MapDBError(err)))
	})

	t.Run("complete dispatch starts assignment", func(t *testing.T) {
		require.NoError(t, repo.CompleteStage(ctx, jobID, model.SLAStageDispatch))
		listed, err := repo.ListTimers(ctx, jobID)
		require.NoError(t, err)
		require.Len(t, listed, 4)
		assert.NotNil(t, listed[0].CompletedAt)
		assert.NotNil(t, listed[1].StartedAt)
		assert.Nil(t, listed[1].CompletedAt)
		assert.Nil(t, listed[2].StartedAt)
	})

	t.Run("active timers exclude completed and unstarted", func(t *testing.T) {
		active, err := repo.ListActiveTimers(ctx, 10)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, model.SLAStageAssignment, active[0].Stage)
	})
}

func TestSLARepo_BreachAndAlerts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSLARepo(db, SLARepoOptions{})
	ctx := context.Background()

	jobID := testutil.SeedJob(t, db, "electrical", "urgent")
	timers, err := repo.CreateTimers(ctx, core.CreateSLATimersParams{
		JobID: jobID, Config: testSLAConfig, StartedAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	flipped, err := repo.MarkBreached(ctx, timers[0].ID, time.Now())
	require.NoError(t, err)
	assert.True(t, flipped)

	flipped, err = repo.MarkBreached(ctx, timers[0].ID, time.Now())
	require.NoError(t, err)
	assert.False(t, flipped, "already breached timers are not flipped twice")

	alert := &model.SLAAlert{
		JobID: jobID, AlertType: model.SLAAlertTypeBreach, Stage: model.SLAStageDispatch, Message: "late",
	}
	inserted, err := repo.RecordAlert(ctx, alert)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotEmpty(t, alert.ID)

	inserted, err = repo.RecordAlert(ctx, &model.SLAAlert{
		JobID: jobID, AlertType: model.SLAAlertTypeBreach, Stage: model.SLAStageDispatch, Message: "again",
	})
	require.NoError(t, err)
	assert.False(t, inserted)

	acked, err := repo.AcknowledgeAlert(ctx, alert.ID)
	require.NoError(t, err)
	assert.True(t, acked.Acknowledged)

	acked, err = repo.AcknowledgeAlert(ctx, alert.ID)
	require.NoError(t, err)
	assert.True(t, acked.Acknowledged)

	alerts, err := repo.ListAlerts(ctx, jobID)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	_, err = repo.AcknowledgeAlert(ctx, "not-a-uuid")
	require.ErrorIs(t, err, ErrAlertNotFound)
	_, err = repo.AcknowledgeAlert(ctx, "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, ErrAlertNotFound)
}

func TestSLARepo_ListenSLAChanges(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSLARepo(db, SLARepoOptions{})

	jobID := testutil.SeedJob(t, db, "hvac", "urgent")
	otherID := testutil.SeedJob(t, db, "hvac", "urgent")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	listenCtx, stop := context.WithCancel(ctx)
	changes := make(chan string, 32)
	listening := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- repo.ListenSLAChanges(listenCtx, func() { close(listening) }, func(id string) { changes <- id })
	}()
	<-listening

	for _, id := range []string{otherID, jobID} {
		_, err := repo.CreateTimers(ctx, core.CreateSLATimersParams{JobID: id, Config: testSLAConfig})
		require.NoError(t, err)
	}

	seen := map[string]bool{}
	for !seen[jobID] || !seen[otherID] {
		select {
		case id := <-changes:
			seen[id] = true
		case <-ctx.Done():
			t.Fatalf("missing notifications, saw %v", seen)
		}
	}

	stop()
	require.Error(t, <-done)
}
