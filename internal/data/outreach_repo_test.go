package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	"github.com/tradedispatch/dispatch-api/internal/testutil"
)

func TestOutreachRepo_Lifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewOutreachRepo(db)
	ctx := context.Background()

	jobID := testutil.SeedJob(t, db, "hvac", "urgent")
	warmTech := testutil.SeedTechnician(t, db, testutil.TechnicianSeed{Name: "W", Trade: "hvac"})
	coldTech := testutil.SeedTechnician(t, db, testutil.TechnicianSeed{Name: "C", Trade: "hvac"})
	failTech := testutil.SeedTechnician(t, db, testutil.TechnicianSeed{Name: "F", Trade: "hvac"})

	o, err := repo.Create(ctx, jobID, 3)
	require.NoError(t, err)
	assert.Equal(t, model.OutreachStatusInProgress, o.Status)
	assert.Equal(t, 3, o.TotalRecipients)

	newRecipient := func(tech string, method model.DispatchMethod) *model.OutreachRecipient {
		rec, recErr := repo.CreateRecipient(ctx, model.CreateRecipientRequest{
			OutreachID: o.ID, TechnicianID: tech, Email: tech + "@example.com", DispatchMethod: method,
		})
		require.NoError(t, recErr)
		return rec
	}
	warm := newRecipient(warmTech, model.DispatchMethodWarm)
	cold := newRecipient(coldTech, model.DispatchMethodCold)
	failed := newRecipient(failTech, model.DispatchMethodWarm)

	now := time.Now().UTC()
	require.NoError(t, repo.MarkRecipientSent(ctx, warm.ID, now))
	require.NoError(t, repo.MarkRecipientSent(ctx, cold.ID, now))
	require.NoError(t, repo.MarkRecipientFailed(ctx, failed.ID, "sendgrid: 500"))
	require.NoError(t, repo.RefreshStats(ctx, o.ID))

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.WarmSent)
	assert.Equal(t, 1, got.ColdSent)

	finished, err := repo.Finish(ctx, core.FinishOutreachParams{
		OutreachID: o.ID, Status: model.OutreachStatusCompleted, At: now,
	})
	require.NoError(t, err)
	assert.Equal(t, model.OutreachStatusCompleted, finished.Status)
	assert.NotNil(t, finished.CompletedAt)

	recs, err := repo.ListRecipients(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.True(t, recs[0].EmailSent)
	require.NotNil(t, recs[2].Error)
	assert.Equal(t, "sendgrid: 500", *recs[2].Error)
}

func TestOutreachRepo_Errors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewOutreachRepo(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "nope")
	require.ErrorIs(t, err, ErrOutreachNotFound)

	_, err = repo.CreateRecipient(ctx, model.CreateRecipientRequest{DispatchMethod: "carrier_pigeon"})
	require.Error(t, err)

	err = repo.MarkRecipientSent(ctx, "00000000-0000-0000-0000-000000000000", time.Now())
	require.ErrorIs(t, err, ErrRecipientMissing)
}
