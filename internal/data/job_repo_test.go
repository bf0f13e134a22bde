package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	"github.com/tradedispatch/dispatch-api/internal/testutil"
)

func TestJobRepo_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewJobRepo(db)
	ctx := context.Background()

	id := testutil.SeedJob(t, db, "hvac", "emergency")

	job, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "hvac", job.Trade)
	assert.Equal(t, "emergency", job.Urgency)
	assert.Equal(t, model.JobStatusOpen, job.Status)
	assert.True(t, job.Budget.Valid)
	assert.Equal(t, "$250.00", job.BudgetDisplay())
	assert.Equal(t, "Austin, TX", job.Location())

	_, err = repo.GetByID(ctx, "job-does-not-exist")
	require.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobRepo_FindMatchingTechnicians(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewJobRepo(db)
	ctx := context.Background()

	jobID := testutil.SeedJob(t, db, "plumbing", "urgent")
	warm := testutil.SeedTechnician(t, db, testutil.TechnicianSeed{
		Name: "Ana", Email: testutil.StringPtr("ana@example.com"), SignedUp: testutil.BoolPtr(true), Trade: "Plumbing",
	})
	cold := testutil.SeedTechnician(t, db, testutil.TechnicianSeed{
		Name: "Bo", Email: testutil.StringPtr("bo@example.com"), Trade: "plumbing",
	})
	testutil.SeedTechnician(t, db, testutil.TechnicianSeed{Name: "Cy", Trade: "roofing"})
	testutil.SeedTechnician(t, db, testutil.TechnicianSeed{Name: "Di", Trade: "plumbing", State: "FL"})

	cands, err := repo.FindMatchingTechnicians(ctx, jobID)
	require.NoError(t, err)
	require.Len(t, cands, 2)

	byID := map[string]model.Candidate{}
	for _, c := range cands {
		byID[c.TechnicianID] = c
	}
	assert.True(t, byID[warm].IsWarm())
	assert.False(t, byID[cold].IsWarm())
	assert.Nil(t, byID[cold].SignedUp)
}

func TestJobRepo_ApplyParse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewJobRepo(db)
	ctx := context.Background()

	id := testutil.SeedJob(t, db, "general", "standard")

	job, err := repo.ApplyParse(ctx, core.ApplyJobParseParams{
		JobID:   id,
		RawText: "Water heater leaking at 9 Elm St, Denver, CO asap",
		Parsed: model.ParsedJob{
			TradeNeeded: "plumbing",
			Urgency:     "emergency",
			Address:     "9 Elm St, Denver, CO",
		},
		Geo: &model.GeoResult{Latitude: 39.7, Longitude: -104.9, City: "Denver", State: "CO", Zip: "80202"},
	})
	require.NoError(t, err)
	assert.Equal(t, "plumbing", job.Trade)
	assert.Equal(t, "emergency", job.Urgency)
	assert.Equal(t, "9 Elm St, Denver, CO", job.Address)
	assert.Equal(t, "Denver", job.City)
	assert.Equal(t, "CO", job.State)
	require.NotNil(t, job.Latitude)
	assert.InDelta(t, 39.7, *job.Latitude, 0.0001)
	require.NotNil(t, job.RawText)
	assert.Contains(t, *job.RawText, "Water heater")
	assert.Equal(t, "seeded job", job.Description, "blank parsed description keeps the stored one")

	_, err = repo.ApplyParse(ctx, core.ApplyJobParseParams{JobID: "missing"})
	require.ErrorIs(t, err, ErrJobNotFound)
}
