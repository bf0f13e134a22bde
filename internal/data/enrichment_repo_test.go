package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	"github.com/tradedispatch/dispatch-api/internal/testutil"
)

func TestEnrichmentRepo_ClaimLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewEnrichmentRepo(db, EnrichmentRepoOptions{})
	ctx := context.Background()

	id := testutil.SeedEnrichmentTarget(t, db, "Cool Air LLC", "https://www.coolair.com", "hvac")

	claimable, err := repo.ListClaimable(ctx, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, claimable)

	target, err := repo.ClaimTarget(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.EnrichmentStatusProcessing, target.Status)

	_, err = repo.ClaimTarget(ctx, id)
	require.ErrorIs(t, err, ErrTargetNotClaimable)

	require.NoError(t, repo.FailTarget(ctx, id, "hunter: 429"))
	target, err = repo.GetTarget(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.EnrichmentStatusFailed, target.Status)
	assert.Equal(t, 1, target.Attempts)

	claimable, err = repo.ListClaimable(ctx, 10, 1)
	require.NoError(t, err)
	assert.Empty(t, claimable, "failed targets at max attempts are not retried")

	_, err = repo.ClaimTarget(ctx, id)
	require.NoError(t, err, "failed targets can be claimed again")

	email := "pat@coolair.com"
	require.NoError(t, repo.CompleteTarget(ctx, model.CompleteEnrichmentParams{
		TargetID: id, Domain: "coolair.com", Email: &email, EmailVerified: true, EmailFound: true,
	}))
	target, err = repo.GetTarget(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.EnrichmentStatusCompleted, target.Status)
	assert.True(t, target.HasVerifiedEmail())
	assert.Nil(t, target.LastError)

	_, err = repo.ClaimTarget(ctx, id)
	require.ErrorIs(t, err, ErrTargetNotClaimable)
}

func TestEnrichmentRepo_ColdLeads(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewEnrichmentRepo(db, EnrichmentRepoOptions{})
	ctx := context.Background()

	id := testutil.SeedEnrichmentTarget(t, db, "Pipe Pros", "", "plumbing")

	lead, err := repo.CreateColdLead(ctx, &model.ColdLead{
		TargetID: id, Email: "owner@pipepros.com", Name: "Pat", BusinessName: "Pipe Pros",
		Trade: "plumbing", CampaignID: "camp-plumbing",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)

	again, err := repo.CreateColdLead(ctx, &model.ColdLead{TargetID: id, Email: "owner@pipepros.com"})
	require.NoError(t, err)
	assert.Equal(t, lead.ID, again.ID)
	assert.Equal(t, "camp-plumbing", again.CampaignID)

	require.NoError(t, repo.MarkColdLeadPushed(ctx, lead.ID, testutil.TestTime()))
}

func TestEnrichmentRepo_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewEnrichmentRepo(db, EnrichmentRepoOptions{})
	ctx := context.Background()

	_, err := repo.GetTarget(ctx, "bad-id")
	require.ErrorIs(t, err, ErrTargetNotFound)
	_, err = repo.ClaimTarget(ctx, "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, ErrTargetNotFound)
	require.ErrorIs(t, repo.FailTarget(ctx, "00000000-0000-0000-0000-000000000000", "x"), ErrTargetNotFound)
}
