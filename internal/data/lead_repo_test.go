package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	"github.com/tradedispatch/dispatch-api/internal/testutil"
)

func TestBuildLeadListQuery(t *testing.T) {
	query, args := buildLeadListQuery(model.LeadListOptions{
		IDs:           []string{"a"},
		Source:        model.LeadSourceFlorida,
		WithEmailOnly: true,
		Limit:         10,
	})
	assert.Contains(t, query, `FROM "leads" WHERE id::text = ANY($1) AND "source" = $2 AND email IS NOT NULL`)
	assert.Contains(t, query, `ORDER BY "created_at" ASC LIMIT $3`)
	assert.Equal(t, []any{[]string{"a"}, "florida", 10}, args)

	_, args = buildLeadListQuery(model.LeadListOptions{Limit: 10_000})
	assert.Equal(t, []any{maxLeadListLimit}, args)
}

func TestLeadRepo_UpsertAndEnrich(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewLeadRepo(db, LeadRepoOptions{})
	ctx := context.Background()

	leads := []model.Lead{
		{Source: model.LeadSourceCalifornia, LicenseNumber: "100", BusinessName: "Cool Co", Trade: "hvac"},
		{Source: model.LeadSourceCalifornia, LicenseNumber: "200", BusinessName: "Drain Co", Trade: "plumbing"},
		{Source: model.LeadSourceFlorida, LicenseNumber: "100", BusinessName: "Sun Roof", Trade: "roofing"},
	}
	n, err := repo.UpsertBatch(ctx, leads)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	existing, err := repo.ExistingLicenseNumbers(ctx, model.LeadSourceCalifornia, []string{"100", "300"})
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"100": {}}, existing)

	leads[0].BusinessName = "Cool Co Renamed"
	n, err = repo.UpsertBatch(ctx, leads[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ca, err := repo.List(ctx, model.LeadListOptions{Source: model.LeadSourceCalifornia})
	require.NoError(t, err)
	require.Len(t, ca, 2)
	assert.Equal(t, "Cool Co Renamed", ca[0].BusinessName)
	assert.Equal(t, model.LeadEnrichmentStatus("pending"), ca[0].EnrichmentStatus)

	email := "owner@coolco.com"
	conf := 91
	require.NoError(t, repo.UpdateEmail(ctx, model.LeadEmailUpdate{
		LeadID: ca[0].ID, Email: &email, Confidence: &conf, Verified: true, Status: "enriched",
	}))

	withEmail, err := repo.List(ctx, model.LeadListOptions{WithEmailOnly: true})
	require.NoError(t, err)
	require.Len(t, withEmail, 1)
	assert.Equal(t, email, *withEmail[0].Email)
	assert.Equal(t, 91, *withEmail[0].EmailConfidence)

	byID, err := repo.List(ctx, model.LeadListOptions{IDs: []string{ca[1].ID}})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "200", byID[0].LicenseNumber)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.LeadStats{Total: 3, Pending: 2, Enriched: 1, Verified: 1}, *stats)

	err = repo.UpdateEmail(ctx, model.LeadEmailUpdate{LeadID: "00000000-0000-0000-0000-000000000000", Status: "failed"})
	require.ErrorIs(t, err, ErrLeadNotFound)
}
