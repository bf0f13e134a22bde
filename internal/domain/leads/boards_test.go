package leads

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

func caRow(license, class string) map[string]string {
	return map[string]string{
		"LicenseNo":          license,
		"BusinessName":       "Cool Air Inc",
		"PersonName":         "Maria Lopez",
		"Classifications(s)": class,
		"City":               "Fresno",
		"BusinessPhone":      "5595550100",
	}
}

func TestDefaultBoards(t *testing.T) {
	b := DefaultBoards()
	for _, src := range []model.LeadSource{model.LeadSourceCalifornia, model.LeadSourceFlorida} {
		_, err := b.Board(src)
		require.NoError(t, err, src)
	}
}

func TestClassify_CaliforniaCodes(t *testing.T) {
	board, err := DefaultBoards().Board(model.LeadSourceCalifornia)
	require.NoError(t, err)

	tests := []struct {
		in    string
		trade string
		ok    bool
	}{
		{"C20", "hvac", true},
		{"C-36", "plumbing", true},
		{"B| C10", "electrical", true},
		{"c39", "roofing", true},
		{"B", "", false},
		{"C33", "", false},
	}
	for _, tt := range tests {
		trade, ok := board.Classify(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.trade, trade, tt.in)
	}
}

func TestClassify_FloridaPatterns(t *testing.T) {
	board, err := DefaultBoards().Board(model.LeadSourceFlorida)
	require.NoError(t, err)

	trade, ok := board.Classify("Certified Air Conditioning Contractor")
	assert.True(t, ok)
	assert.Equal(t, "hvac", trade)

	trade, ok = board.Classify("REGISTERED PLUMBING CONTRACTOR")
	assert.True(t, ok)
	assert.Equal(t, "plumbing", trade)

	_, ok = board.Classify("Certified Pool/Spa Contractor")
	assert.False(t, ok)
}

func TestToLead(t *testing.T) {
	board, err := DefaultBoards().Board(model.LeadSourceCalifornia)
	require.NoError(t, err)

	lead, ok := board.ToLead(model.LeadSourceCalifornia, caRow(" 123abc ", "C20"))
	require.True(t, ok)
	assert.Equal(t, "123ABC", lead.LicenseNumber)
	assert.Equal(t, "CA", lead.State)
	assert.Equal(t, model.LeadEnrichmentPending, lead.EnrichmentStatus)

	_, ok = board.ToLead(model.LeadSourceCalifornia, caRow("", "C20"))
	assert.False(t, ok)
}

func TestPlan_DeduplicatesAndFilters(t *testing.T) {
	board, err := DefaultBoards().Board(model.LeadSourceCalifornia)
	require.NoError(t, err)

	plan := board.Plan(ImportInput{
		Source: model.LeadSourceCalifornia,
		Records: []map[string]string{
			caRow("100", "C20"),
			caRow("100", "C20"), // in-batch duplicate
			caRow("200", "C36"), // already stored
			caRow("300", "B"),   // unclassified
			caRow("400", "C10"),
		},
		Existing: map[string]struct{}{"200": {}},
	})

	assert.Equal(t, 5, plan.Processed)
	assert.Equal(t, 2, plan.Duplicates)
	assert.Equal(t, 1, plan.FilteredOut)
	require.Len(t, plan.Leads, 2)
	assert.Equal(t, "100", plan.Leads[0].LicenseNumber)
	assert.Equal(t, "hvac", plan.Leads[0].Trade)
	assert.Equal(t, "400", plan.Leads[1].LicenseNumber)
}

func TestPlan_TradeFilterAndLimit(t *testing.T) {
	board, err := DefaultBoards().Board(model.LeadSourceCalifornia)
	require.NoError(t, err)

	plan := board.Plan(ImportInput{
		Source:      model.LeadSourceCalifornia,
		Records:     []map[string]string{caRow("1", "C20"), caRow("2", "C36"), caRow("3", "C20")},
		Limit:       2,
		TradeFilter: []string{"HVAC"},
	})
	assert.Equal(t, 2, plan.Processed)
	assert.Equal(t, 1, plan.FilteredOut)
	require.Len(t, plan.Leads, 1)
	assert.Equal(t, "1", plan.Leads[0].LicenseNumber)
}

func TestBatches(t *testing.T) {
	leads := make([]model.Lead, 250)
	batches := Batches(leads, 100)
	require.Len(t, batches, 3)
	assert.Len(t, batches[2], 50)
	assert.Empty(t, Batches(nil, 100))
}

func TestParseBoards_Rejects(t *testing.T) {
	_, err := ParseBoards(strings.NewReader("boards:\n  texas:\n    columns: {license_number: X}\n    codes: {A: b}\n"))
	require.Error(t, err)

	_, err = ParseBoards(strings.NewReader("boards:\n  florida:\n    columns: {license_number: X}\n"))
	require.Error(t, err)
}
