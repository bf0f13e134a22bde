package leads

import (
	"strings"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

// ImportInput is the raw material of one import call.
type ImportInput struct {
	Source      model.LeadSource
	Records     []map[string]string
	Limit       int
	TradeFilter []string
	// Existing holds license numbers already stored for Source.
	Existing map[string]struct{}
}

// ImportPlan is the set of rows to upsert and the counts of rows skipped.
type ImportPlan struct {
	Leads       []model.Lead
	Processed   int
	FilteredOut int
	Duplicates  int
}

// Plan filters rows by trade and removes duplicates against existing and in-batch license numbers.
func (b *Board) Plan(in ImportInput) ImportPlan {
	records := in.Records
	if in.Limit > 0 && len(records) > in.Limit {
		records = records[:in.Limit]
	}

	allowed := make(map[string]struct{}, len(in.TradeFilter))
	for _, t := range in.TradeFilter {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			allowed[t] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(records))
	plan := ImportPlan{Leads: make([]model.Lead, 0, len(records))}
	for _, row := range records {
		plan.Processed++

		lead, ok := b.ToLead(in.Source, row)
		if !ok {
			plan.FilteredOut++
			continue
		}
		trade, ok := b.Classify(lead.Classification)
		if !ok {
			plan.FilteredOut++
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[trade]; !ok {
				plan.FilteredOut++
				continue
			}
		}
		lead.Trade = trade

		if _, dup := in.Existing[lead.LicenseNumber]; dup {
			plan.Duplicates++
			continue
		}
		if _, dup := seen[lead.LicenseNumber]; dup {
			plan.Duplicates++
			continue
		}
		seen[lead.LicenseNumber] = struct{}{}
		plan.Leads = append(plan.Leads, lead)
	}
	return plan
}

// LicenseNumbers returns the license numbers found in records, upper-cased.
func (b *Board) LicenseNumbers(records []map[string]string) []string {
	out := make([]string, 0, len(records))
	for _, row := range records {
		if n := strings.ToUpper(strings.TrimSpace(row[b.Columns.LicenseNumber])); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Batches splits leads into chunks of at most size.
func Batches(leads []model.Lead, size int) [][]model.Lead {
	if size <= 0 {
		size = len(leads)
	}
	var out [][]model.Lead
	for start := 0; start < len(leads); start += size {
		end := min(start+size, len(leads))
		out = append(out, leads[start:end])
	}
	return out
}
