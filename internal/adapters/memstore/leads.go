package memstore

import (
	"context"
	"slices"
	"strings"

	"github.com/tradedispatch/dispatch-api/internal/data"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

const maxLeadListLimit = 500

// List returns leads matching opts, oldest first.
func (s LeadRepo) List(ctx context.Context, opts model.LeadListOptions) ([]*model.Lead, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	limit := opts.Limit
	if limit <= 0 || limit > maxLeadListLimit {
		limit = maxLeadListLimit
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Lead
	for _, l := range s.leads {
		if len(out) == limit {
			break
		}
		if !leadMatches(l, opts) {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func leadMatches(l *model.Lead, opts model.LeadListOptions) bool {
	switch {
	case len(opts.IDs) > 0 && !slices.Contains(opts.IDs, l.ID):
		return false
	case opts.Source != "" && l.Source != opts.Source:
		return false
	case opts.Status != "" && l.EnrichmentStatus != opts.Status:
		return false
	case opts.WithEmailOnly && (l.Email == nil || *l.Email == ""):
		return false
	}
	return true
}

// ExistingLicenseNumbers returns which of numbers are already staged for source.
func (s LeadRepo) ExistingLicenseNumbers(
	ctx context.Context,
	source model.LeadSource,
	numbers []string,
) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.leads {
		if l.Source == source && slices.Contains(numbers, l.LicenseNumber) {
			out[l.LicenseNumber] = struct{}{}
		}
	}
	return out, nil
}

// UpsertBatch writes leads keyed by (source, license_number) and returns the
// number of rows written. Existing rows keep their enrichment state.
func (s LeadRepo) UpsertBatch(ctx context.Context, leads []model.Lead) (int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	written := 0
	for i := range leads {
		in := leads[i]
		if existing := s.findLead(in.Source, in.LicenseNumber); existing != nil {
			existing.BusinessName = in.BusinessName
			existing.ContactName = in.ContactName
			existing.Trade = in.Trade
			existing.Classification = in.Classification
			existing.City = in.City
			existing.State = in.State
			existing.Phone = in.Phone
			if in.Website != nil {
				existing.Website = in.Website
			}
			written++
			continue
		}
		in.ID = newID()
		in.Email = nil
		in.EmailConfidence = nil
		in.EmailVerified = false
		in.EnrichmentStatus = model.LeadEnrichmentPending
		in.CreatedAt = now
		s.leads = append(s.leads, &in)
		written++
	}
	return written, nil
}

func (s LeadRepo) findLead(source model.LeadSource, license string) *model.Lead {
	for _, l := range s.leads {
		if l.Source == source && strings.EqualFold(l.LicenseNumber, license) {
			return l
		}
	}
	return nil
}

// UpdateEmail stores the outcome of an enrichment or verification on a lead.
func (s LeadRepo) UpdateEmail(ctx context.Context, upd model.LeadEmailUpdate) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.leads {
		if l.ID != upd.LeadID {
			continue
		}
		if upd.Email != nil {
			l.Email = ptr(*upd.Email)
		}
		if upd.Confidence != nil {
			l.EmailConfidence = ptr(*upd.Confidence)
		}
		l.EmailVerified = upd.Verified
		l.EnrichmentStatus = upd.Status
		return nil
	}
	return data.ErrLeadNotFound
}

// Stats counts leads by enrichment state.
func (s LeadRepo) Stats(ctx context.Context) (*model.LeadStats, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var st model.LeadStats
	for _, l := range s.leads {
		st.Total++
		switch l.EnrichmentStatus {
		case model.LeadEnrichmentPending:
			st.Pending++
		case model.LeadEnrichmentEnriched:
			st.Enriched++
		case model.LeadEnrichmentNotFound:
			st.NotFound++
		case model.LeadEnrichmentFailed:
			st.Failed++
		}
		if l.EmailVerified {
			st.Verified++
		}
	}
	return &st, nil
}
