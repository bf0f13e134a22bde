package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/data"
	"github.com/tradedispatch/dispatch-api/internal/domain/leads"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	"github.com/tradedispatch/dispatch-api/internal/domain/outreach"
	apperrors "github.com/tradedispatch/dispatch-api/internal/errors"
	"github.com/tradedispatch/dispatch-api/internal/observability/metrics"
	"github.com/tradedispatch/dispatch-api/internal/observability/statsd"
)

const domainSearchLimit = 10

// EnrichmentServiceOptions groups dependencies for EnrichmentService.
type EnrichmentServiceOptions struct {
	Repo      core.EnrichmentRepository // Required: enrichment queue
	Searcher  core.DomainSearcher       // Required: lists addresses of a domain
	Verifier  core.EmailVerifier        // Required: deliverability check
	Outreach  core.ColdOutreach         // Required: campaign push for verified contacts
	Campaigns *outreach.Catalog         // Optional: trade to campaign map; pushes are skipped without it
	Clock     Clock                     // Optional: defaults to the system clock
	Logger    *slog.Logger              // Optional: structured logger
	Metrics   statsd.Sink               // Optional: metrics sink
}

// EnrichmentService drives enrichment targets from pending to completed or failed.
type EnrichmentService struct {
	repo      core.EnrichmentRepository
	searcher  core.DomainSearcher
	verifier  core.EmailVerifier
	outreach  core.ColdOutreach
	campaigns *outreach.Catalog
	clock     Clock
	logger    *slog.Logger
	metrics   statsd.Sink
}

// NewEnrichmentService constructs a new EnrichmentService.
func NewEnrichmentService(opts EnrichmentServiceOptions) (*EnrichmentService, error) {
	switch {
	case opts.Repo == nil:
		return nil, errors.New("EnrichmentRepository is required")
	case opts.Searcher == nil:
		return nil, errors.New("domain searcher is required")
	case opts.Verifier == nil:
		return nil, errors.New("email verifier is required")
	case opts.Outreach == nil:
		return nil, errors.New("cold outreach provider is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &EnrichmentService{
		repo:      opts.Repo,
		searcher:  opts.Searcher,
		verifier:  opts.Verifier,
		outreach:  opts.Outreach,
		campaigns: opts.Campaigns,
		clock:     clockOrDefault(opts.Clock),
		logger:    logger.With("component", "enrichment_service"),
		metrics:   opts.Metrics,
	}, nil
}

// Enrich claims a target and runs it to a terminal state. A provider failure marks
// the target failed and is returned as an upstream error.
func (s *EnrichmentService) Enrich(ctx context.Context, targetID string) (*model.EnrichmentResult, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return nil, apperrors.ValidationField("target_id", "target_id is required")
	}

	target, err := s.repo.ClaimTarget(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("claim enrichment target: %w", err)
	}

	start := time.Now()
	res, err := s.process(ctx, target)
	if err != nil {
		s.emit(model.EnrichmentStatusFailed, time.Since(start), err)
		if failErr := s.repo.FailTarget(ctx, target.ID, err.Error()); failErr != nil {
			s.logger.ErrorContext(ctx, "mark enrichment target failed", "target_id", target.ID, "error", failErr)
		}
		s.logger.WarnContext(ctx, "enrichment failed", "target_id", target.ID, "error", err)
		return nil, apperrors.Upstream(err, "email enrichment failed")
	}

	s.emit(model.EnrichmentStatusCompleted, time.Since(start), nil)
	s.logger.InfoContext(ctx, "enrichment completed",
		"target_id", target.ID,
		"email_found", res.EmailFound,
		"verified", res.Verified,
	)
	return res, nil
}

func (s *EnrichmentService) process(ctx context.Context, target *model.EnrichmentTarget) (*model.EnrichmentResult, error) {
	res := &model.EnrichmentResult{
		Success:  true,
		TargetID: target.ID,
		Status:   model.EnrichmentStatusCompleted,
	}

	domain := resolveTargetDomain(target)
	var (
		email    string
		verified bool
	)
	switch {
	case target.HasVerifiedEmail():
		email = strings.TrimSpace(*target.Email)
		verified = true
		if domain == "" {
			domain = leads.DomainFromEmail(email)
		}
	case domain == "":
		return res, s.complete(ctx, target.ID, "", nil, false)
	default:
		cands, err := s.searcher.SearchDomain(ctx, core.DomainSearchQuery{
			Domain:  domain,
			Company: target.BusinessName,
			Limit:   domainSearchLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("domain search %s: %w", domain, err)
		}
		best, ok := model.BestCandidate(cands)
		if !ok {
			return res, s.complete(ctx, target.ID, domain, nil, false)
		}
		email = best.Value
		v, err := s.verifier.VerifyEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("verify %s: %w", email, err)
		}
		verified = v != nil && v.Deliverable()
	}

	res.EmailFound = true
	res.Email = email
	res.Verified = verified

	if verified {
		lead, campaignID, err := s.promote(ctx, target, email)
		if err != nil {
			return nil, err
		}
		res.ColdLeadID = lead.ID
		res.CampaignID = campaignID
	}

	if err := s.repo.CompleteTarget(ctx, model.CompleteEnrichmentParams{
		TargetID:      target.ID,
		Domain:        domain,
		Email:         &email,
		EmailVerified: verified,
		EmailFound:    true,
	}); err != nil {
		return nil, fmt.Errorf("complete enrichment target: %w", err)
	}
	return res, nil
}

func (s *EnrichmentService) complete(ctx context.Context, id, domain string, email *string, found bool) error {
	if err := s.repo.CompleteTarget(ctx, model.CompleteEnrichmentParams{
		TargetID:   id,
		Domain:     domain,
		Email:      email,
		EmailFound: found,
	}); err != nil {
		return fmt.Errorf("complete enrichment target: %w", err)
	}
	return nil
}

// promote copies a verified contact into cold_leads and pushes it to its campaign.
func (s *EnrichmentService) promote(
	ctx context.Context,
	target *model.EnrichmentTarget,
	email string,
) (*model.ColdLead, string, error) {
	campaignID, hasCampaign := s.campaigns.Resolve(target.Trade)
	lead, err := s.repo.CreateColdLead(ctx, &model.ColdLead{
		TargetID:     target.ID,
		Email:        email,
		Name:         target.ContactName,
		BusinessName: target.BusinessName,
		Trade:        target.Trade,
		CampaignID:   campaignID,
	})
	if err != nil {
		return nil, "", fmt.Errorf("create cold lead: %w", err)
	}

	if !hasCampaign {
		s.logger.WarnContext(ctx, "no campaign for trade, cold lead not pushed",
			"target_id", target.ID,
			"trade", target.Trade,
		)
		return lead, "", nil
	}
	if lead.PushedAt != nil {
		return lead, campaignID, nil
	}

	first, last := outreach.SplitName(target.ContactName)
	if err := s.outreach.AddLead(ctx, model.ColdLeadPush{
		CampaignID:  campaignID,
		Email:       email,
		FirstName:   first,
		LastName:    last,
		CompanyName: target.BusinessName,
		CustomFields: map[string]string{
			"trade":  target.Trade,
			"source": "enrichment",
		},
	}); err != nil {
		return nil, "", fmt.Errorf("push cold lead: %w", err)
	}
	if err := s.repo.MarkColdLeadPushed(ctx, lead.ID, s.clock.Now()); err != nil {
		s.logger.WarnContext(ctx, "mark cold lead pushed failed", "cold_lead_id", lead.ID, "error", err)
	}
	return lead, campaignID, nil
}

func resolveTargetDomain(t *model.EnrichmentTarget) string {
	if t.Domain != nil {
		if d := strings.ToLower(strings.TrimSpace(*t.Domain)); d != "" {
			return d
		}
	}
	if t.Website == nil {
		return ""
	}
	d, err := leads.DomainFromWebsite(*t.Website)
	if err != nil {
		return ""
	}
	return d
}

// RunResult counts one batch of the enrichment queue.
type RunResult struct {
	Claimed   int
	Completed int
	Failed    int
	Skipped   int
}

// RunPending enriches up to limit claimable targets. Targets claimed by a
// concurrent worker in the meantime are skipped.
func (s *EnrichmentService) RunPending(ctx context.Context, limit, maxAttempts int) (RunResult, error) {
	var out RunResult
	ids, err := s.repo.ListClaimable(ctx, limit, maxAttempts)
	if err != nil {
		return out, fmt.Errorf("list claimable targets: %w", err)
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		_, err := s.Enrich(ctx, id)
		switch {
		case err == nil:
			out.Claimed++
			out.Completed++
		case errors.Is(err, data.ErrTargetNotClaimable), errors.Is(err, data.ErrTargetNotFound):
			out.Skipped++
		case apperrors.IsUpstream(err):
			out.Claimed++
			out.Failed++
		default:
			return out, err
		}
	}
	return out, nil
}

func (s *EnrichmentService) emit(to model.EnrichmentStatus, d time.Duration, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.EmitTransition(s.metrics, metrics.TransitionMetric{
		Entity:     "enrichment_target",
		Transition: "processing_to_" + string(to),
		Result:     result,
		Duration:   d,
		Err:        err,
	})
}
