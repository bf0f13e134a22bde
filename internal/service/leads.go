package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/domain/leads"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	apperrors "github.com/tradedispatch/dispatch-api/internal/errors"
	"github.com/tradedispatch/dispatch-api/internal/observability/metrics"
	"github.com/tradedispatch/dispatch-api/internal/observability/statsd"
)

const (
	// ImportBatchSize is the number of leads written per upsert.
	ImportBatchSize = 100

	defaultLeadBatch = 50
)

// LeadServiceOptions groups dependencies for LeadService.
type LeadServiceOptions struct {
	Repo    core.LeadRepository // Required: lead staging table
	Intel   core.EmailIntel     // Required: finder, domain search, verifier and credit check
	Boards  *leads.Boards       // Optional: defaults to the embedded board table
	Logger  *slog.Logger        // Optional: structured logger
	Metrics statsd.Sink         // Optional: metrics sink
}

// LeadService imports license-board leads and discovers their email addresses.
type LeadService struct {
	repo    core.LeadRepository
	intel   core.EmailIntel
	boards  *leads.Boards
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewLeadService constructs a new LeadService.
func NewLeadService(opts LeadServiceOptions) (*LeadService, error) {
	if opts.Repo == nil {
		return nil, errors.New("LeadRepository is required")
	}
	if opts.Intel == nil {
		return nil, errors.New("email intel provider is required")
	}
	boards := opts.Boards
	if boards == nil {
		boards = leads.DefaultBoards()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &LeadService{
		repo:    opts.Repo,
		intel:   opts.Intel,
		boards:  boards,
		logger:  logger.With("component", "lead_service"),
		metrics: opts.Metrics,
	}, nil
}

// Import filters, de-duplicates and upserts raw license-board rows.
// A failed batch is counted in Errors and the remaining batches still run.
func (s *LeadService) Import(
	ctx context.Context,
	source model.LeadSource,
	req model.LeadImportRequest,
) (*model.LeadImportResult, error) {
	board, err := s.boards.Board(source)
	if err != nil {
		return nil, apperrors.ValidationField("source", err.Error())
	}

	existing, err := s.repo.ExistingLicenseNumbers(ctx, source, board.LicenseNumbers(req.Records))
	if err != nil {
		return nil, fmt.Errorf("load existing license numbers: %w", err)
	}

	plan := board.Plan(leads.ImportInput{
		Source:      source,
		Records:     req.Records,
		Limit:       req.Limit,
		TradeFilter: req.TradeFilter,
		Existing:    existing,
	})

	res := &model.LeadImportResult{
		Processed:   plan.Processed,
		FilteredOut: plan.FilteredOut,
		Duplicates:  plan.Duplicates,
	}
	for i, batch := range leads.Batches(plan.Leads, ImportBatchSize) {
		n, err := s.repo.UpsertBatch(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.WarnContext(ctx, "lead batch upsert failed", "source", source, "batch", i, "error", err)
			res.Errors += len(batch)
			res.ErrorDetails = append(res.ErrorDetails, fmt.Sprintf("batch %d: %v", i+1, err))
			continue
		}
		res.Imported += n
	}
	res.Success = res.Errors == 0

	s.logger.InfoContext(ctx, "leads imported",
		"source", source,
		"processed", res.Processed,
		"filtered_out", res.FilteredOut,
		"duplicates", res.Duplicates,
		"imported", res.Imported,
		"errors", res.Errors,
	)
	return res, nil
}

// Enrich discovers emails for leads. Each lead tries the email finder, then a
// domain search, then verified pattern guesses; the first hit wins.
func (s *LeadService) Enrich(ctx context.Context, req model.LeadEnrichRequest) (*model.LeadEnrichResult, error) {
	opts := model.LeadListOptions{IDs: req.LeadIDs, Source: req.Source, Limit: req.Limit}
	if len(opts.IDs) == 0 {
		opts.Status = model.LeadEnrichmentPending
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultLeadBatch
	}
	list, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}

	res := &model.LeadEnrichResult{Success: true, DryRun: req.DryRun, Results: make([]model.LeadEnrichOutcome, 0, len(list))}
	for _, lead := range list {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		start := time.Now()
		out, err := s.discover(ctx, lead)
		status := model.LeadEnrichmentEnriched
		switch {
		case err != nil:
			status = model.LeadEnrichmentFailed
			out.Error = err.Error()
			res.Failed++
		case out.Email == "":
			status = model.LeadEnrichmentNotFound
			res.NotFound++
		default:
			res.Found++
		}
		res.Processed++
		s.emitLead("enrich", status, time.Since(start), err)

		if !req.DryRun {
			upd := model.LeadEmailUpdate{LeadID: lead.ID, Status: status, Verified: out.Verified}
			if out.Email != "" {
				email, conf := out.Email, out.Confidence
				upd.Email = &email
				upd.Confidence = &conf
			}
			if uerr := s.repo.UpdateEmail(ctx, upd); uerr != nil {
				s.logger.WarnContext(ctx, "store lead email failed", "lead_id", lead.ID, "error", uerr)
				if out.Error == "" {
					out.Error = uerr.Error()
				}
			}
		}
		res.Results = append(res.Results, out)
	}
	return res, nil
}

func (s *LeadService) discover(ctx context.Context, lead *model.Lead) (model.LeadEnrichOutcome, error) {
	out := model.LeadEnrichOutcome{LeadID: lead.ID}
	first, last := lead.FirstLast()
	domain := leadDomain(lead)

	if first != "" {
		cand, err := s.intel.FindEmail(ctx, core.FindEmailQuery{
			Domain:    domain,
			Company:   lead.BusinessName,
			FirstName: first,
			LastName:  last,
		})
		if err != nil {
			return out, fmt.Errorf("email finder: %w", err)
		}
		if cand != nil && cand.Value != "" {
			out.Email, out.Confidence, out.Strategy = cand.Value, cand.Confidence, model.EnrichStrategyFinder
			return out, nil
		}
	}

	cands, err := s.intel.SearchDomain(ctx, core.DomainSearchQuery{
		Domain:  domain,
		Company: lead.BusinessName,
		Limit:   domainSearchLimit,
	})
	if err != nil {
		return out, fmt.Errorf("domain search: %w", err)
	}
	if best, ok := model.BestCandidate(cands); ok {
		out.Email, out.Confidence, out.Strategy = best.Value, best.Confidence, model.EnrichStrategyDomainSearch
		return out, nil
	}
	if domain == "" && len(cands) > 0 {
		domain = leads.DomainFromEmail(cands[0].Value)
	}

	for _, guess := range leads.GuessEmails(first, last, domain) {
		v, err := s.intel.VerifyEmail(ctx, guess)
		if err != nil {
			return out, fmt.Errorf("verify guess: %w", err)
		}
		if v != nil && v.Deliverable() {
			out.Email, out.Confidence, out.Strategy = guess, v.Score, model.EnrichStrategyGuess
			out.Verified = true
			return out, nil
		}
	}
	return out, nil
}

func leadDomain(lead *model.Lead) string {
	if lead.Website != nil {
		if d, err := leads.DomainFromWebsite(*lead.Website); err == nil {
			return d
		}
	}
	if lead.Email != nil {
		return leads.DomainFromEmail(*lead.Email)
	}
	return ""
}

// Verify looks up an email for each lead and accepts it when the finder's
// confidence reaches the threshold. Provider credits are checked first.
func (s *LeadService) Verify(ctx context.Context, req model.LeadVerifyRequest) (*model.LeadVerifyResult, error) {
	account, err := s.intel.Account(ctx)
	if err != nil {
		return nil, apperrors.Upstream(err, "check provider credits")
	}
	credits := max(account.SearchesAvailable, 0)
	if credits == 0 {
		return nil, apperrors.QuotaExceeded("no email lookup credits remaining")
	}

	opts := model.LeadListOptions{IDs: req.IDs, Limit: req.Limit}
	if len(opts.IDs) == 0 {
		opts.Status = model.LeadEnrichmentPending
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultLeadBatch
	}
	opts.Limit = min(opts.Limit, credits)

	list, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}

	threshold := req.Threshold()
	res := &model.LeadVerifyResult{Success: true, Results: make([]model.LeadVerifyOutcome, 0, len(list))}
	for _, lead := range list {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if res.Processed >= credits {
			break
		}
		res.Processed++
		out := s.verifyLead(ctx, lead, threshold, res)
		res.Results = append(res.Results, out)
	}
	res.CreditsRemaining = credits - res.Processed
	return res, nil
}

func (s *LeadService) verifyLead(
	ctx context.Context,
	lead *model.Lead,
	threshold int,
	res *model.LeadVerifyResult,
) model.LeadVerifyOutcome {
	out := model.LeadVerifyOutcome{LeadID: lead.ID}
	first, last := lead.FirstLast()

	cand, err := s.intel.FindEmail(ctx, core.FindEmailQuery{
		Domain:    leadDomain(lead),
		Company:   lead.BusinessName,
		FirstName: first,
		LastName:  last,
	})
	upd := model.LeadEmailUpdate{LeadID: lead.ID}
	switch {
	case err != nil:
		out.Error = err.Error()
		res.Failed++
		upd.Status = model.LeadEnrichmentFailed
	case cand == nil || cand.Value == "":
		res.NotFound++
		upd.Status = model.LeadEnrichmentNotFound
	default:
		email, conf := strings.TrimSpace(cand.Value), cand.Confidence
		out.Email = email
		out.Confidence = conf
		out.Verified = conf >= threshold
		if out.Verified {
			res.Verified++
		} else {
			res.Unverified++
		}
		upd.Email = &email
		upd.Confidence = &conf
		upd.Verified = out.Verified
		upd.Status = model.LeadEnrichmentEnriched
	}
	s.emitLead("verify", upd.Status, 0, err)

	if uerr := s.repo.UpdateEmail(ctx, upd); uerr != nil {
		s.logger.WarnContext(ctx, "store verified lead failed", "lead_id", lead.ID, "error", uerr)
		if out.Error == "" {
			out.Error = uerr.Error()
		}
	}
	return out
}

// Stats returns lead counts by enrichment state.
func (s *LeadService) Stats(ctx context.Context) (*model.LeadStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("lead stats: %w", err)
	}
	return stats, nil
}

func (s *LeadService) emitLead(op string, status model.LeadEnrichmentStatus, d time.Duration, err error) {
	result := metrics.ResultSuccess
	switch {
	case err != nil:
		result = metrics.ResultError
	case status == model.LeadEnrichmentNotFound:
		result = metrics.ResultNoop
	}
	metrics.EmitTransition(s.metrics, metrics.TransitionMetric{
		Entity:     "lead",
		Transition: op + "_to_" + string(status),
		Result:     result,
		Duration:   d,
		Err:        err,
	})
}
