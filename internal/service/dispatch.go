package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	"github.com/tradedispatch/dispatch-api/internal/domain/outreach"
	apperrors "github.com/tradedispatch/dispatch-api/internal/errors"
	"github.com/tradedispatch/dispatch-api/internal/observability/metrics"
	"github.com/tradedispatch/dispatch-api/internal/observability/statsd"
)

// DispatchProviders are the two outbound channels of a dispatch.
type DispatchProviders struct {
	Warm core.WarmMailer   // Required: transactional email for signed-up technicians
	Cold core.ColdOutreach // Required: campaign tool for everyone else
}

// DispatchServiceOptions groups dependencies for DispatchService.
type DispatchServiceOptions struct {
	Jobs      core.JobRepository      // Required: job and candidate lookup
	Outreach  core.OutreachRepository // Required: outreach bookkeeping
	SLA       core.SLARepository      // Optional: completes the dispatch stage afterwards
	Providers DispatchProviders       // Required: outbound channels
	Campaigns *outreach.Catalog       // Optional: trade to campaign map; cold sends are skipped without it
	Links     outreach.Links          // Required: accept and tracking URL builder
	Lock      *core.KeyLock           // Optional: prevents concurrent dispatch of one job
	Clock     Clock                   // Optional: defaults to the system clock
	Logger    *slog.Logger            // Optional: structured logger
	Metrics   statsd.Sink             // Optional: metrics sink
}

// DispatchService fans job invitations out to matched technicians.
type DispatchService struct {
	jobs      core.JobRepository
	outreach  core.OutreachRepository
	sla       core.SLARepository
	warm      core.WarmMailer
	cold      core.ColdOutreach
	campaigns *outreach.Catalog
	links     outreach.Links
	lock      *core.KeyLock
	clock     Clock
	logger    *slog.Logger
	metrics   statsd.Sink
}

// NewDispatchService constructs a new DispatchService.
func NewDispatchService(opts DispatchServiceOptions) (*DispatchService, error) {
	switch {
	case opts.Jobs == nil:
		return nil, errors.New("JobRepository is required")
	case opts.Outreach == nil:
		return nil, errors.New("OutreachRepository is required")
	case opts.Providers.Warm == nil:
		return nil, errors.New("warm mailer is required")
	case opts.Providers.Cold == nil:
		return nil, errors.New("cold outreach provider is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &DispatchService{
		jobs:      opts.Jobs,
		outreach:  opts.Outreach,
		sla:       opts.SLA,
		warm:      opts.Providers.Warm,
		cold:      opts.Providers.Cold,
		campaigns: opts.Campaigns,
		links:     opts.Links,
		lock:      opts.Lock,
		clock:     clockOrDefault(opts.Clock),
		logger:    logger.With("component", "dispatch_service"),
		metrics:   opts.Metrics,
	}, nil
}

// sendTask is one recipient send. Tasks run in order and never abort the dispatch.
type sendTask struct {
	candidate model.Candidate
	method    model.DispatchMethod
	send      func(ctx context.Context, recipientID string) error
}

// Dispatch invites every matched technician with an email to the job.
// Only a missing job, a held dispatch lock or a failed outreach insert fail the call.
func (s *DispatchService) Dispatch(ctx context.Context, jobID string) (*model.DispatchResult, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, apperrors.ValidationField("job_id", "job_id is required")
	}

	if s.lock != nil {
		release, err := s.lock.Acquire(ctx, jobID)
		switch {
		case errors.Is(err, core.ErrLockHeld):
			return nil, apperrors.Conflictf("job %s is already being dispatched", jobID)
		case err != nil:
			s.logger.WarnContext(ctx, "dispatch lock unavailable, continuing unlocked", "job_id", jobID, "error", err)
		default:
			defer func() {
				if relErr := release(context.WithoutCancel(ctx)); relErr != nil {
					s.logger.WarnContext(ctx, "release dispatch lock failed", "job_id", jobID, "error", relErr)
				}
			}()
		}
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}

	candidates, err := s.jobs.FindMatchingTechnicians(ctx, jobID)
	if err != nil {
		s.logger.WarnContext(ctx, "find matching technicians failed", "job_id", jobID, "error", err)
		candidates = nil
	}
	warm, cold := outreach.Partition(candidates)

	record, err := s.outreach.Create(ctx, jobID, len(warm)+len(cold))
	if err != nil {
		return nil, fmt.Errorf("create outreach: %w", err)
	}

	tasks := s.buildTasks(ctx, job, warm, cold)
	results := make([]model.SendResult, 0, len(tasks))
	for _, task := range tasks {
		results = append(results, s.runTask(ctx, record.ID, job, task))
	}

	summary := model.SummarizeSends(record.ID, record.TotalRecipients, results)
	s.finish(ctx, record.ID, summary)
	s.completeDispatchStage(ctx, jobID)

	s.logger.InfoContext(ctx, "job dispatched",
		"job_id", jobID,
		"outreach_id", record.ID,
		"total_recipients", summary.TotalRecipients,
		"warm_sent", summary.WarmSent,
		"cold_sent", summary.ColdSent,
	)
	return &summary, nil
}

func (s *DispatchService) buildTasks(
	ctx context.Context,
	job *model.Job,
	warm, cold []model.Candidate,
) []sendTask {
	tasks := make([]sendTask, 0, len(warm)+len(cold))
	for _, c := range warm {
		tasks = append(tasks, sendTask{
			candidate: c,
			method:    model.DispatchMethodWarm,
			send: func(ctx context.Context, recipientID string) error {
				return s.warm.SendTemplate(ctx, model.WarmEmail{
					To:           strings.TrimSpace(*c.Email),
					TemplateData: outreach.TemplateVars(job, c, s.links, recipientID),
				})
			},
		})
	}

	if len(cold) == 0 {
		return tasks
	}
	campaignID, ok := s.campaigns.Resolve(job.Trade)
	if !ok {
		s.logger.WarnContext(ctx, "no cold campaign configured, skipping cold sends",
			"job_id", job.ID,
			"trade", job.Trade,
			"cold_candidates", len(cold),
		)
		for range cold {
			metrics.EmitSend(s.metrics, metrics.SendMetric{
				Channel: string(model.DispatchMethodCold),
				Trade:   job.Trade,
				Result:  metrics.ResultSkipped,
			})
		}
		return tasks
	}

	for _, c := range cold {
		tasks = append(tasks, sendTask{
			candidate: c,
			method:    model.DispatchMethodCold,
			send: func(ctx context.Context, recipientID string) error {
				first, last := outreach.SplitName(c.Name)
				return s.cold.AddLead(ctx, model.ColdLeadPush{
					CampaignID:   campaignID,
					Email:        strings.TrimSpace(*c.Email),
					FirstName:    first,
					LastName:     last,
					CustomFields: outreach.TemplateVars(job, c, s.links, recipientID),
				})
			},
		})
	}
	return tasks
}

func (s *DispatchService) runTask(
	ctx context.Context,
	outreachID string,
	job *model.Job,
	task sendTask,
) model.SendResult {
	email := strings.TrimSpace(*task.candidate.Email)
	res := model.SendResult{
		TechnicianID: task.candidate.TechnicianID,
		Email:        email,
		Method:       task.method,
	}

	recipient, err := s.outreach.CreateRecipient(ctx, model.CreateRecipientRequest{
		OutreachID:     outreachID,
		TechnicianID:   task.candidate.TechnicianID,
		Email:          email,
		DispatchMethod: task.method,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "create outreach recipient failed",
			"outreach_id", outreachID,
			"technician_id", task.candidate.TechnicianID,
			"error", err,
		)
		res.Err = err
		return res
	}
	res.RecipientID = recipient.ID

	start := time.Now()
	sendErr := task.send(ctx, recipient.ID)
	metric := metrics.SendMetric{
		Channel:  string(task.method),
		Trade:    job.Trade,
		Result:   metrics.ResultSuccess,
		Duration: time.Since(start),
		Err:      sendErr,
	}
	if sendErr != nil {
		metric.Result = metrics.ResultError
		metrics.EmitSend(s.metrics, metric)
		s.logger.WarnContext(ctx, "dispatch send failed",
			"outreach_id", outreachID,
			"technician_id", task.candidate.TechnicianID,
			"method", task.method,
			"error", sendErr,
		)
		res.Err = sendErr
		if markErr := s.outreach.MarkRecipientFailed(ctx, recipient.ID, sendErr.Error()); markErr != nil {
			s.logger.WarnContext(ctx, "record recipient failure failed", "recipient_id", recipient.ID, "error", markErr)
		}
		return res
	}
	metrics.EmitSend(s.metrics, metric)

	sentAt := s.clock.Now()
	if markErr := s.outreach.MarkRecipientSent(ctx, recipient.ID, sentAt); markErr != nil {
		s.logger.WarnContext(ctx, "mark recipient sent failed", "recipient_id", recipient.ID, "error", markErr)
	}
	res.Sent = true
	res.SentAt = &sentAt
	return res
}

func (s *DispatchService) finish(ctx context.Context, outreachID string, summary model.DispatchResult) {
	if err := s.outreach.RefreshStats(ctx, outreachID); err != nil {
		s.logger.WarnContext(ctx, "refresh outreach stats failed", "outreach_id", outreachID, "error", err)
	}
	if _, err := s.outreach.Finish(ctx, core.FinishOutreachParams{
		OutreachID: outreachID,
		Status:     summary.FinalStatus(),
		At:         s.clock.Now(),
	}); err != nil {
		s.logger.ErrorContext(ctx, "finish outreach failed", "outreach_id", outreachID, "error", err)
	}
}

// completeDispatchStage is best effort; a job without timers is not an error.
func (s *DispatchService) completeDispatchStage(ctx context.Context, jobID string) {
	if s.sla == nil {
		return
	}
	if err := s.sla.CompleteStage(ctx, jobID, model.SLAStageDispatch); err != nil {
		s.logger.WarnContext(ctx, "complete dispatch sla stage failed", "job_id", jobID, "error", err)
	}
}
