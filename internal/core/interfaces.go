package core

import (
	"context"
	"time"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// JobRepository defines the interface for work order data operations.
type JobRepository interface {
	GetByID(ctx context.Context, id string) (*model.Job, error)
	// FindMatchingTechnicians calls the find_matching_technicians procedure.
	FindMatchingTechnicians(ctx context.Context, jobID string) ([]model.Candidate, error)
	ApplyParse(ctx context.Context, params ApplyJobParseParams) (*model.Job, error)
}

// ApplyJobParseParams groups the parsed fields written back to a job.
type ApplyJobParseParams struct {
	JobID   string
	RawText string
	Parsed  model.ParsedJob
	Geo     *model.GeoResult
}

// SLARepository defines the interface for SLA timer and alert data operations.
type SLARepository interface {
	// ListTimers returns a job's timers in creation order.
	ListTimers(ctx context.Context, jobID string) ([]*model.SLATimer, error)
	// ListAlerts returns a job's alerts, most recent first.
	ListAlerts(ctx context.Context, jobID string) ([]*model.SLAAlert, error)
	// CreateTimers inserts one timer per stage; only the dispatch timer starts at startedAt.
	CreateTimers(ctx context.Context, params CreateSLATimersParams) ([]*model.SLATimer, error)
	// CompleteStage calls the complete_sla_stage procedure.
	CompleteStage(ctx context.Context, jobID string, stage model.SLAStage) error
	AcknowledgeAlert(ctx context.Context, alertID string) (*model.SLAAlert, error)

	// ListActiveTimers returns started timers that are neither completed nor breached.
	ListActiveTimers(ctx context.Context, limit int) ([]*model.SLATimer, error)
	// MarkBreached flips breached on an active timer. Returns false if the timer was no longer active.
	MarkBreached(ctx context.Context, timerID string, at time.Time) (bool, error)
	// RecordAlert inserts an alert unless one exists for (job, stage, type). Returns true when inserted.
	RecordAlert(ctx context.Context, alert *model.SLAAlert) (bool, error)

	// ListenSLAChanges calls onChange with the job id of every timer or alert change
	// until ctx is done or the listener fails. listening runs once it is registered.
	ListenSLAChanges(ctx context.Context, listening func(), onChange func(jobID string)) error
}

// CreateSLATimersParams groups parameters for SLARepository.CreateTimers.
type CreateSLATimersParams struct {
	JobID     string
	Config    model.SLAConfig
	StartedAt time.Time
}

// OutreachRepository defines the interface for dispatch bookkeeping.
type OutreachRepository interface {
	Create(ctx context.Context, jobID string, totalRecipients int) (*model.WorkOrderOutreach, error)
	GetByID(ctx context.Context, id string) (*model.WorkOrderOutreach, error)
	CreateRecipient(ctx context.Context, req model.CreateRecipientRequest) (*model.OutreachRecipient, error)
	MarkRecipientSent(ctx context.Context, recipientID string, at time.Time) error
	MarkRecipientFailed(ctx context.Context, recipientID, errMsg string) error
	// RefreshStats calls the refresh_outreach_stats procedure.
	RefreshStats(ctx context.Context, outreachID string) error
	Finish(ctx context.Context, params FinishOutreachParams) (*model.WorkOrderOutreach, error)
}

// FinishOutreachParams groups parameters for OutreachRepository.Finish.
type FinishOutreachParams struct {
	OutreachID string
	Status     model.OutreachStatus
	At         time.Time
}

// EnrichmentRepository defines the interface for the email enrichment queue.
type EnrichmentRepository interface {
	GetTarget(ctx context.Context, id string) (*model.EnrichmentTarget, error)
	// ClaimTarget moves a pending or failed target to processing.
	ClaimTarget(ctx context.Context, id string) (*model.EnrichmentTarget, error)
	// ListClaimable returns IDs of pending targets and failed targets under maxAttempts.
	ListClaimable(ctx context.Context, limit, maxAttempts int) ([]string, error)
	CompleteTarget(ctx context.Context, params model.CompleteEnrichmentParams) error
	// FailTarget marks the target failed, increments attempts and stores the error.
	FailTarget(ctx context.Context, id, errMsg string) error
	CreateColdLead(ctx context.Context, lead *model.ColdLead) (*model.ColdLead, error)
	MarkColdLeadPushed(ctx context.Context, id string, at time.Time) error
}

// LeadRepository defines the interface for the license-board lead staging table.
type LeadRepository interface {
	List(ctx context.Context, opts model.LeadListOptions) ([]*model.Lead, error)
	// ExistingLicenseNumbers returns which of numbers already exist for source.
	ExistingLicenseNumbers(
		ctx context.Context,
		source model.LeadSource,
		numbers []string,
	) (map[string]struct{}, error)
	// UpsertBatch inserts leads keyed by (source, license_number) and returns rows written.
	UpsertBatch(ctx context.Context, leads []model.Lead) (int, error)
	UpdateEmail(ctx context.Context, upd model.LeadEmailUpdate) error
	Stats(ctx context.Context) (*model.LeadStats, error)
}

// ReplyRepository defines the interface for queued outbound replies.
type ReplyRepository interface {
	GetByID(ctx context.Context, id string) (*model.OutboundReply, error)
	// Transition moves a reply from params.From (pending when empty) to params.Status.
	// A reply in any other status yields data.ErrReplyNotPending.
	Transition(ctx context.Context, params ReplyTransitionParams) (*model.OutboundReply, error)
}

// ReplyTransitionParams groups parameters for ReplyRepository.Transition.
type ReplyTransitionParams struct {
	ID     string
	From   model.ReplyStatus
	Status model.ReplyStatus
	At     *time.Time
	Error  *string
}

// FromStatus returns the status the transition requires, pending by default.
func (p ReplyTransitionParams) FromStatus() model.ReplyStatus {
	if p.From == "" {
		return model.ReplyStatusPending
	}
	return p.From
}
