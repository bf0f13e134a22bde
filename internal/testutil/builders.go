// Package testutil provides testing utilities and helpers for the dispatch service.
package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

// JobBuilder provides a fluent interface for building jobs for testing.
type JobBuilder struct {
	job *model.Job
}

// NewJob creates a JobBuilder with sensible defaults.
func NewJob(id string) *JobBuilder {
	return &JobBuilder{job: &model.Job{
		ID:          id,
		Trade:       "hvac",
		Urgency:     "urgent",
		Description: "AC not cooling",
		Address:     "123 Main St",
		City:        "Austin",
		State:       "TX",
		Zip:         "78701",
		Status:      model.JobStatusOpen,
		CreatedAt:   TestTime(),
	}}
}

// WithTrade sets the trade.
func (b *JobBuilder) WithTrade(trade string) *JobBuilder {
	b.job.Trade = trade
	return b
}

// WithUrgency sets the urgency.
func (b *JobBuilder) WithUrgency(urgency string) *JobBuilder {
	b.job.Urgency = urgency
	return b
}

// WithBudget sets the budget in dollars.
func (b *JobBuilder) WithBudget(amount string) *JobBuilder {
	b.job.Budget = decimal.NewNullDecimal(decimal.RequireFromString(amount))
	return b
}

// WithSchedule sets the scheduled time.
func (b *JobBuilder) WithSchedule(at time.Time) *JobBuilder {
	b.job.ScheduledFor = &at
	return b
}

// WithLocation sets city and state.
func (b *JobBuilder) WithLocation(city, state string) *JobBuilder {
	b.job.City, b.job.State = city, state
	return b
}

// Build returns the job.
func (b *JobBuilder) Build() *model.Job {
	j := *b.job
	return &j
}

// WarmCandidate returns a signed-up technician with an email.
func WarmCandidate(id string) model.Candidate {
	return model.Candidate{
		TechnicianID: id,
		Name:         "Warm " + id,
		Email:        StringPtr(id + "@warm.example.com"),
		SignedUp:     BoolPtr(true),
		Trade:        "hvac",
	}
}

// ColdCandidate returns a never-signed-up technician with an email.
func ColdCandidate(id string) model.Candidate {
	return model.Candidate{
		TechnicianID: id,
		Name:         "Cold " + id,
		Email:        StringPtr(id + "@cold.example.com"),
		SignedUp:     BoolPtr(false),
		Trade:        "hvac",
	}
}

// NoEmailCandidate returns a technician that cannot be contacted.
func NoEmailCandidate(id string) model.Candidate {
	return model.Candidate{TechnicianID: id, Name: "Silent " + id, SignedUp: BoolPtr(true), Trade: "hvac"}
}

// RunningTimer returns a started, active timer.
func RunningTimer(jobID string, stage model.SLAStage, target int, startedAt time.Time) *model.SLATimer {
	return &model.SLATimer{
		ID:            jobID + "-" + stage.String(),
		JobID:         jobID,
		Stage:         stage,
		TargetMinutes: target,
		StartedAt:     &startedAt,
		CreatedAt:     startedAt,
	}
}
