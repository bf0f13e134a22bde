// Package devseed loads demo fixtures so a fresh mock-mode or development
// deployment has jobs, technicians and queue entries to work with.
package devseed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	apperrors "github.com/tradedispatch/dispatch-api/internal/errors"
)

// Target receives seeded rows. Seeding the same fixture twice must not duplicate it.
type Target interface {
	AddJob(ctx context.Context, job model.Job) (string, error)
	AddTechnician(ctx context.Context, tech model.Technician) (string, error)
	AddTarget(ctx context.Context, target model.EnrichmentTarget) (string, error)
	AddReply(ctx context.Context, reply model.OutboundReply) (string, error)
}

// Deps bundles the stores fixtures are written to.
type Deps struct {
	Target Target
	Leads  core.LeadRepository // Optional: lead staging table
	SLA    core.SLARepository  // Optional: starts timers on the first demo job
	Logger *slog.Logger
}

// Fixture IDs are fixed so repeated seeding is idempotent.
const (
	JobHVAC       = "job-demo-hvac"
	JobPlumbing   = "job-demo-plumbing"
	JobElectrical = "job-demo-electrical"

	TargetCoolAir   = "6d3c1a58-2f47-4d44-9a63-0b8f1f5c0a01"
	TargetPipeWorks = "6d3c1a58-2f47-4d44-9a63-0b8f1f5c0a02"
	TargetNoSite    = "6d3c1a58-2f47-4d44-9a63-0b8f1f5c0a03"

	ReplyQuote    = "9b1e7c20-41a2-4f3e-8d6b-2a7c5e9d0b01"
	ReplyFollowUp = "9b1e7c20-41a2-4f3e-8d6b-2a7c5e9d0b02"
)

// DemoSLA is the budget the first demo job starts with.
var DemoSLA = model.SLAConfig{Dispatch: 15, Assignment: 30, Arrival: 120, Completion: 240}

// Run seeds every fixture group. Individual failures are logged and counted.
func Run(ctx context.Context, deps Deps) error {
	if deps.Target == nil {
		return fmt.Errorf("seed target is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	failures := 0
	failures += seedJobs(ctx, deps.Target, logger)
	failures += seedTechnicians(ctx, deps.Target, logger)
	failures += seedTargets(ctx, deps.Target, logger)
	failures += seedReplies(ctx, deps.Target, logger)
	if deps.Leads != nil {
		failures += seedLeads(ctx, deps.Leads, logger)
	}
	if deps.SLA != nil {
		failures += seedTimers(ctx, deps.SLA, logger)
	}
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func seedJobs(ctx context.Context, target Target, logger *slog.Logger) int {
	failures := 0
	for _, job := range defaultJobs() {
		if _, err := target.AddJob(ctx, job); err != nil {
			logger.ErrorContext(ctx, "failed to seed job", "job_id", job.ID, "error", err)
			failures++
			continue
		}
		logger.InfoContext(ctx, "seeded job", "job_id", job.ID, "trade", job.Trade)
	}
	return failures
}

func defaultJobs() []model.Job {
	return []model.Job{
		{
			ID:          JobHVAC,
			Trade:       "hvac",
			Urgency:     "emergency",
			Description: "AC unit blowing warm air, tenant reports 88F indoors",
			Address:     "1100 Congress Ave",
			City:        "Austin",
			State:       "TX",
			Zip:         "78701",
			Latitude:    floatPtr(30.2747),
			Longitude:   floatPtr(-97.7404),
			Budget:      decimal.NewNullDecimal(decimal.NewFromInt(450)),
		},
		{
			ID:          JobPlumbing,
			Trade:       "plumbing",
			Urgency:     "standard",
			Description: "Slow drain in unit 4B kitchen sink",
			Address:     "2500 Elm St",
			City:        "Dallas",
			State:       "TX",
			Zip:         "75226",
		},
		{
			ID:          JobElectrical,
			Trade:       "electrical",
			Urgency:     "urgent",
			Description: "Breaker trips when dryer runs",
			Address:     "800 Bagby St",
			City:        "Houston",
			State:       "TX",
			Zip:         "77002",
			Budget:      decimal.NewNullDecimal(decimal.NewFromInt(300)),
		},
	}
}

func seedTechnicians(ctx context.Context, target Target, logger *slog.Logger) int {
	failures := 0
	for _, tech := range defaultTechnicians() {
		if _, err := target.AddTechnician(ctx, tech); err != nil {
			logger.ErrorContext(ctx, "failed to seed technician", "name", tech.Name, "error", err)
			failures++
		}
	}
	return failures
}

func defaultTechnicians() []model.Technician {
	return []model.Technician{
		{
			ID: "tech-demo-1", Name: "Maria Lopez", Email: stringPtr("maria@lopezhvac.example"),
			SignedUp: boolPtr(true), Trade: "hvac", City: "Austin", State: "TX",
			Latitude: floatPtr(30.2672), Longitude: floatPtr(-97.7431), RadiusMi: 40,
		},
		{
			ID: "tech-demo-2", Name: "Dan Whitfield", Email: stringPtr("dan@whitfieldair.example"),
			SignedUp: boolPtr(false), Trade: "HVAC", City: "Round Rock", State: "TX",
			Latitude: floatPtr(30.5083), Longitude: floatPtr(-97.6789), RadiusMi: 30,
		},
		{
			ID: "tech-demo-3", Name: "Priya Shah", Trade: "hvac", City: "Austin", State: "TX",
		},
		{
			ID: "tech-demo-4", Name: "Carl Benson", Email: stringPtr("carl@bensonplumbing.example"),
			SignedUp: boolPtr(true), Trade: "plumbing", City: "Dallas", State: "TX",
		},
		{
			ID: "tech-demo-5", Name: "Ray Ortiz", Email: stringPtr("ray@ortizelectric.example"),
			Trade: "electrical", City: "Houston", State: "TX",
		},
	}
}

func seedTargets(ctx context.Context, target Target, logger *slog.Logger) int {
	failures := 0
	targets := []model.EnrichmentTarget{
		{
			ID: TargetCoolAir, BusinessName: "Cool Air Mechanical", ContactName: "Jamie Fox",
			Website: stringPtr("https://www.coolairmech.example"), Trade: "hvac",
		},
		{
			ID: TargetPipeWorks, BusinessName: "PipeWorks LLC", ContactName: "Sam Reed",
			Website: stringPtr("pipeworks.example"), Trade: "plumbing",
		},
		{
			ID: TargetNoSite, BusinessName: "Bright Spark Electric", ContactName: "Lee Park", Trade: "electrical",
		},
	}
	for _, t := range targets {
		if _, err := target.AddTarget(ctx, t); err != nil {
			logger.ErrorContext(ctx, "failed to seed enrichment target", "business", t.BusinessName, "error", err)
			failures++
		}
	}
	return failures
}

func seedReplies(ctx context.Context, target Target, logger *slog.Logger) int {
	failures := 0
	replies := []model.OutboundReply{
		{
			ID: ReplyQuote, ToEmail: "pm@oakridge.example", Subject: "Re: HVAC quote for Oak Ridge",
			Body: "Thanks for reaching out. A technician can be on site tomorrow morning.",
		},
		{
			ID: ReplyFollowUp, ToEmail: "owner@elmstreet.example", Subject: "Re: drain repair follow-up",
			Body: "Following up on the kitchen drain repair completed last week.",
		},
	}
	for _, r := range replies {
		if _, err := target.AddReply(ctx, r); err != nil {
			logger.ErrorContext(ctx, "failed to seed reply", "to", r.ToEmail, "error", err)
			failures++
		}
	}
	return failures
}

func seedLeads(ctx context.Context, repo core.LeadRepository, logger *slog.Logger) int {
	leads := []model.Lead{
		{
			Source: model.LeadSourceCalifornia, LicenseNumber: "1045521", BusinessName: "Golden State Heating",
			ContactName: "Alex Rivera", Trade: "hvac", Classification: "C20", City: "Fresno", State: "CA",
			Phone: "5595550101", Website: stringPtr("goldenstateheating.example"),
		},
		{
			Source: model.LeadSourceCalifornia, LicenseNumber: "998812", BusinessName: "Bay Drain Pros",
			ContactName: "Kim Nguyen", Trade: "plumbing", Classification: "C36", City: "Oakland", State: "CA",
			Phone: "5105550144",
		},
		{
			Source: model.LeadSourceFlorida, LicenseNumber: "CAC1818001", BusinessName: "Sunshine Air",
			ContactName: "Jordan Blake", Trade: "hvac", Classification: "CAC", City: "Tampa", State: "FL",
			Phone: "8135550177", Website: stringPtr("https://sunshineair.example"),
		},
	}
	n, err := repo.UpsertBatch(ctx, leads)
	if err != nil {
		logger.ErrorContext(ctx, "failed to seed leads", "error", err)
		return 1
	}
	logger.InfoContext(ctx, "seeded leads", "count", n)
	return 0
}

func seedTimers(ctx context.Context, repo core.SLARepository, logger *slog.Logger) int {
	_, err := repo.CreateTimers(ctx, core.CreateSLATimersParams{JobID: JobHVAC, Config: DemoSLA})
	switch {
	case err == nil:
		logger.InfoContext(ctx, "started demo sla timers", "job_id", JobHVAC)
	case apperrors.IsConflict(apperrors.MapDBError(err)):
		logger.InfoContext(ctx, "demo sla timers already running", "job_id", JobHVAC)
	default:
		logger.ErrorContext(ctx, "failed to start demo sla timers", "job_id", JobHVAC, "error", err)
		return 1
	}
	return 0
}

func boolPtr(b bool) *bool        { return &b }
func stringPtr(s string) *string  { return &s }
func floatPtr(f float64) *float64 { return &f }
