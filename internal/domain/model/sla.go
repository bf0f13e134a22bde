//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// SLAStage is one of the sequential phases of job fulfillment.
type SLAStage string

const (
	SLAStageDispatch   SLAStage = "dispatch"
	SLAStageAssignment SLAStage = "assignment"
	SLAStageArrival    SLAStage = "arrival"
	SLAStageCompletion SLAStage = "completion"
)

// SLAStages returns every stage in fulfillment order.
func SLAStages() []SLAStage {
	return []SLAStage{SLAStageDispatch, SLAStageAssignment, SLAStageArrival, SLAStageCompletion}
}

// Valid returns true if the stage is one of the known stages.
func (s SLAStage) Valid() bool {
	switch s {
	case SLAStageDispatch, SLAStageAssignment, SLAStageArrival, SLAStageCompletion:
		return true
	default:
		return false
	}
}

// String returns the string representation of the stage.
func (s SLAStage) String() string {
	return string(s)
}

// ParseSLAStage normalizes and validates a stage name.
func ParseSLAStage(v string) (SLAStage, error) {
	stage := SLAStage(strings.ToLower(strings.TrimSpace(v)))
	if !stage.Valid() {
		return "", errors.New("stage must be one of: dispatch, assignment, arrival, completion")
	}
	return stage, nil
}

// SLATimer tracks the time budget of one stage of one job.
// StartedAt is nil while the stage has not been entered yet.
type SLATimer struct {
	ID            string     `json:"id"                     db:"id"`
	JobID         string     `json:"job_id"                 db:"job_id"`
	Stage         SLAStage   `json:"stage"                  db:"stage"`
	TargetMinutes int        `json:"target_minutes"         db:"target_minutes"`
	StartedAt     *time.Time `json:"started_at"             db:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Breached      bool       `json:"breached"               db:"breached"`
	BreachTime    *time.Time `json:"breach_time,omitempty"  db:"breach_time"`
	CreatedAt     time.Time  `json:"created_at"             db:"created_at"`
}

// SLAAlertType distinguishes approaching-deadline warnings from breaches.
type SLAAlertType string

const (
	SLAAlertTypeWarning SLAAlertType = "warning"
	SLAAlertTypeBreach  SLAAlertType = "breach"
)

// Valid returns true if the alert type is known.
func (t SLAAlertType) Valid() bool {
	return t == SLAAlertTypeWarning || t == SLAAlertTypeBreach
}

// SLAAlert is a notification recorded when a timer crosses a threshold.
type SLAAlert struct {
	ID           string       `json:"id"           db:"id"`
	JobID        string       `json:"job_id"       db:"job_id"`
	AlertType    SLAAlertType `json:"alert_type"   db:"alert_type"`
	Stage        SLAStage     `json:"stage"        db:"stage"`
	Message      string       `json:"message"      db:"message"`
	SentAt       time.Time    `json:"sent_at"      db:"sent_at"`
	Acknowledged bool         `json:"acknowledged" db:"acknowledged"`
}

// SLAConfig holds per-stage budgets in minutes.
type SLAConfig struct {
	Dispatch   int `json:"dispatch"   yaml:"dispatch"`
	Assignment int `json:"assignment" yaml:"assignment"`
	Arrival    int `json:"arrival"    yaml:"arrival"`
	Completion int `json:"completion" yaml:"completion"`
}

// Minutes returns the budget for the given stage, or 0 for an unknown stage.
func (c SLAConfig) Minutes(stage SLAStage) int {
	switch stage {
	case SLAStageDispatch:
		return c.Dispatch
	case SLAStageAssignment:
		return c.Assignment
	case SLAStageArrival:
		return c.Arrival
	case SLAStageCompletion:
		return c.Completion
	default:
		return 0
	}
}

// Validate ensures every stage has a positive budget.
func (c SLAConfig) Validate() error {
	for _, stage := range SLAStages() {
		if c.Minutes(stage) <= 0 {
			return errors.New("sla minutes must be at least 1 for stage " + stage.String())
		}
	}
	return nil
}

// SLAStatus is the display state of a timer.
type SLAStatus string

const (
	SLAStatusOnTime    SLAStatus = "on_time"
	SLAStatusWarning   SLAStatus = "warning"
	SLAStatusBreached  SLAStatus = "breached"
	SLAStatusCompleted SLAStatus = "completed"
)

// SLATimerView is a timer with its projected status at a point in time.
type SLATimerView struct {
	SLATimer
	Status           SLAStatus `json:"status"`
	RemainingMinutes float64   `json:"remaining_minutes"`
	ProgressPercent  float64   `json:"progress_percent"`
	Overdue          bool      `json:"overdue"`
}

// SLASnapshot is the full SLA state of a job as shown to clients.
type SLASnapshot struct {
	JobID       string         `json:"job_id"`
	Timers      []SLATimerView `json:"timers"`
	Alerts      []*SLAAlert    `json:"alerts"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// StartSLATimersRequest starts the four timers of a job.
// Override fields that are zero keep the resolved preset.
type StartSLATimersRequest struct {
	JobID    string     `json:"-"`
	Trade    string     `json:"trade"`
	Urgency  string     `json:"urgency"`
	Override *SLAConfig `json:"override,omitempty"`
}
