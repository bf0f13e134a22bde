//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// JobStatus represents the lifecycle state of a work order.
type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusDispatched JobStatus = "dispatched"
	JobStatusAssigned   JobStatus = "assigned"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// Job is a work order that needs a matched technician.
type Job struct {
	ID           string              `json:"id"`
	Trade        string              `json:"trade"`
	Urgency      string              `json:"urgency"`
	Description  string              `json:"description"`
	RawText      *string             `json:"raw_text,omitempty"`
	Address      string              `json:"address"`
	City         string              `json:"city"`
	State        string              `json:"state"`
	Zip          string              `json:"zip"`
	Latitude     *float64            `json:"latitude,omitempty"`
	Longitude    *float64            `json:"longitude,omitempty"`
	Budget       decimal.NullDecimal `json:"budget"`
	ScheduledFor *time.Time          `json:"scheduled_for,omitempty"`
	Status       JobStatus           `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
}

// Location returns a human readable "City, ST" string, falling back to the street address.
func (j *Job) Location() string {
	city := strings.TrimSpace(j.City)
	state := strings.TrimSpace(j.State)
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	default:
		return strings.TrimSpace(j.Address)
	}
}

// BudgetDisplay renders the budget as a dollar string, or "Negotiable" when unset.
func (j *Job) BudgetDisplay() string {
	if !j.Budget.Valid {
		return "Negotiable"
	}
	return "$" + j.Budget.Decimal.StringFixed(2)
}

// ScheduleDisplay renders the scheduled time, or "ASAP" when unset.
func (j *Job) ScheduleDisplay() string {
	if j.ScheduledFor == nil {
		return "ASAP"
	}
	return j.ScheduledFor.UTC().Format("Mon Jan 2, 3:04 PM MST")
}

// Candidate is a technician returned by the matching procedure for a job.
type Candidate struct {
	TechnicianID string  `json:"technician_id"`
	Name         string  `json:"name"`
	Email        *string `json:"email,omitempty"`
	SignedUp     *bool   `json:"signed_up,omitempty"`
	Trade        string  `json:"trade"`
	DistanceMi   float64 `json:"distance_miles"`
}

// HasEmail reports whether the candidate can be contacted by email.
func (c Candidate) HasEmail() bool {
	return c.Email != nil && strings.TrimSpace(*c.Email) != ""
}

// IsWarm reports whether the candidate previously signed up.
// A missing flag counts as not signed up.
func (c Candidate) IsWarm() bool {
	return c.SignedUp != nil && *c.SignedUp
}

// ParsedJob is the structured result of parsing a free-text job request.
type ParsedJob struct {
	TradeNeeded  string   `json:"trade_needed"`
	Urgency      string   `json:"urgency"`
	Address      string   `json:"address"`
	ScheduleHint string   `json:"schedule_hint,omitempty"`
	Description  string   `json:"description"`
	Keywords     []string `json:"keywords,omitempty"`
}

// GeoResult is a geocoded location.
type GeoResult struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	Zip              string  `json:"zip,omitempty"`
	Provider         string  `json:"provider"`
}

// ParseJobResult is returned by the job parse endpoint.
type ParseJobResult struct {
	JobID      string     `json:"job_id"`
	ParsedData ParsedJob  `json:"parsed_data"`
	GeoData    *GeoResult `json:"geo_data"`
}
