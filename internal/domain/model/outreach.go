//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// OutreachStatus is the lifecycle state of one dispatch event.
type OutreachStatus string

const (
	OutreachStatusInProgress OutreachStatus = "in_progress"
	OutreachStatusCompleted  OutreachStatus = "completed"
	OutreachStatusFailed     OutreachStatus = "failed"
)

// DispatchMethod identifies the channel a recipient was contacted through.
type DispatchMethod string

const (
	DispatchMethodWarm DispatchMethod = "sendgrid_warm"
	DispatchMethodCold DispatchMethod = "instantly_cold"
)

// Valid returns true if the method is a known channel.
func (m DispatchMethod) Valid() bool {
	return m == DispatchMethodWarm || m == DispatchMethodCold
}

// WorkOrderOutreach records one dispatch of a job to its matched technicians.
type WorkOrderOutreach struct {
	ID              string         `json:"id"                     db:"id"`
	JobID           string         `json:"job_id"                 db:"job_id"`
	TotalRecipients int            `json:"total_recipients"       db:"total_recipients"`
	WarmSent        int            `json:"warm_sent"              db:"warm_sent"`
	ColdSent        int            `json:"cold_sent"              db:"cold_sent"`
	Status          OutreachStatus `json:"status"                 db:"status"`
	CreatedAt       time.Time      `json:"created_at"             db:"created_at"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty" db:"completed_at"`
}

// OutreachRecipient is one technician contacted during a dispatch.
type OutreachRecipient struct {
	ID             string         `json:"id"               db:"id"`
	OutreachID     string         `json:"outreach_id"      db:"outreach_id"`
	TechnicianID   string         `json:"technician_id"    db:"technician_id"`
	Email          string         `json:"email"            db:"email"`
	DispatchMethod DispatchMethod `json:"dispatch_method"  db:"dispatch_method"`
	EmailSent      bool           `json:"email_sent"       db:"email_sent"`
	SentAt         *time.Time     `json:"sent_at,omitempty" db:"sent_at"`
	Error          *string        `json:"error,omitempty"  db:"error"`
}

// CreateRecipientRequest inserts a recipient row before its send is attempted.
type CreateRecipientRequest struct {
	OutreachID     string
	TechnicianID   string
	Email          string
	DispatchMethod DispatchMethod
}

// SendResult is the outcome of one recipient send.
type SendResult struct {
	TechnicianID string
	RecipientID  string
	Email        string
	Method       DispatchMethod
	Sent         bool
	Skipped      bool
	SentAt       *time.Time
	Err          error
}

// DispatchRequest is the body of the dispatch endpoints.
type DispatchRequest struct {
	JobID string `json:"job_id" validate:"required"`
}

// DispatchResult summarizes a completed dispatch.
type DispatchResult struct {
	Success         bool   `json:"success"`
	OutreachID      string `json:"outreach_id"`
	TotalRecipients int    `json:"total_recipients"`
	WarmSent        int    `json:"warm_sent"`
	ColdSent        int    `json:"cold_sent"`
	TotalSent       int    `json:"total_sent"`
}

// SummarizeSends aggregates per-recipient outcomes into a DispatchResult.
func SummarizeSends(outreachID string, total int, results []SendResult) DispatchResult {
	out := DispatchResult{OutreachID: outreachID, TotalRecipients: total}
	for _, r := range results {
		if !r.Sent {
			continue
		}
		switch r.Method {
		case DispatchMethodWarm:
			out.WarmSent++
		case DispatchMethodCold:
			out.ColdSent++
		}
	}
	out.TotalSent = out.WarmSent + out.ColdSent
	out.Success = true
	return out
}

// FinalStatus reports the outreach status implied by the sent counts.
func (r DispatchResult) FinalStatus() OutreachStatus {
	if r.TotalSent > 0 {
		return OutreachStatusCompleted
	}
	return OutreachStatusFailed
}

// WarmEmail is the transactional invitation sent to a signed-up technician.
type WarmEmail struct {
	To           string
	TemplateData map[string]string
}

// ColdLeadPush adds a contact to an outbound campaign.
type ColdLeadPush struct {
	CampaignID   string
	Email        string
	FirstName    string
	LastName     string
	CompanyName  string
	CustomFields map[string]string
}
