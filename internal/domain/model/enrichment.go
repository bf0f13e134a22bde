//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// EnrichmentStatus is the state of an enrichment target.
type EnrichmentStatus string

const (
	EnrichmentStatusPending    EnrichmentStatus = "pending"
	EnrichmentStatusProcessing EnrichmentStatus = "processing"
	EnrichmentStatusCompleted  EnrichmentStatus = "completed"
	EnrichmentStatusFailed     EnrichmentStatus = "failed"
)

// Terminal reports whether no further transition is expected.
func (s EnrichmentStatus) Terminal() bool {
	return s == EnrichmentStatusCompleted || s == EnrichmentStatusFailed
}

// EnrichmentTarget is a business queued for email discovery.
type EnrichmentTarget struct {
	ID            string           `json:"id"                   db:"id"`
	BusinessName  string           `json:"business_name"        db:"business_name"`
	ContactName   string           `json:"contact_name"         db:"contact_name"`
	Website       *string          `json:"website,omitempty"    db:"website"`
	Domain        *string          `json:"domain,omitempty"     db:"domain"`
	Trade         string           `json:"trade"                db:"trade"`
	Email         *string          `json:"email,omitempty"      db:"email"`
	EmailVerified bool             `json:"email_verified"       db:"email_verified"`
	Status        EnrichmentStatus `json:"status"               db:"status"`
	Attempts      int              `json:"attempts"             db:"attempts"`
	EmailFound    bool             `json:"email_found"          db:"email_found"`
	LastError     *string          `json:"last_error,omitempty" db:"last_error"`
	UpdatedAt     time.Time        `json:"updated_at"           db:"updated_at"`
}

// HasVerifiedEmail reports whether the target already carries a verified address.
func (t *EnrichmentTarget) HasVerifiedEmail() bool {
	return t.EmailVerified && t.Email != nil && *t.Email != ""
}

// CompleteEnrichmentParams records the terminal success state of a target.
type CompleteEnrichmentParams struct {
	TargetID      string
	Domain        string
	Email         *string
	EmailVerified bool
	EmailFound    bool
}

// ColdLead is a verified contact copied out of the enrichment queue.
type ColdLead struct {
	ID           string     `json:"id"                  db:"id"`
	TargetID     string     `json:"target_id"           db:"target_id"`
	Email        string     `json:"email"               db:"email"`
	Name         string     `json:"name"                db:"name"`
	BusinessName string     `json:"business_name"       db:"business_name"`
	Trade        string     `json:"trade"               db:"trade"`
	CampaignID   string     `json:"campaign_id"         db:"campaign_id"`
	PushedAt     *time.Time `json:"pushed_at,omitempty" db:"pushed_at"`
	CreatedAt    time.Time  `json:"created_at"          db:"created_at"`
}

// EnrichEmailsRequest is the body of the enrich-emails function.
type EnrichEmailsRequest struct {
	TargetID string `json:"target_id" validate:"required"`
}

// EnrichmentResult summarizes one run of the enrichment state machine.
type EnrichmentResult struct {
	Success    bool             `json:"success"`
	TargetID   string           `json:"target_id"`
	Status     EnrichmentStatus `json:"status"`
	EmailFound bool             `json:"email_found"`
	Email      string           `json:"email,omitempty"`
	Verified   bool             `json:"verified"`
	ColdLeadID string           `json:"cold_lead_id,omitempty"`
	CampaignID string           `json:"campaign_id,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// EmailCandidate is an address returned by a domain search or finder.
type EmailCandidate struct {
	Value      string `json:"value"`
	Confidence int    `json:"confidence"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Position   string `json:"position,omitempty"`
}

// BestCandidate returns the highest-confidence candidate, first wins on ties.
func BestCandidate(cands []EmailCandidate) (EmailCandidate, bool) {
	var best EmailCandidate
	found := false
	for _, c := range cands {
		if c.Value == "" {
			continue
		}
		if !found || c.Confidence > best.Confidence {
			best = c
			found = true
		}
	}
	return best, found
}

// VerificationStatus is the deliverability verdict of an email verifier.
type VerificationStatus string

const (
	VerificationValid      VerificationStatus = "valid"
	VerificationInvalid    VerificationStatus = "invalid"
	VerificationAcceptAll  VerificationStatus = "accept_all"
	VerificationWebmail    VerificationStatus = "webmail"
	VerificationDisposable VerificationStatus = "disposable"
	VerificationUnknown    VerificationStatus = "unknown"
)

// EmailVerification is the verifier's verdict for one address.
type EmailVerification struct {
	Email  string             `json:"email"`
	Status VerificationStatus `json:"status"`
	Score  int                `json:"score"`
}

// Deliverable reports whether the address is safe to send to.
func (v EmailVerification) Deliverable() bool {
	return v.Status == VerificationValid || v.Status == VerificationWebmail
}

// AccountInfo reports the remaining request credits of an enrichment provider.
type AccountInfo struct {
	Plan              string `json:"plan"`
	SearchesAvailable int    `json:"searches_available"`
	VerifyAvailable   int    `json:"verifications_available"`
}
