//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// LeadSource identifies the license board a lead was imported from.
type LeadSource string

const (
	LeadSourceCalifornia LeadSource = "california"
	LeadSourceFlorida    LeadSource = "florida"
)

// Valid returns true if the source is a supported license board.
func (s LeadSource) Valid() bool {
	return s == LeadSourceCalifornia || s == LeadSourceFlorida
}

// ParseLeadSource normalizes and validates a source name.
func ParseLeadSource(v string) (LeadSource, error) {
	s := LeadSource(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", errors.New("source must be one of: california, florida")
	}
	return s, nil
}

// LeadEnrichmentStatus is the email discovery state of a lead.
type LeadEnrichmentStatus string

const (
	LeadEnrichmentPending  LeadEnrichmentStatus = "pending"
	LeadEnrichmentEnriched LeadEnrichmentStatus = "enriched"
	LeadEnrichmentNotFound LeadEnrichmentStatus = "not_found"
	LeadEnrichmentFailed   LeadEnrichmentStatus = "failed"
)

// Lead is a licensed contractor staged from a license-board export.
type Lead struct {
	ID               string               `json:"id"                         db:"id"`
	Source           LeadSource           `json:"source"                     db:"source"`
	LicenseNumber    string               `json:"license_number"             db:"license_number"`
	BusinessName     string               `json:"business_name"              db:"business_name"`
	ContactName      string               `json:"contact_name"               db:"contact_name"`
	Trade            string               `json:"trade"                      db:"trade"`
	Classification   string               `json:"classification"             db:"classification"`
	City             string               `json:"city"                       db:"city"`
	State            string               `json:"state"                      db:"state"`
	Phone            string               `json:"phone"                      db:"phone"`
	Website          *string              `json:"website,omitempty"          db:"website"`
	Email            *string              `json:"email,omitempty"            db:"email"`
	EmailConfidence  *int                 `json:"email_confidence,omitempty" db:"email_confidence"`
	EmailVerified    bool                 `json:"email_verified"             db:"email_verified"`
	EnrichmentStatus LeadEnrichmentStatus `json:"enrichment_status"          db:"enrichment_status"`
	CreatedAt        time.Time            `json:"created_at"                 db:"created_at"`
}

// FirstLast splits the contact name into first and last parts.
func (l *Lead) FirstLast() (string, string) {
	fields := strings.Fields(l.ContactName)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], fields[len(fields)-1]
	}
}

// LeadImportRequest is the body of the lead import endpoint.
// Records are raw license-board rows keyed by column header.
type LeadImportRequest struct {
	Records     []map[string]string `json:"records"               validate:"required,min=1"`
	Limit       int                 `json:"limit,omitempty"       validate:"omitempty,min=1"`
	TradeFilter []string            `json:"tradeFilter,omitempty"`
}

// LeadImportResult summarizes one import call.
type LeadImportResult struct {
	Success      bool     `json:"success"`
	Processed    int      `json:"processed"`
	FilteredOut  int      `json:"filtered_out"`
	Duplicates   int      `json:"duplicates"`
	Imported     int      `json:"imported"`
	Errors       int      `json:"errors"`
	ErrorDetails []string `json:"error_details,omitempty"`
}

// LeadEnrichRequest is the body of the lead enrichment endpoint.
type LeadEnrichRequest struct {
	LeadIDs []string   `json:"leadIds,omitempty"`
	Source  LeadSource `json:"source,omitempty"  validate:"omitempty,oneof=california florida"`
	Limit   int        `json:"limit,omitempty"   validate:"omitempty,min=1,max=500"`
	DryRun  bool       `json:"dryRun,omitempty"`
}

// EnrichStrategy names the discovery step that produced an address.
type EnrichStrategy string

const (
	EnrichStrategyFinder       EnrichStrategy = "email_finder"
	EnrichStrategyDomainSearch EnrichStrategy = "domain_search"
	EnrichStrategyGuess        EnrichStrategy = "pattern_guess"
)

// LeadEnrichOutcome is the per-lead result of an enrichment run.
type LeadEnrichOutcome struct {
	LeadID     string         `json:"lead_id"`
	Email      string         `json:"email,omitempty"`
	Confidence int            `json:"confidence,omitempty"`
	Strategy   EnrichStrategy `json:"strategy,omitempty"`
	Verified   bool           `json:"verified"`
	Error      string         `json:"error,omitempty"`
}

// LeadEnrichResult summarizes an enrichment run.
type LeadEnrichResult struct {
	Success   bool                `json:"success"`
	DryRun    bool                `json:"dry_run"`
	Processed int                 `json:"processed"`
	Found     int                 `json:"found"`
	NotFound  int                 `json:"not_found"`
	Failed    int                 `json:"failed"`
	Results   []LeadEnrichOutcome `json:"results"`
}

// LeadStats aggregates lead counts by enrichment state.
type LeadStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Enriched int `json:"enriched"`
	NotFound int `json:"not_found"`
	Failed   int `json:"failed"`
	Verified int `json:"verified"`
}

// DefaultMinConfidence is the verification threshold when none is given.
const DefaultMinConfidence = 70

// LeadVerifyRequest is the body of the lead verification endpoint.
type LeadVerifyRequest struct {
	IDs           []string `json:"ids,omitempty"`
	Limit         int      `json:"limit,omitempty"         validate:"omitempty,min=1,max=500"`
	MinConfidence *int     `json:"minConfidence,omitempty" validate:"omitempty,min=0,max=100"`
}

// Threshold returns the effective confidence threshold.
func (r LeadVerifyRequest) Threshold() int {
	if r.MinConfidence == nil {
		return DefaultMinConfidence
	}
	return *r.MinConfidence
}

// LeadVerifyOutcome is the per-lead result of a verification run.
type LeadVerifyOutcome struct {
	LeadID     string `json:"lead_id"`
	Email      string `json:"email,omitempty"`
	Confidence int    `json:"confidence"`
	Verified   bool   `json:"verified"`
	Error      string `json:"error,omitempty"`
}

// LeadVerifyResult summarizes a verification run.
type LeadVerifyResult struct {
	Success          bool                `json:"success"`
	CreditsRemaining int                 `json:"credits_remaining"`
	Processed        int                 `json:"processed"`
	Verified         int                 `json:"verified"`
	Unverified       int                 `json:"unverified"`
	NotFound         int                 `json:"not_found"`
	Failed           int                 `json:"failed"`
	Results          []LeadVerifyOutcome `json:"results"`
}

// LeadEmailUpdate stores a discovered address on a lead.
type LeadEmailUpdate struct {
	LeadID     string
	Email      *string
	Confidence *int
	Verified   bool
	Status     LeadEnrichmentStatus
}

// LeadListOptions selects leads for enrichment or verification.
type LeadListOptions struct {
	IDs           []string
	Source        LeadSource
	Status        LeadEnrichmentStatus
	WithEmailOnly bool
	Limit         int
}
