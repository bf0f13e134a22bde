package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	ErrJobNotFound      = errors.New("job not found")
	ErrAlertNotFound    = errors.New("sla alert not found")
	ErrOutreachNotFound = errors.New("outreach not found")
	ErrRecipientMissing = errors.New("outreach recipient not found")

	// Enrichment queue sentinels.
	ErrTargetNotFound     = errors.New("enrichment target not found")
	ErrTargetNotClaimable = errors.New("enrichment target is already processing or completed")

	ErrLeadNotFound = errors.New("lead not found")

	// Reply queue sentinels.
	ErrReplyNotFound   = errors.New("reply not found")
	ErrReplyNotPending = errors.New("reply is no longer pending")
)
