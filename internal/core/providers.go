package core

import (
	"context"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

// Provider ports. Real implementations live in internal/adapters; mock mode
// swaps in deterministic fakes at bootstrap.

// WarmMailer sends templated transactional email to signed-up technicians.
type WarmMailer interface {
	SendTemplate(ctx context.Context, msg model.WarmEmail) error
}

// PlainMailer sends a plain subject/body message.
type PlainMailer interface {
	Send(ctx context.Context, msg model.PlainEmail) error
}

// ColdOutreach adds contacts to an outbound campaign.
type ColdOutreach interface {
	AddLead(ctx context.Context, lead model.ColdLeadPush) error
}

// FindEmailQuery identifies a person at a company. Domain or Company is required.
type FindEmailQuery struct {
	Domain    string
	Company   string
	FirstName string
	LastName  string
}

// EmailFinder looks up one person's address. A nil candidate means not found.
type EmailFinder interface {
	FindEmail(ctx context.Context, q FindEmailQuery) (*model.EmailCandidate, error)
}

// DomainSearchQuery selects the organisation to list addresses for.
type DomainSearchQuery struct {
	Domain  string
	Company string
	Limit   int
}

// DomainSearcher lists known addresses for an organisation.
type DomainSearcher interface {
	SearchDomain(ctx context.Context, q DomainSearchQuery) ([]model.EmailCandidate, error)
}

// EmailVerifier checks deliverability of one address.
type EmailVerifier interface {
	VerifyEmail(ctx context.Context, email string) (*model.EmailVerification, error)
}

// AccountChecker reports remaining provider credits.
type AccountChecker interface {
	Account(ctx context.Context) (*model.AccountInfo, error)
}

// EmailIntel is the full enrichment provider surface.
type EmailIntel interface {
	EmailFinder
	DomainSearcher
	EmailVerifier
	AccountChecker
}

// Geocoder resolves a free-form address. A nil result with nil error means no match.
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, address string) (*model.GeoResult, error)
}
