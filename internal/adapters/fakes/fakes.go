// Package fakes provides deterministic in-process providers used in mock mode.
// They never touch the network and record every call for inspection.
package fakes

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

var (
	_ core.WarmMailer   = (*Mailer)(nil)
	_ core.PlainMailer  = (*Mailer)(nil)
	_ core.ColdOutreach = (*Outreach)(nil)
	_ core.EmailIntel   = (*EmailIntel)(nil)
	_ core.Geocoder     = (*Geocoder)(nil)
)

// Mailer accepts every message. Addresses listed in FailFor are rejected.
type Mailer struct {
	FailFor map[string]bool

	mu    sync.Mutex
	warm  []model.WarmEmail
	plain []model.PlainEmail
}

// SendTemplate records msg.
func (m *Mailer) SendTemplate(_ context.Context, msg model.WarmEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailFor[strings.ToLower(msg.To)] {
		return fmt.Errorf("mock mailer: rejected %s", msg.To)
	}
	m.warm = append(m.warm, msg)
	return nil
}

// Send records msg.
func (m *Mailer) Send(_ context.Context, msg model.PlainEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailFor[strings.ToLower(msg.To)] {
		return fmt.Errorf("mock mailer: rejected %s", msg.To)
	}
	m.plain = append(m.plain, msg)
	return nil
}

// Warm returns the recorded template sends.
func (m *Mailer) Warm() []model.WarmEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.WarmEmail(nil), m.warm...)
}

// Plain returns the recorded plain sends.
func (m *Mailer) Plain() []model.PlainEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.PlainEmail(nil), m.plain...)
}

// Outreach accepts every campaign push.
type Outreach struct {
	FailFor map[string]bool

	mu    sync.Mutex
	leads []model.ColdLeadPush
}

// AddLead records lead.
func (o *Outreach) AddLead(_ context.Context, lead model.ColdLeadPush) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.FailFor[strings.ToLower(lead.Email)] {
		return fmt.Errorf("mock outreach: rejected %s", lead.Email)
	}
	o.leads = append(o.leads, lead)
	return nil
}

// Leads returns the recorded pushes.
func (o *Outreach) Leads() []model.ColdLeadPush {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]model.ColdLeadPush(nil), o.leads...)
}

// EmailIntel derives addresses from the domain so repeated runs agree.
// Confidence is a stable hash of the address in the range 50..99.
type EmailIntel struct {
	Credits int
}

// NewEmailIntel returns a fake with plenty of credits.
func NewEmailIntel() *EmailIntel {
	return &EmailIntel{Credits: 1000}
}

// FindEmail returns first.last@domain, or nil when no domain or name is known.
func (e *EmailIntel) FindEmail(_ context.Context, q core.FindEmailQuery) (*model.EmailCandidate, error) {
	domain := strings.ToLower(strings.TrimSpace(q.Domain))
	first := strings.ToLower(strings.TrimSpace(q.FirstName))
	if domain == "" || first == "" {
		return nil, nil
	}
	local := first
	if last := strings.ToLower(strings.TrimSpace(q.LastName)); last != "" {
		local += "." + last
	}
	addr := local + "@" + domain
	return &model.EmailCandidate{Value: addr, Confidence: confidence(addr), FirstName: q.FirstName, LastName: q.LastName}, nil
}

// SearchDomain returns a generic inbox and an owner address for the domain.
func (e *EmailIntel) SearchDomain(_ context.Context, q core.DomainSearchQuery) ([]model.EmailCandidate, error) {
	domain := strings.ToLower(strings.TrimSpace(q.Domain))
	if domain == "" {
		return nil, nil
	}
	out := []model.EmailCandidate{
		{Value: "info@" + domain, Confidence: confidence("info@" + domain)},
		{Value: "owner@" + domain, Confidence: confidence("owner@"+domain) + 1, Position: "Owner"},
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// VerifyEmail marks addresses with confidence of at least 70 as valid.
func (e *EmailIntel) VerifyEmail(_ context.Context, email string) (*model.EmailVerification, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	score := confidence(email)
	status := model.VerificationInvalid
	if score >= model.DefaultMinConfidence {
		status = model.VerificationValid
	}
	return &model.EmailVerification{Email: email, Status: status, Score: score}, nil
}

// Account reports the configured credits.
func (e *EmailIntel) Account(context.Context) (*model.AccountInfo, error) {
	return &model.AccountInfo{Plan: "mock", SearchesAvailable: e.Credits, VerifyAvailable: e.Credits}, nil
}

func confidence(s string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return 50 + int(h.Sum32()%49)
}

// Geocoder answers every address with a fixed point.
type Geocoder struct {
	Result model.GeoResult
}

// NewGeocoder returns a geocoder centred on downtown Austin.
func NewGeocoder() *Geocoder {
	return &Geocoder{Result: model.GeoResult{
		Latitude:         30.2672,
		Longitude:        -97.7431,
		FormattedAddress: "Austin, TX 78701",
		City:             "Austin",
		State:            "TX",
		Zip:              "78701",
		Provider:         "mock",
	}}
}

// Name returns the provider name.
func (g *Geocoder) Name() string { return "mock" }

// Geocode returns a copy of the fixed result, or nil for a blank address.
func (g *Geocoder) Geocode(_ context.Context, address string) (*model.GeoResult, error) {
	if strings.TrimSpace(address) == "" {
		return nil, nil
	}
	res := g.Result
	return &res, nil
}
