// Package memstore keeps every repository in process memory. It backs mock
// mode when no database is configured and mirrors the semantics of the
// Postgres procedures and constraints closely enough for end-to-end demos.
package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/data"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

var (
	_ core.JobRepository        = JobRepo{}
	_ core.SLARepository        = SLARepo{}
	_ core.OutreachRepository   = OutreachRepo{}
	_ core.EnrichmentRepository = EnrichmentRepo{}
	_ core.LeadRepository       = LeadRepo{}
	_ core.ReplyRepository      = ReplyRepo{}
)

// Options configure a Store.
type Options struct {
	TimeProvider data.TimeProvider
}

// Store holds every table in memory behind one mutex. The repository views
// returned by its accessors share that state. Rows are copied on the way in
// and out so callers never alias stored values.
type Store struct {
	clock data.TimeProvider

	mu         sync.Mutex
	jobs       map[string]*model.Job
	techs      []*model.Technician
	timers     []*model.SLATimer
	alerts     []*model.SLAAlert
	outreach   map[string]*model.WorkOrderOutreach
	recipients []*model.OutreachRecipient
	targets    []*model.EnrichmentTarget
	coldLeads  []*model.ColdLead
	leads      []*model.Lead
	replies    map[string]*model.OutboundReply
	listeners  map[*changeListener]struct{}
}

// New creates an empty store.
func New(opts Options) *Store {
	clock := opts.TimeProvider
	if clock == nil {
		clock = data.RealTimeProvider{}
	}
	return &Store{
		clock:     clock,
		jobs:      make(map[string]*model.Job),
		outreach:  make(map[string]*model.WorkOrderOutreach),
		replies:   make(map[string]*model.OutboundReply),
		listeners: make(map[*changeListener]struct{}),
	}
}

// JobRepo implements core.JobRepository.
type JobRepo struct{ *Store }

// SLARepo implements core.SLARepository.
type SLARepo struct{ *Store }

// OutreachRepo implements core.OutreachRepository.
type OutreachRepo struct{ *Store }

// EnrichmentRepo implements core.EnrichmentRepository.
type EnrichmentRepo struct{ *Store }

// LeadRepo implements core.LeadRepository.
type LeadRepo struct{ *Store }

// ReplyRepo implements core.ReplyRepository.
type ReplyRepo struct{ *Store }

// Jobs returns the job repository view.
func (s *Store) Jobs() JobRepo { return JobRepo{s} }

// SLA returns the SLA repository view.
func (s *Store) SLA() SLARepo { return SLARepo{s} }

// Outreach returns the outreach repository view.
func (s *Store) Outreach() OutreachRepo { return OutreachRepo{s} }

// Enrichment returns the enrichment queue view.
func (s *Store) Enrichment() EnrichmentRepo { return EnrichmentRepo{s} }

// Leads returns the lead staging view.
func (s *Store) Leads() LeadRepo { return LeadRepo{s} }

// Replies returns the reply queue view.
func (s *Store) Replies() ReplyRepo { return ReplyRepo{s} }

func newID() string {
	return uuid.NewString()
}

func ptr[T any](v T) *T {
	return &v
}

func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
