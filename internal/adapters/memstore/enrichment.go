package memstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tradedispatch/dispatch-api/internal/data"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

const defaultClaimableLimit = 25

// AddTarget queues a business for email discovery and returns its id.
func (s *Store) AddTarget(_ context.Context, t model.EnrichmentTarget) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = newID()
	}
	for _, existing := range s.targets {
		if existing.ID == t.ID {
			return t.ID, nil
		}
	}
	if t.Status == "" {
		t.Status = model.EnrichmentStatusPending
	}
	t.UpdatedAt = s.clock.Now()
	s.targets = append(s.targets, &t)
	return t.ID, nil
}

func (s EnrichmentRepo) findTarget(id string) *model.EnrichmentTarget {
	for _, t := range s.targets {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s EnrichmentRepo) updateTarget(ctx context.Context, id string, fn func(*model.EnrichmentTarget)) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.findTarget(id)
	if t == nil {
		return data.ErrTargetNotFound
	}
	fn(t)
	t.UpdatedAt = s.clock.Now()
	return nil
}

// GetTarget returns a copy of the target.
func (s EnrichmentRepo) GetTarget(ctx context.Context, id string) (*model.EnrichmentTarget, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.findTarget(id)
	if t == nil {
		return nil, data.ErrTargetNotFound
	}
	cp := *t
	return &cp, nil
}

// ClaimTarget moves a pending or failed target to processing. Targets that are
// processing or completed yield data.ErrTargetNotClaimable.
func (s EnrichmentRepo) ClaimTarget(ctx context.Context, id string) (*model.EnrichmentTarget, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.findTarget(id)
	if t == nil {
		return nil, data.ErrTargetNotFound
	}
	if t.Status != model.EnrichmentStatusPending && t.Status != model.EnrichmentStatusFailed {
		return nil, data.ErrTargetNotClaimable
	}
	t.Status = model.EnrichmentStatusProcessing
	t.UpdatedAt = s.clock.Now()
	cp := *t
	return &cp, nil
}

// ListClaimable returns IDs of pending targets and failed targets under maxAttempts, oldest first.
func (s EnrichmentRepo) ListClaimable(ctx context.Context, limit, maxAttempts int) ([]string, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultClaimableLimit
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, t := range s.targets {
		if len(ids) == limit {
			break
		}
		claimable := t.Status == model.EnrichmentStatusPending ||
			(t.Status == model.EnrichmentStatusFailed && t.Attempts < maxAttempts)
		if claimable {
			ids = append(ids, t.ID)
		}
	}
	return ids, nil
}

// CompleteTarget records the outcome of a successful enrichment run.
func (s EnrichmentRepo) CompleteTarget(ctx context.Context, params model.CompleteEnrichmentParams) error {
	return s.updateTarget(ctx, params.TargetID, func(t *model.EnrichmentTarget) {
		t.Status = model.EnrichmentStatusCompleted
		if d := strings.TrimSpace(params.Domain); d != "" {
			t.Domain = ptr(d)
		}
		t.Email = params.Email
		t.EmailVerified = params.EmailVerified
		t.EmailFound = params.EmailFound
		t.Attempts++
		t.LastError = nil
	})
}

// FailTarget marks the target failed, increments attempts and stores the error.
func (s EnrichmentRepo) FailTarget(ctx context.Context, id, errMsg string) error {
	return s.updateTarget(ctx, id, func(t *model.EnrichmentTarget) {
		t.Status = model.EnrichmentStatusFailed
		t.Attempts++
		t.LastError = ptr(errMsg)
	})
}

// CreateColdLead inserts a cold lead. An existing lead with the same email is returned unchanged.
func (s EnrichmentRepo) CreateColdLead(ctx context.Context, lead *model.ColdLead) (*model.ColdLead, error) {
	if lead == nil || lead.Email == "" {
		return nil, errors.New("cold lead email is required")
	}
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.coldLeads {
		if strings.EqualFold(existing.Email, lead.Email) {
			cp := *existing
			return &cp, nil
		}
	}
	stored := *lead
	stored.ID = newID()
	stored.PushedAt = nil
	stored.CreatedAt = s.clock.Now()
	s.coldLeads = append(s.coldLeads, &stored)
	cp := stored
	return &cp, nil
}

// MarkColdLeadPushed records when a cold lead was handed to the cold outreach provider.
func (s EnrichmentRepo) MarkColdLeadPushed(ctx context.Context, id string, at time.Time) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.coldLeads {
		if l.ID == id {
			l.PushedAt = ptr(at)
		}
	}
	return nil
}
