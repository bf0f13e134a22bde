package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/data"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

// Create opens an in-progress outreach for a job.
func (s OutreachRepo) Create(ctx context.Context, jobID string, totalRecipients int) (*model.WorkOrderOutreach, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o := &model.WorkOrderOutreach{
		ID:              newID(),
		JobID:           jobID,
		TotalRecipients: totalRecipients,
		Status:          model.OutreachStatusInProgress,
		CreatedAt:       s.clock.Now(),
	}
	s.outreach[o.ID] = o
	cp := *o
	return &cp, nil
}

// GetByID retrieves an outreach by its ID.
func (s OutreachRepo) GetByID(ctx context.Context, id string) (*model.WorkOrderOutreach, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.outreach[id]
	if !ok {
		return nil, data.ErrOutreachNotFound
	}
	cp := *o
	return &cp, nil
}

// CreateRecipient inserts a recipient row before its send is attempted.
func (s OutreachRepo) CreateRecipient(
	ctx context.Context,
	req model.CreateRecipientRequest,
) (*model.OutreachRecipient, error) {
	if !req.DispatchMethod.Valid() {
		return nil, fmt.Errorf("invalid dispatch method %q", req.DispatchMethod)
	}
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.outreach[req.OutreachID]; !ok {
		return nil, data.ErrOutreachNotFound
	}
	rec := &model.OutreachRecipient{
		ID:             newID(),
		OutreachID:     req.OutreachID,
		TechnicianID:   req.TechnicianID,
		Email:          req.Email,
		DispatchMethod: req.DispatchMethod,
	}
	s.recipients = append(s.recipients, rec)
	cp := *rec
	return &cp, nil
}

func (s OutreachRepo) updateRecipient(ctx context.Context, id string, fn func(*model.OutreachRecipient)) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.recipients {
		if r.ID == id {
			fn(r)
			return nil
		}
	}
	return data.ErrRecipientMissing
}

// MarkRecipientSent flags a recipient as delivered.
func (s OutreachRepo) MarkRecipientSent(ctx context.Context, recipientID string, at time.Time) error {
	return s.updateRecipient(ctx, recipientID, func(r *model.OutreachRecipient) {
		r.EmailSent = true
		r.SentAt = ptr(at)
		r.Error = nil
	})
}

// MarkRecipientFailed stores the send error on a recipient.
func (s OutreachRepo) MarkRecipientFailed(ctx context.Context, recipientID, errMsg string) error {
	return s.updateRecipient(ctx, recipientID, func(r *model.OutreachRecipient) {
		r.EmailSent = false
		r.Error = ptr(errMsg)
	})
}

// RefreshStats recounts delivered recipients per channel.
func (s OutreachRepo) RefreshStats(ctx context.Context, outreachID string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.outreach[outreachID]
	if !ok {
		return nil
	}
	o.WarmSent, o.ColdSent = 0, 0
	for _, r := range s.recipients {
		if r.OutreachID != outreachID || !r.EmailSent {
			continue
		}
		switch r.DispatchMethod {
		case model.DispatchMethodWarm:
			o.WarmSent++
		case model.DispatchMethodCold:
			o.ColdSent++
		}
	}
	return nil
}

// Finish sets the terminal status of an outreach.
func (s OutreachRepo) Finish(ctx context.Context, params core.FinishOutreachParams) (*model.WorkOrderOutreach, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.outreach[params.OutreachID]
	if !ok {
		return nil, data.ErrOutreachNotFound
	}
	o.Status = params.Status
	o.CompletedAt = ptr(params.At)
	cp := *o
	return &cp, nil
}

// ListRecipients returns the recipients of an outreach in insertion order.
func (s OutreachRepo) ListRecipients(ctx context.Context, outreachID string) ([]*model.OutreachRecipient, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.OutreachRecipient
	for _, r := range s.recipients {
		if r.OutreachID == outreachID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}
