package memstore

import (
	"context"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/data"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

// AddReply queues a drafted reply and returns its id.
func (s *Store) AddReply(_ context.Context, r model.OutboundReply) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = newID()
	}
	if _, ok := s.replies[r.ID]; ok {
		return r.ID, nil
	}
	if r.Status == "" {
		r.Status = model.ReplyStatusPending
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.clock.Now()
	}
	s.replies[r.ID] = &r
	return r.ID, nil
}

// GetByID returns a copy of the reply.
func (s ReplyRepo) GetByID(ctx context.Context, id string) (*model.OutboundReply, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.replies[id]
	if !ok {
		return nil, data.ErrReplyNotFound
	}
	cp := *r
	return &cp, nil
}

// Transition moves a reply from params.FromStatus() to params.Status. A reply in
// any other status yields data.ErrReplyNotPending.
func (s ReplyRepo) Transition(ctx context.Context, params core.ReplyTransitionParams) (*model.OutboundReply, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.replies[params.ID]
	if !ok {
		return nil, data.ErrReplyNotFound
	}
	if r.Status != params.FromStatus() {
		return nil, data.ErrReplyNotPending
	}
	r.Status = params.Status
	if params.At != nil {
		r.SentAt = ptr(*params.At)
	}
	r.Error = params.Error
	cp := *r
	return &cp, nil
}
