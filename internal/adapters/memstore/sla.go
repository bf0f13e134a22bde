package memstore

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/data"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	"github.com/tradedispatch/dispatch-api/internal/domain/sla"
	apperrors "github.com/tradedispatch/dispatch-api/internal/errors"
)

const defaultActiveTimerLimit = 500

// ListTimers returns a job's timers in creation order.
func (s SLARepo) ListTimers(ctx context.Context, jobID string) ([]*model.SLATimer, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.SLATimer
	for _, t := range s.timers {
		if t.JobID == jobID {
			out = append(out, copyTimer(t))
		}
	}
	return out, nil
}

// ListAlerts returns a job's alerts, most recent first.
func (s SLARepo) ListAlerts(ctx context.Context, jobID string) ([]*model.SLAAlert, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.SLAAlert
	for _, a := range s.alerts {
		if a.JobID == jobID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	return out, nil
}

// CreateTimers inserts the four stage timers of a job. Only the dispatch timer is
// started. A stage that already has an active timer yields a conflict and nothing is written.
func (s SLARepo) CreateTimers(ctx context.Context, params core.CreateSLATimersParams) ([]*model.SLATimer, error) {
	if err := params.Config.Validate(); err != nil {
		return nil, err
	}
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	startedAt := params.StartedAt
	if startedAt.IsZero() {
		startedAt = s.clock.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		if t.JobID == params.JobID && t.CompletedAt == nil && !t.Breached {
			return nil, apperrors.Conflictf("active %s timer exists for job %s", t.Stage, params.JobID)
		}
	}

	created := s.clock.Now()
	out := make([]*model.SLATimer, 0, len(model.SLAStages()))
	for _, stage := range model.SLAStages() {
		t := &model.SLATimer{
			ID:            newID(),
			JobID:         params.JobID,
			Stage:         stage,
			TargetMinutes: params.Config.Minutes(stage),
			CreatedAt:     created,
		}
		if stage == model.SLAStageDispatch {
			t.StartedAt = ptr(startedAt)
		}
		s.timers = append(s.timers, t)
		out = append(out, copyTimer(t))
	}
	s.notifyLocked(params.JobID)
	return out, nil
}

// CompleteStage completes the open timer of stage and starts the next stage
// if it has not been entered yet. Completing an unknown stage is a no-op.
func (s SLARepo) CompleteStage(ctx context.Context, jobID string, stage model.SLAStage) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	now := s.clock.Now()
	next := nextStage(stage)

	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for _, t := range s.timers {
		if t.JobID != jobID {
			continue
		}
		switch {
		case t.Stage == stage && t.CompletedAt == nil:
			t.CompletedAt = ptr(now)
			if t.StartedAt == nil {
				t.StartedAt = ptr(now)
			}
			changed = true
		case next != "" && t.Stage == next && t.StartedAt == nil && t.CompletedAt == nil:
			t.StartedAt = ptr(now)
			changed = true
		}
	}
	if changed {
		s.notifyLocked(jobID)
	}
	return nil
}

func nextStage(stage model.SLAStage) model.SLAStage {
	stages := model.SLAStages()
	for i, st := range stages {
		if st == stage && i+1 < len(stages) {
			return stages[i+1]
		}
	}
	return ""
}

// AcknowledgeAlert marks an alert acknowledged. Acknowledging twice is a no-op.
func (s SLARepo) AcknowledgeAlert(ctx context.Context, alertID string) (*model.SLAAlert, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.alerts {
		if a.ID != alertID {
			continue
		}
		if !a.Acknowledged {
			a.Acknowledged = true
			s.notifyLocked(a.JobID)
		}
		cp := *a
		return &cp, nil
	}
	return nil, data.ErrAlertNotFound
}

// ListActiveTimers returns started timers that are neither completed nor breached, earliest deadline first.
func (s SLARepo) ListActiveTimers(ctx context.Context, limit int) ([]*model.SLATimer, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultActiveTimerLimit
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.SLATimer
	for _, t := range s.timers {
		if t.StartedAt != nil && t.CompletedAt == nil && !t.Breached {
			out = append(out, copyTimer(t))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := sla.Deadline(out[i]), sla.Deadline(out[j])
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return out[i].StartedAt.Before(*out[j].StartedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MarkBreached flips an active timer to breached and reports whether it changed.
func (s SLARepo) MarkBreached(ctx context.Context, timerID string, at time.Time) (bool, error) {
	if err := ctxErr(ctx); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		if t.ID != timerID {
			continue
		}
		if t.CompletedAt != nil || t.Breached {
			return false, nil
		}
		t.Breached = true
		t.BreachTime = ptr(at)
		s.notifyLocked(t.JobID)
		return true, nil
	}
	return false, nil
}

// RecordAlert inserts an alert once per (job, stage, type) and reports whether it was inserted.
func (s SLARepo) RecordAlert(ctx context.Context, alert *model.SLAAlert) (bool, error) {
	if alert == nil || !alert.AlertType.Valid() || !alert.Stage.Valid() {
		return false, errors.New("valid alert type and stage are required")
	}
	if err := ctxErr(ctx); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.alerts {
		if a.JobID == alert.JobID && a.Stage == alert.Stage && a.AlertType == alert.AlertType {
			return false, nil
		}
	}
	stored := *alert
	stored.ID = newID()
	stored.Acknowledged = false
	if stored.SentAt.IsZero() {
		stored.SentAt = s.clock.Now()
	}
	s.alerts = append(s.alerts, &stored)
	*alert = stored
	s.notifyLocked(alert.JobID)
	return true, nil
}

// changeListener collects changed job ids between deliveries so a slow
// consumer sees each job once instead of blocking writers.
type changeListener struct {
	pending map[string]struct{}
	signal  chan struct{}
}

// ListenSLAChanges calls onChange with the job id of every timer or alert change until ctx is done.
func (s SLARepo) ListenSLAChanges(ctx context.Context, listening func(), onChange func(jobID string)) error {
	l := &changeListener{pending: make(map[string]struct{}), signal: make(chan struct{}, 1)}
	s.mu.Lock()
	s.listeners[l] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.listeners, l)
		s.mu.Unlock()
	}()

	if listening != nil {
		listening()
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.signal:
		}
		s.mu.Lock()
		changed := l.pending
		l.pending = make(map[string]struct{})
		s.mu.Unlock()
		for jobID := range changed {
			onChange(jobID)
		}
	}
}

// notifyLocked queues jobID for every listener. Callers hold s.mu.
func (s *Store) notifyLocked(jobID string) {
	for l := range s.listeners {
		l.pending[jobID] = struct{}{}
		select {
		case l.signal <- struct{}{}:
		default:
		}
	}
}

func copyTimer(t *model.SLATimer) *model.SLATimer {
	cp := *t
	return &cp
}
