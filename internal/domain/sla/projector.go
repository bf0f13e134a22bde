package sla

import (
	"time"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

// WarningRatio is the share of budget remaining at or below which a timer is in warning.
const WarningRatio = 0.25

// Elapsed returns the time spent in the stage as of now. Unstarted timers report zero.
func Elapsed(t *model.SLATimer, now time.Time) time.Duration {
	if t == nil || t.StartedAt == nil {
		return 0
	}
	end := now
	if t.CompletedAt != nil {
		end = *t.CompletedAt
	}
	d := end.Sub(*t.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// Status projects a timer onto its display state.
// Completion wins over breach; an unmarked overrun stays in warning until the monitor flags it.
func Status(t *model.SLATimer, now time.Time) model.SLAStatus {
	switch {
	case t.CompletedAt != nil:
		return model.SLAStatusCompleted
	case t.Breached:
		return model.SLAStatusBreached
	}

	target := float64(t.TargetMinutes)
	remaining := target - Elapsed(t, now).Minutes()
	if remaining <= WarningRatio*target {
		return model.SLAStatusWarning
	}
	return model.SLAStatusOnTime
}

// TimeRemaining returns max(0, target - elapsed) in minutes.
func TimeRemaining(t *model.SLATimer, now time.Time) float64 {
	remaining := float64(t.TargetMinutes) - Elapsed(t, now).Minutes()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ProgressPercent returns 100 * elapsed / target clamped to [0, 100].
func ProgressPercent(t *model.SLATimer, now time.Time) float64 {
	if t.TargetMinutes <= 0 {
		return 100
	}
	pct := 100 * Elapsed(t, now).Minutes() / float64(t.TargetMinutes)
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}

// Deadline returns when a started timer's budget runs out. Unstarted timers return the zero time.
func Deadline(t *model.SLATimer) time.Time {
	if t == nil || t.StartedAt == nil {
		return time.Time{}
	}
	return t.StartedAt.Add(time.Duration(t.TargetMinutes) * time.Minute)
}

// Overdue reports whether an open, unbreached, started timer has exceeded its budget.
func Overdue(t *model.SLATimer, now time.Time) bool {
	if t.CompletedAt != nil || t.Breached || t.StartedAt == nil {
		return false
	}
	return Elapsed(t, now) > time.Duration(t.TargetMinutes)*time.Minute
}

// Project builds the display view of a timer.
func Project(t *model.SLATimer, now time.Time) model.SLATimerView {
	return model.SLATimerView{
		SLATimer:         *t,
		Status:           Status(t, now),
		RemainingMinutes: TimeRemaining(t, now),
		ProgressPercent:  ProgressPercent(t, now),
		Overdue:          Overdue(t, now),
	}
}

// ProjectAll projects timers in order.
func ProjectAll(timers []*model.SLATimer, now time.Time) []model.SLATimerView {
	views := make([]model.SLATimerView, 0, len(timers))
	for _, t := range timers {
		if t == nil {
			continue
		}
		views = append(views, Project(t, now))
	}
	return views
}
