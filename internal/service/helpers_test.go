package service

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	"github.com/tradedispatch/dispatch-api/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// recordingSink captures metric counts by name.
type recordingSink struct {
	mu     sync.Mutex
	counts map[string]int64
	tags   map[string][]map[string]string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{counts: map[string]int64{}, tags: map[string][]map[string]string{}}
}

func (r *recordingSink) Count(name string, value int64, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[name] += value
	r.tags[name] = append(r.tags[name], tags)
}

func (r *recordingSink) Gauge(string, float64, map[string]string) {}

func (r *recordingSink) Timing(string, time.Duration, map[string]string) {}

func (r *recordingSink) count(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[name]
}

func (r *recordingSink) resultsFor(name string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.tags[name]))
	for _, t := range r.tags[name] {
		out = append(out, t["result"])
	}
	return out
}

func startedTimer(id string, stage model.SLAStage, target int, started time.Time) *model.SLATimer {
	t := testutil.RunningTimer("job-1", stage, target, started)
	t.ID = id
	return t
}
