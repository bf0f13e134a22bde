package sla

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrSourceRequired indicates a feed cannot be constructed without a change source.
var ErrSourceRequired = errors.New("sla feed change source is required")

// ChangeSource streams SLA change notifications for every job over one listener.
type ChangeSource interface {
	// ListenSLAChanges blocks until ctx is done or the listener fails, calling
	// onChange with the job id of each timer or alert change. listening runs once
	// the subscription is registered.
	ListenSLAChanges(ctx context.Context, listening func(), onChange func(jobID string)) error
}

// Feed manages per-job subscriptions to SLA change notifications.
type Feed interface {
	Subscribe(jobID string) (func(), <-chan struct{})
	StopAll()
}

// FeedOptions configure the default feed implementation.
type FeedOptions struct {
	Source ChangeSource
	// Resync wakes every subscriber on this period so time-driven status changes
	// show up without a row change. Defaults to one minute.
	Resync  time.Duration
	Backoff time.Duration
	Logger  *slog.Logger
}

// ChangeFeed shares one listener across all subscribed jobs and routes each
// notification to that job's subscribers. The listener runs only while at least
// one subscription exists. Delivery is best effort: a subscriber that has not
// drained its previous wake-up receives a single coalesced signal.
type ChangeFeed struct {
	source  ChangeSource
	resync  time.Duration
	backoff time.Duration
	logger  *slog.Logger

	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
	stop context.CancelFunc
}

// NewChangeFeed constructs the default feed implementation.
func NewChangeFeed(opts FeedOptions) (*ChangeFeed, error) {
	if opts.Source == nil {
		return nil, ErrSourceRequired
	}
	f := &ChangeFeed{
		source:  opts.Source,
		resync:  opts.Resync,
		backoff: opts.Backoff,
		logger:  opts.Logger,
		subs:    make(map[string]map[chan struct{}]struct{}),
	}
	if f.resync <= 0 {
		f.resync = time.Minute
	}
	if f.backoff <= 0 {
		f.backoff = 250 * time.Millisecond
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f, nil
}

// Subscribe registers interest in a job. The returned function unsubscribes and closes the channel.
func (f *ChangeFeed) Subscribe(jobID string) (func(), <-chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stop == nil {
		ctx, cancel := context.WithCancel(context.Background())
		f.stop = cancel
		go f.run(ctx)
	}

	ch := make(chan struct{}, 1)
	if f.subs[jobID] == nil {
		f.subs[jobID] = make(map[chan struct{}]struct{})
	}
	f.subs[jobID][ch] = struct{}{}

	unsub := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		subscribers := f.subs[jobID]
		if _, ok := subscribers[ch]; !ok {
			return
		}
		delete(subscribers, ch)
		drainAndClose(ch)
		if len(subscribers) == 0 {
			delete(f.subs, jobID)
		}
		if len(f.subs) == 0 {
			f.stopLocked()
		}
	}
	return unsub, ch
}

// StopAll cancels the listener and closes every subscriber channel.
func (f *ChangeFeed) StopAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopLocked()
	for jobID, subscribers := range f.subs {
		for ch := range subscribers {
			drainAndClose(ch)
		}
		delete(f.subs, jobID)
	}
}

func (f *ChangeFeed) stopLocked() {
	if f.stop != nil {
		f.stop()
		f.stop = nil
	}
}

func (f *ChangeFeed) run(ctx context.Context) {
	go f.resyncLoop(ctx)

	for {
		// Every (re)registration wakes all subscribers so changes missed while
		// the listener was down are re-fetched.
		err := f.source.ListenSLAChanges(ctx, f.broadcastAll, f.broadcast)
		if ctx.Err() != nil {
			return
		}
		f.logger.WarnContext(ctx, "sla change listener stopped; retrying", "error", err, "backoff", f.backoff)
		f.broadcastAll()

		timer := time.NewTimer(f.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (f *ChangeFeed) resyncLoop(ctx context.Context) {
	ticker := time.NewTicker(f.resync)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.broadcastAll()
		}
	}
}

func (f *ChangeFeed) broadcast(jobID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs[jobID] {
		wake(ch)
	}
}

func (f *ChangeFeed) broadcastAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, subscribers := range f.subs {
		for ch := range subscribers {
			wake(ch)
		}
	}
}

func wake(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// drainAndClose removes any buffered notifications before closing the channel so
// receivers observe a closed channel immediately.
func drainAndClose(ch chan struct{}) {
	for {
		select {
		case <-ch:
		default:
			close(ch)
			return
		}
	}
}

var _ Feed = (*ChangeFeed)(nil)
