// Package orderfeed keeps periodically refreshed snapshots of order lists.
// The backing store only offers request/response reads, so near-real-time
// views are driven by fixed-interval polling.
package orderfeed

import (
	"context"
	"sync"
	"time"

	"warungjp/internal/domain"
)

// Fetch loads the current order list from the store.
type Fetch func() ([]domain.Order, error)

type Feed struct {
	fetch      Fetch
	interval   time.Duration
	maxBackoff time.Duration // 0 disables backoff, the interval stays fixed
	background bool          // keep polling while the view is backgrounded

	kick chan struct{}

	mu        sync.Mutex
	snapshot  []domain.Order
	updatedAt time.Time
	lastErr   error
	failures  int
	paused    bool
}

// NewAdminFeed polls every 2 seconds and keeps going while backgrounded.
func NewAdminFeed(fetch Fetch) *Feed {
	return &Feed{fetch: fetch, interval: 2 * time.Second, background: true, kick: make(chan struct{}, 1)}
}

// NewUserFeed polls every 10 seconds, backs off exponentially on failure
// (capped at 30s) and suspends while backgrounded.
func NewUserFeed(fetch Fetch) *Feed {
	return &Feed{fetch: fetch, interval: 10 * time.Second, maxBackoff: 30 * time.Second, kick: make(chan struct{}, 1)}
}

// Run polls until the context is cancelled. It fetches once immediately so
// the first Snapshot call has data.
func (f *Feed) Run(ctx context.Context) {
	f.refresh()
	for {
		timer := time.NewTimer(f.delay())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-f.kick:
			timer.Stop()
			f.refresh()
		case <-timer.C:
			if f.skip() {
				continue
			}
			f.refresh()
		}
	}
}

func (f *Feed) delay() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.maxBackoff == 0 || f.failures == 0 {
		return f.interval
	}
	// Past a handful of doublings the cap is reached; shifting further
	// would overflow the duration during a long outage.
	if f.failures > 6 {
		return f.maxBackoff
	}
	d := time.Second << (f.failures - 1)
	if d > f.maxBackoff {
		d = f.maxBackoff
	}
	return d
}

func (f *Feed) skip() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused && !f.background
}

func (f *Feed) refresh() {
	orders, err := f.fetch()
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.lastErr = err
		f.failures++
		return
	}
	f.snapshot = orders
	f.updatedAt = time.Now()
	f.lastErr = nil
	f.failures = 0
}

// Snapshot returns the last successful fetch and the error of the most
// recent attempt, if it failed.
func (f *Feed) Snapshot() ([]domain.Order, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot, f.updatedAt, f.lastErr
}

// Invalidate forces an immediate refetch, also while paused.
func (f *Feed) Invalidate() {
	select {
	case f.kick <- struct{}{}:
	default:
	}
}

// Pause suspends scheduled polling for feeds that do not poll in the
// background. Invalidate still works while paused.
func (f *Feed) Pause() {
	f.mu.Lock()
	f.paused = true
	f.mu.Unlock()
}

func (f *Feed) Resume() {
	f.mu.Lock()
	f.paused = false
	f.mu.Unlock()
	f.Invalidate()
}
