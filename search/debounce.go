package search

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before suggestions are computed
const DefaultDebounce = 200 * time.Millisecond

// Debouncer runs only the most recently scheduled task, once its quiet
// period has passed. A task that has already started is not interrupted;
// it hands its result to commit, which applies it only while the task is
// still the latest one.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewDebouncer creates a Debouncer; a non-positive delay uses DefaultDebounce
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Schedule supersedes any pending task with fn. commit runs apply under the
// debouncer lock when fn has not been superseded, and reports whether it did.
func (d *Debouncer) Schedule(fn func(commit func(apply func()) bool)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen

	commit := func(apply func()) bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.gen != gen {
			return false
		}
		apply()
		return true
	}

	d.timer = time.AfterFunc(d.delay, func() {
		if !commit(func() {}) {
			return
		}
		fn(commit)
	})
}

// Cancel drops the pending task, if any
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
}

// FocusRetry calls try up to attempts times, interval apart, until it reports
// success. It returns false when attempts run out or ctx is done.
func FocusRetry(ctx context.Context, attempts int, interval time.Duration, try func() bool) bool {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; i < attempts; i++ {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
		if try() {
			return true
		}
	}
	return false
}
