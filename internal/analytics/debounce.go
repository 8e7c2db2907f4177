package analytics

import (
	"sync"
	"time"

	"finance_tracker/internal/model"
)

// Debouncer runs a callback once input has been quiet for a fixed delay.
// Each Trigger replaces the single pending timer; only a timer that fires
// without being replaced or stopped runs its callback.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	seq   uint64
}

// NewDebouncer creates a Debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, cancelling whatever was pending.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A timer that already fired can lose the race with Trigger or Stop.
		if seq != d.seq || d.timer == nil {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Stop cancels the pending callback. It reports whether one was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.seq++
	return true
}

// Pending reports whether a callback is waiting to fire.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// LiveSearch filters a fixed collection as the user types, running Filter only
// after typing pauses.
type LiveSearch struct {
	debouncer *Debouncer
	txs       []model.Transaction
	tags      []string
	onResult  func([]model.Transaction)
}

// NewLiveSearch creates a LiveSearch delivering results to onResult.
func NewLiveSearch(delay time.Duration, txs []model.Transaction, tags []string, onResult func([]model.Transaction)) *LiveSearch {
	return &LiveSearch{
		debouncer: NewDebouncer(delay),
		txs:       txs,
		tags:      tags,
		onResult:  onResult,
	}
}

// Type records the current search text.
func (s *LiveSearch) Type(text string) {
	s.debouncer.Trigger(func() {
		s.onResult(Filter(s.txs, Criteria{Search: text, Tags: s.tags}))
	})
}

// Cancel drops any pending search.
func (s *LiveSearch) Cancel() {
	s.debouncer.Stop()
}
