package autosave

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into one run of fn after a quiet
// window. Each trigger within the window supersedes the previous one; only
// the last survives to run. Cancel exposes the pending state so a caller can
// force-flush without double-running.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func()
	timer   *time.Timer
	pending bool
}

// NewDebouncer creates a debouncer that runs fn after delay of quiet.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger (re)schedules fn. A pending run is replaced, never issued.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = true
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.mu.Unlock()

	d.fn()
}

// Cancel stops any pending run and reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	wasPending := d.pending
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return wasPending
}

// Flush runs fn synchronously if a run is pending, cancelling the timer.
// It is a no-op when nothing is pending.
func (d *Debouncer) Flush() {
	if d.Cancel() {
		d.fn()
	}
}
