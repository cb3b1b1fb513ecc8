// Package debounce delays an action until input has been quiet for a while.
//
// Every Trigger cancels the pending timer and starts a new one; the action
// runs only when the delay elapses without another Trigger. Cancel drops the
// pending action, Flush runs it right away.
package debounce

import (
	"sync"
	"time"
)

type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending func()
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger schedules fn, replacing whatever was pending.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// fire runs the action scheduled under gen unless it has been superseded.
// A timer that already fired cannot be stopped, hence the generation check.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Cancel drops the pending action. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	had := d.pending != nil
	d.stopLocked()
	d.gen++
	return had
}

// Flush runs the pending action immediately on the caller's goroutine.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.pending
	d.stopLocked()
	d.gen++
	d.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}
