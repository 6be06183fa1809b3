package timex

import (
	"sync"
	"time"
)

// Stopper is the part of *time.Timer the Debouncer needs.
type Stopper interface {
	Stop() bool
}

// Scheduler runs f once after d. The production implementation is
// time.AfterFunc; tests drive a ManualScheduler instead.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// RealScheduler returns the Scheduler backed by time.AfterFunc.
func RealScheduler() Scheduler {
	return realScheduler{}
}

// Debouncer delays an action until its input has been quiet for a fixed
// delay. Every Trigger replaces the pending action (last write wins); nothing
// is queued.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	sched Scheduler
	timer Stopper
	gen   uint64
}

// NewDebouncer returns a Debouncer backed by the runtime timer.
func NewDebouncer(delay time.Duration) *Debouncer {
	return NewDebouncerWithScheduler(delay, realScheduler{})
}

func NewDebouncerWithScheduler(delay time.Duration, s Scheduler) *Debouncer {
	return &Debouncer{delay: delay, sched: s}
}

// Delay reports the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger (re)starts the timer with fn as the pending action. A previously
// pending action is cancelled and will never run.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.sched.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A Stop that lost the race with the timer firing still bumped gen.
		if d.gen != gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending action, if any, and reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}

// Pending reports whether an action is waiting for the timer.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
