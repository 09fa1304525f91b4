// Package interval gates a block of code so it runs at most once per fixed
// interval. It is meant for fast polling loops that touch hardware which
// cannot usefully be read or written at the loop rate.
//
// Two protocols are offered. ShouldRun measures the interval from the start
// of one run to the start of the next:
//
//	if chk.ShouldRun() {
//		readSensor()
//	}
//
// Enter/Do sleep as needed before the block and reset the timer after it, so
// the interval runs from the end of one block to the start of the next:
//
//	chk.Do(writeDisplay)
package interval

import "time"

// Check is a rate-limit gate. The zero value is not usable; call New.
//
// Not safe for concurrent use.
type Check struct {
	interval time.Duration
	clock    Clock

	last  time.Time
	armed bool
}

type Option func(*Check)

// WithClock replaces the time source. A nil clock is ignored.
func WithClock(c Clock) Option {
	return func(chk *Check) {
		if c != nil {
			chk.clock = c
		}
	}
}

// New returns an unfired Check. A non-positive interval lets every call run.
func New(d time.Duration, opts ...Option) *Check {
	chk := &Check{interval: d, clock: SystemClock{}}
	for _, opt := range opts {
		if opt != nil {
			opt(chk)
		}
	}
	return chk
}

func (c *Check) Interval() time.Duration {
	return c.interval
}

// LastRun reports the recorded run time and whether the gate has fired.
func (c *Check) LastRun() (time.Time, bool) {
	return c.last, c.armed
}

// Reset returns the gate to the unfired state.
func (c *Check) Reset() {
	c.last = time.Time{}
	c.armed = false
}

// ShouldRun reports whether the interval has elapsed since the last run.
// On true it records now as the last run time; on false state is unchanged.
// The first call always returns true.
func (c *Check) ShouldRun() bool {
	now := c.clock.Now()
	if !c.armed || now.Sub(c.last) > c.interval {
		c.mark(now)
		return true
	}
	return false
}

// Sleep blocks until the interval has elapsed since the last run.
//
// The first call records now and returns without sleeping. When the interval
// has already elapsed Sleep returns at once and leaves state alone. Otherwise
// it sleeps the remainder and records the target wake time rather than the
// actual one, so oversleeping does not accumulate drift.
func (c *Check) Sleep() {
	now := c.clock.Now()
	if !c.armed {
		c.mark(now)
		return
	}
	elapsed := now.Sub(c.last)
	if elapsed > c.interval {
		return
	}
	remaining := c.interval - elapsed
	c.clock.Sleep(remaining)
	c.mark(now.Add(remaining))
}

// Enter sleeps as Sleep does and returns the matching exit func, which
// records the current time as the last run. Call exit with defer so it runs
// even if the guarded code panics.
func (c *Check) Enter() (exit func()) {
	c.Sleep()
	return func() {
		c.mark(c.clock.Now())
	}
}

// Do runs fn between Enter and its exit.
func (c *Check) Do(fn func()) {
	exit := c.Enter()
	defer exit()
	fn()
}

func (c *Check) mark(t time.Time) {
	c.last = t
	c.armed = true
}
