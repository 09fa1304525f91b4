//go:build linux

package interval

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

// monoNanos reads CLOCK_MONOTONIC. Swapped in tests.
var monoNanos = func() (int64, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0, err
	}
	return ts.Nano(), nil
}

// monotonicClock reads CLOCK_MONOTONIC directly and sleeps to an absolute
// deadline on the same clock, so a sleep interrupted by a signal resumes
// without stretching the interval.
//
// Now returns base advanced by the CLOCK_MONOTONIC offset since
// construction. If a read fails it returns time.Now(), which shares base's
// epoch and, on Linux, its monotonic source, so elapsed times stay sane.
type monotonicClock struct {
	base     time.Time
	baseMono int64
}

// MonotonicClock returns a Clock backed by CLOCK_MONOTONIC, or SystemClock
// when that clock cannot be read.
func MonotonicClock() Clock {
	base := time.Now()
	mono, err := monoNanos()
	if err != nil {
		return SystemClock{}
	}
	return monotonicClock{base: base, baseMono: mono}
}

func (c monotonicClock) Now() time.Time {
	mono, err := monoNanos()
	if err != nil {
		return time.Now()
	}
	return c.base.Add(time.Duration(mono - c.baseMono))
}

func (monotonicClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	now, err := monoNanos()
	if err != nil {
		time.Sleep(d)
		return
	}
	deadline := unix.NsecToTimespec(now + int64(d))
	for {
		err := unix.ClockNanosleep(unix.CLOCK_MONOTONIC, unix.TIMER_ABSTIME, &deadline, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			// Unsupported clock; fall back to the runtime timer.
			time.Sleep(d)
		}
		return
	}
}
