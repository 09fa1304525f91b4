package interval

import "time"

// Clock is the time source and sleep primitive used by Check.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock uses time.Now and time.Sleep. Times carry Go's monotonic
// reading, so wall-clock steps do not affect elapsed-time checks.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

var _ Clock = SystemClock{}
