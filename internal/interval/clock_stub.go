//go:build !linux

package interval

// MonotonicClock returns SystemClock on platforms without CLOCK_MONOTONIC
// support in x/sys.
func MonotonicClock() Clock {
	return SystemClock{}
}
