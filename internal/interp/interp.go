// Package interp builds linear mappings from one numeric range to another.
//
// An Interpolator is a small value type capturing its range parameters by
// value. It is safe to copy and to share between goroutines.
package interp

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRange is returned when the source range has zero width or a
// non-finite bound.
var ErrInvalidRange = errors.New("interp: invalid source range")

// Params describes a mapping from [SourceLow, SourceHigh] to
// [DestLow, DestHigh].
type Params struct {
	SourceLow  float64
	SourceHigh float64
	// DestLow is the output when the input equals SourceLow.
	DestLow float64
	// DestHigh is the output when the input equals SourceHigh.
	DestHigh float64
	// LockRange clamps output to the destination range for inputs outside
	// the source range. When false the mapping extrapolates.
	LockRange bool
}

// Option mutates Params.
type Option func(*Params)

// DefaultParams maps the given source range onto [0, 1], unlocked.
func DefaultParams(sourceLow, sourceHigh float64) Params {
	return Params{
		SourceLow:  sourceLow,
		SourceHigh: sourceHigh,
		DestLow:    0,
		DestHigh:   1,
	}
}

// WithDest sets the destination range.
func WithDest(low, high float64) Option {
	return func(p *Params) {
		p.DestLow = low
		p.DestHigh = high
	}
}

// WithLockRange enables or disables output clamping.
func WithLockRange(lock bool) Option {
	return func(p *Params) {
		p.LockRange = lock
	}
}

// ApplyOptions applies zero or more options to DefaultParams.
func ApplyOptions(sourceLow, sourceHigh float64, opts ...Option) Params {
	p := DefaultParams(sourceLow, sourceHigh)
	for _, opt := range opts {
		if opt != nil {
			opt(&p)
		}
	}
	return p
}

// Interpolator maps values from a source range to a destination range.
type Interpolator struct {
	sourceLow    float64
	sourceHigh   float64
	destLow      float64
	destHigh     float64
	rangeInverse float64
	lock         bool
}

// New builds an Interpolator for [sourceLow, sourceHigh], mapping onto [0, 1]
// unless WithDest says otherwise.
func New(sourceLow, sourceHigh float64, opts ...Option) (Interpolator, error) {
	return FromParams(ApplyOptions(sourceLow, sourceHigh, opts...))
}

// FromParams builds an Interpolator from explicit parameters.
//
// A reversed source range (SourceLow > SourceHigh) is normalised by swapping
// both the source and destination bounds, so the mapping direction is kept.
func FromParams(p Params) (Interpolator, error) {
	if math.IsNaN(p.SourceLow) || math.IsNaN(p.SourceHigh) ||
		math.IsInf(p.SourceLow, 0) || math.IsInf(p.SourceHigh, 0) {
		return Interpolator{}, fmt.Errorf("%w: bounds must be finite, got %v..%v", ErrInvalidRange, p.SourceLow, p.SourceHigh)
	}
	if p.SourceLow > p.SourceHigh {
		p.SourceLow, p.SourceHigh = p.SourceHigh, p.SourceLow
		p.DestLow, p.DestHigh = p.DestHigh, p.DestLow
	}
	if p.SourceLow == p.SourceHigh {
		return Interpolator{}, fmt.Errorf("%w: source_low == source_high == %v", ErrInvalidRange, p.SourceLow)
	}
	return Interpolator{
		sourceLow:    p.SourceLow,
		sourceHigh:   p.SourceHigh,
		destLow:      p.DestLow,
		destHigh:     p.DestHigh,
		rangeInverse: 1 / (p.SourceHigh - p.SourceLow),
		lock:         p.LockRange,
	}, nil
}

// Map returns the interpolated value for v.
func (i Interpolator) Map(v float64) float64 {
	t := (v - i.sourceLow) * i.rangeInverse
	if i.lock {
		t = clamp01(t)
	}
	// The explicit conversions stop the compiler fusing these into FMA, so
	// results match across architectures.
	return float64(t*i.destHigh) + float64((1.0-t)*i.destLow)
}

// Func returns Map as a plain function value.
func (i Interpolator) Func() func(float64) float64 {
	return i.Map
}

// Params reports the normalised parameters. SourceLow is always less than
// SourceHigh.
func (i Interpolator) Params() Params {
	return Params{
		SourceLow:  i.sourceLow,
		SourceHigh: i.sourceHigh,
		DestLow:    i.destLow,
		DestHigh:   i.destHigh,
		LockRange:  i.lock,
	}
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
