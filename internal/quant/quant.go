// Package quant maps a continuous range onto integer levels 0..MaxLevel,
// e.g. a reading onto an LED bar graph or a float onto a motor command byte.
package quant

import (
	"errors"
	"fmt"
	"math"

	"rangegate/internal/interp"
)

// ErrInvalidParameter is returned for an out-of-range pad or level count.
var ErrInvalidParameter = errors.New("quant: invalid parameter")

type Params struct {
	SourceLow  float64
	SourceHigh float64
	// MaxLevel is the highest output level. There are MaxLevel+1 buckets
	// including zero.
	MaxLevel int
	// LowPad in [0,1] shrinks the input range that quantises to 0. Close to
	// 1 only inputs at SourceLow map to 0; at exactly 1 none do.
	LowPad float64
	// HighPad in [0,1] shrinks the input range that quantises to MaxLevel.
	// At 1 only SourceHigh itself maps to MaxLevel.
	HighPad float64
}

type Option func(*Params)

// WithPadding sets both pads.
func WithPadding(low, high float64) Option {
	return func(p *Params) {
		p.LowPad = low
		p.HighPad = high
	}
}

func WithLowPad(pad float64) Option {
	return func(p *Params) { p.LowPad = pad }
}

func WithHighPad(pad float64) Option {
	return func(p *Params) { p.HighPad = pad }
}

// Quantiser maps float64 input onto an int in [0, MaxLevel].
type Quantiser struct {
	i        interp.Interpolator
	maxLevel int
}

// New builds a Quantiser for [sourceLow, sourceHigh] with levels 0..maxLevel
// and no padding unless options say otherwise.
func New(sourceLow, sourceHigh float64, maxLevel int, opts ...Option) (Quantiser, error) {
	p := Params{SourceLow: sourceLow, SourceHigh: sourceHigh, MaxLevel: maxLevel}
	for _, opt := range opts {
		if opt != nil {
			opt(&p)
		}
	}
	return FromParams(p)
}

func FromParams(p Params) (Quantiser, error) {
	if !validPad(p.LowPad) {
		return Quantiser{}, fmt.Errorf("%w: low_pad must be between 0.0 and 1.0, was %v", ErrInvalidParameter, p.LowPad)
	}
	if !validPad(p.HighPad) {
		return Quantiser{}, fmt.Errorf("%w: high_pad must be between 0.0 and 1.0, was %v", ErrInvalidParameter, p.HighPad)
	}
	if p.MaxLevel < 1 {
		return Quantiser{}, fmt.Errorf("%w: max level must be at least 1, was %d", ErrInvalidParameter, p.MaxLevel)
	}
	i, err := interp.New(p.SourceLow, p.SourceHigh,
		interp.WithDest(p.LowPad, float64(p.MaxLevel)+1-p.HighPad),
		interp.WithLockRange(true))
	if err != nil {
		return Quantiser{}, err
	}
	return Quantiser{i: i, maxLevel: p.MaxLevel}, nil
}

// Level returns the quantised level for v.
// NaN input quantises to 0.
func (q Quantiser) Level(v float64) int {
	x := q.i.Map(v)
	if math.IsNaN(x) {
		return 0
	}
	// Clamp before converting: near math.MaxInt, float64(maxLevel) rounds up
	// and the int conversion would overflow.
	if x >= float64(q.maxLevel) {
		return q.maxLevel
	}
	return min(q.maxLevel, int(math.Floor(x)))
}

func (q Quantiser) MaxLevel() int {
	return q.maxLevel
}

// Func returns Level as a plain function value.
func (q Quantiser) Func() func(float64) int {
	return q.Level
}

func validPad(p float64) bool {
	return p >= 0 && p <= 1
}
