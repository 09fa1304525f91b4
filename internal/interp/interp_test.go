package interp

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// randomPair returns a, b in [0,1) at least minDistance apart. Closer bounds
// lose too much precision for the 1e-10 tolerance used below.
func randomPair(r *rand.Rand, minDistance float64) (float64, float64) {
	for {
		a, b := r.Float64(), r.Float64()
		if math.Abs(a-b) > minDistance {
			return a, b
		}
	}
}

func requireNear(t *testing.T, got, want, eps float64, context string) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Fatalf("%s: got %v want %v", context, got, want)
	}
}

func TestInterpolator_Identity(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for n := 0; n < 100; n++ {
		low, high := randomPair(r, 0.01)
		i, err := New(low, high, WithDest(low, high))
		if err != nil {
			t.Fatalf("New(%v, %v): %v", low, high, err)
		}
		for v := -100; v < 100; v++ {
			requireNear(t, i.Map(float64(v)), float64(v), 1e-10, "identity")
		}
	}
}

func TestInterpolator_Inverse(t *testing.T) {
	i, err := New(1, 2, WithDest(2, 1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := i.Map(0); got != 3 {
		t.Fatalf("Map(0)=%v want 3", got)
	}

	r := rand.New(rand.NewSource(2))
	for n := 0; n < 100; n++ {
		low, high := randomPair(r, 0.01)
		i, err := New(low, high, WithDest(high, low))
		if err != nil {
			t.Fatalf("New(%v, %v): %v", low, high, err)
		}
		for v := -100; v < 100; v++ {
			requireNear(t, i.Map(float64(v)), (low+high)-float64(v), 1e-10, "inverse")
		}
	}
}

func TestInterpolator_Defaults(t *testing.T) {
	i, err := New(10, 20)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cases := []struct {
		in   float64
		want float64
	}{
		{in: 10, want: 0},
		{in: 15, want: 0.5},
		{in: 20, want: 1},
		{in: 30, want: 2},
		{in: 0, want: -1},
	}
	for _, tc := range cases {
		requireNear(t, i.Map(tc.in), tc.want, 1e-12, "defaults")
	}
	if p := i.Params(); p.DestLow != 0 || p.DestHigh != 1 || p.LockRange {
		t.Fatalf("params=%+v want dest 0..1 unlocked", p)
	}
}

func TestInterpolator_ReversedSourceKeepsDirection(t *testing.T) {
	fwd, err := New(0, 10, WithDest(100, 200))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rev, err := New(10, 0, WithDest(200, 100))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, v := range []float64{-5, 0, 2.5, 10, 15} {
		requireNear(t, rev.Map(v), fwd.Map(v), 1e-9, "reversed")
	}

	p := rev.Params()
	if p.SourceLow != 0 || p.SourceHigh != 10 || p.DestLow != 100 || p.DestHigh != 200 {
		t.Fatalf("params=%+v want normalised 0..10 -> 100..200", p)
	}
}

func TestInterpolator_InvalidRange(t *testing.T) {
	cases := []struct {
		name      string
		low, high float64
	}{
		{name: "Equal", low: 1, high: 1},
		{name: "Zero", low: 0, high: 0},
		{name: "NaN", low: math.NaN(), high: 1},
		{name: "Inf", low: 0, high: math.Inf(1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.low, tc.high)
			if !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("err=%v want ErrInvalidRange", err)
			}
		})
	}
}

func TestInterpolator_LockRangeClamps(t *testing.T) {
	cases := []struct {
		name              string
		srcLow, srcHigh   float64
		destLow, destHigh float64
	}{
		{name: "Ascending", srcLow: 0, srcHigh: 1, destLow: 10, destHigh: 20},
		{name: "DescendingDest", srcLow: 0, srcHigh: 1, destLow: 20, destHigh: 10},
		{name: "ReversedSource", srcLow: 5, srcHigh: -5, destLow: -1, destHigh: 1},
	}
	inputs := []float64{-1e12, -100, -1, 0, 0.5, 1, 100, 1e12, math.Inf(1), math.Inf(-1)}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			i, err := New(tc.srcLow, tc.srcHigh, WithDest(tc.destLow, tc.destHigh), WithLockRange(true))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			lo, hi := math.Min(tc.destLow, tc.destHigh), math.Max(tc.destLow, tc.destHigh)
			for _, v := range inputs {
				got := i.Map(v)
				if got < lo || got > hi {
					t.Fatalf("Map(%v)=%v outside [%v, %v]", v, got, lo, hi)
				}
			}
		})
	}
}

func TestInterpolator_UnlockedExtrapolates(t *testing.T) {
	i, err := New(0, 1, WithDest(0, 10))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	requireNear(t, i.Map(2), 20, 1e-12, "extrapolate high")
	requireNear(t, i.Map(-1), -10, 1e-12, "extrapolate low")
}

func TestInterpolator_Func(t *testing.T) {
	i, err := New(0, 4, WithDest(0, 8))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f := i.Func()
	if got := f(1); got != 2 {
		t.Fatalf("f(1)=%v want 2", got)
	}
}

func TestApplyOptions_IgnoresNil(t *testing.T) {
	p := ApplyOptions(1, 2, nil, WithLockRange(true))
	want := Params{SourceLow: 1, SourceHigh: 2, DestLow: 0, DestHigh: 1, LockRange: true}
	if p != want {
		t.Fatalf("params=%+v want %+v", p, want)
	}
}
