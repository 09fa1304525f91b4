// Package bargraph shows a reading on a row of LEDs. The reading is
// quantised onto 0..len(Pins) and level k lights the first k LEDs.
package bargraph

import (
	"fmt"
	"time"

	"rangegate/internal/interval"
	"rangegate/internal/quant"
)

// lineWriter sets all LED lines at once, one value (0/1) per pin.
type lineWriter interface {
	SetValues(values []int) error
	Close() error
}

var openLinesFn = openLines

type Config struct {
	// Pins are BCM GPIO numbers, lowest LED first.
	Pins []int
	// SourceLow lights no LEDs, SourceHigh lights all of them.
	SourceLow  float64
	SourceHigh float64
	LowPad     float64
	HighPad    float64
	// UpdateInterval is the minimum time between reads.
	UpdateInterval time.Duration
	// Clock overrides the gate's time source (tests).
	Clock interval.Clock
}

type Snapshot struct {
	Valid     bool
	Value     float64
	Level     int
	MaxLevel  int
	UpdatedAt time.Time
	LastError string
}

// Source returns the value to display.
type Source func() (float64, error)

// Service is not safe for concurrent use.
type Service struct {
	cfg  Config
	q    quant.Quantiser
	gate *interval.Check

	lines   lineWriter
	written int
	snap    Snapshot
}

func New(cfg Config) (*Service, error) {
	if cfg.UpdateInterval <= 0 {
		cfg.UpdateInterval = time.Second
	}
	q, err := quant.New(cfg.SourceLow, cfg.SourceHigh, len(cfg.Pins), quant.WithPadding(cfg.LowPad, cfg.HighPad))
	if err != nil {
		return nil, fmt.Errorf("bargraph: %w", err)
	}
	return &Service{
		cfg:     cfg,
		q:       q,
		gate:    interval.New(cfg.UpdateInterval, interval.WithClock(cfg.Clock)),
		written: -1,
		snap:    Snapshot{MaxLevel: q.MaxLevel()},
	}, nil
}

// Start requests the GPIO lines, all LEDs off.
func (s *Service) Start() error {
	lines, err := openLinesFn(s.cfg.Pins)
	if err != nil {
		s.snap.LastError = err.Error()
		return err
	}
	s.lines = lines
	s.written = 0
	return nil
}

// Level quantises v without touching hardware.
func (s *Service) Level(v float64) int {
	return s.q.Level(v)
}

// Poll reads and displays a value if UpdateInterval has elapsed. It reports
// whether a read happened. A failed read blanks the display.
func (s *Service) Poll(read Source) bool {
	if s.lines == nil || !s.gate.ShouldRun() {
		return false
	}
	s.snap.UpdatedAt = time.Now().UTC()
	v, err := read()
	if err != nil {
		s.snap.Valid = false
		s.snap.LastError = err.Error()
		s.show(0)
		return true
	}
	s.snap.Valid = true
	s.snap.Value = v
	s.snap.LastError = ""
	s.show(s.q.Level(v))
	return true
}

func (s *Service) show(level int) {
	s.snap.Level = level
	if level == s.written {
		return
	}
	if err := s.lines.SetValues(Pattern(level, len(s.cfg.Pins))); err != nil {
		s.snap.LastError = fmt.Sprintf("bargraph: set lines: %v", err)
		s.written = -1
		return
	}
	s.written = level
}

func (s *Service) Snapshot() Snapshot {
	return s.snap
}

// Close turns the LEDs off and releases the lines.
func (s *Service) Close() error {
	if s.lines == nil {
		return nil
	}
	_ = s.lines.SetValues(Pattern(0, len(s.cfg.Pins)))
	err := s.lines.Close()
	s.lines = nil
	return err
}

// Pattern returns n line values with the first level set to 1.
func Pattern(level, n int) []int {
	out := make([]int, n)
	for i := 0; i < level && i < n; i++ {
		out[i] = 1
	}
	return out
}
