package fan

import "fmt"

// lineSetter is the part of a requested GPIO line the on/off backend uses.
type lineSetter interface {
	SetValue(v int) error
	Close() error
}

// onOffSwitch runs a 2-wire fan through a transistor on one GPIO line. The
// curve's duty collapses to on (> 0) or off, so with DutyMin 0 the fan stops
// at or below TempMinC and runs flat out above it. The line is only written
// when the state changes.
type onOffSwitch struct {
	line lineSetter
	on   bool
}

func newOnOffSwitch(line lineSetter) *onOffSwitch {
	return &onOffSwitch{line: line}
}

// SetFrequencyHz is a no-op.
func (s *onOffSwitch) SetFrequencyHz(hz int) error {
	return nil
}

func (s *onOffSwitch) SetDutyPercent(p float64) error {
	if s.line == nil {
		return fmt.Errorf("fan: gpio line closed")
	}
	on := p > 0
	if on == s.on {
		return nil
	}
	v := 0
	if on {
		v = 1
	}
	if err := s.line.SetValue(v); err != nil {
		return err
	}
	s.on = on
	return nil
}

// Close stops the fan and releases the line.
func (s *onOffSwitch) Close() error {
	if s.line == nil {
		return nil
	}
	_ = s.line.SetValue(0)
	err := s.line.Close()
	s.line = nil
	s.on = false
	return err
}
