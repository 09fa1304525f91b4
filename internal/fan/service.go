// Package fan drives a cooling fan from the CPU temperature along a linear
// duty curve.
//
// The service does not run its own goroutine. The owner calls Poll from a
// polling loop at any rate; an interval.Check limits hardware access to once
// per UpdateInterval.
package fan

import (
	"fmt"
	"math"
	"time"

	"rangegate/internal/interp"
	"rangegate/internal/interval"
)

const (
	BackendPWM  = "pwm"
	BackendGPIO = "gpio"
)

type Config struct {
	// Backend is BackendPWM (hardware PWM via sysfs) or BackendGPIO (on/off
	// through the GPIO character device).
	Backend string
	// PWMPin is BCM GPIO numbering.
	PWMPin int
	// PWMFrequency is the PWM output frequency in Hz.
	PWMFrequency int
	// TempMinC maps to DutyMin, TempMaxC to 100%. Temperatures outside the
	// range are clamped.
	TempMinC float64
	TempMaxC float64
	// DutyMin (0-100) keeps the fan spinning at low temperatures.
	DutyMin float64
	// UpdateInterval is the minimum time between temperature reads.
	UpdateInterval time.Duration
	// Clock overrides the gate's time source (tests).
	Clock interval.Clock
}

type Snapshot struct {
	Backend string

	CPUValid bool
	CPUTempC float64

	PWMAvailable bool
	PWMDuty      int

	LastUpdateAt time.Time
	LastError    string
}

// Source returns a temperature in degrees Celsius.
type Source func() (float64, error)

// Service is not safe for concurrent use.
type Service struct {
	cfg   Config
	curve interp.Interpolator
	gate  *interval.Check

	drv  pwmDriver
	snap Snapshot
}

// New applies defaults and builds the duty curve. It does not touch
// hardware; call Start for that.
func New(cfg Config) (*Service, error) {
	if cfg.Backend == "" {
		cfg.Backend = BackendPWM
	}
	if cfg.PWMPin == 0 {
		cfg.PWMPin = 18
	}
	if cfg.PWMFrequency == 0 {
		cfg.PWMFrequency = 25000
	}
	if cfg.TempMinC == 0 && cfg.TempMaxC == 0 {
		cfg.TempMinC, cfg.TempMaxC = 45, 70
	}
	if cfg.UpdateInterval <= 0 {
		cfg.UpdateInterval = 5 * time.Second
	}
	if cfg.Backend != BackendPWM && cfg.Backend != BackendGPIO {
		return nil, fmt.Errorf("fan: unknown backend %q", cfg.Backend)
	}
	if !(cfg.DutyMin >= 0 && cfg.DutyMin <= 100) {
		return nil, fmt.Errorf("fan: duty_min must be within 0..100, was %v", cfg.DutyMin)
	}

	curve, err := interp.New(cfg.TempMinC, cfg.TempMaxC,
		interp.WithDest(cfg.DutyMin, 100),
		interp.WithLockRange(true))
	if err != nil {
		return nil, fmt.Errorf("fan: duty curve: %w", err)
	}

	return &Service{
		cfg:   cfg,
		curve: curve,
		gate:  interval.New(cfg.UpdateInterval, interval.WithClock(cfg.Clock)),
		snap:  Snapshot{Backend: cfg.Backend},
	}, nil
}

// DutyFor returns the curve's duty for a temperature.
func (s *Service) DutyFor(tempC float64) float64 {
	return s.curve.Map(tempC)
}

// Start opens the backend and runs the fan at full duty until the first Poll.
func (s *Service) Start() error {
	open := openPWMFn
	if s.cfg.Backend == BackendGPIO {
		open = openGPIOFn
	}
	drv, err := open(s.cfg.PWMPin)
	if err != nil {
		s.setErr(err)
		return err
	}
	if err := drv.SetFrequencyHz(s.cfg.PWMFrequency); err != nil {
		_ = drv.Close()
		err = fmt.Errorf("fan: set pwm frequency: %w", err)
		s.setErr(err)
		return err
	}
	s.drv = drv
	s.snap.PWMAvailable = true
	return s.setDuty(100)
}

// Poll reads the temperature and updates the duty if UpdateInterval has
// elapsed since the last update. It reports whether an update ran.
//
// A failed read sets full duty.
func (s *Service) Poll(read Source) bool {
	if s.drv == nil || !s.gate.ShouldRun() {
		return false
	}
	tempC, err := read()
	if err != nil {
		s.snap.CPUValid = false
		s.setErr(err)
		if err := s.setDuty(100); err != nil {
			s.setErr(err)
		}
		return true
	}
	s.snap.CPUValid = true
	s.snap.CPUTempC = tempC
	if err := s.setDuty(s.DutyFor(tempC)); err != nil {
		s.setErr(err)
		return true
	}
	s.snap.LastError = ""
	return true
}

func (s *Service) Snapshot() Snapshot {
	return s.snap
}

// Close releases the backend, which leaves the fan in its safe state.
func (s *Service) Close() error {
	if s.drv == nil {
		return nil
	}
	err := s.drv.Close()
	s.drv = nil
	s.snap.PWMAvailable = false
	return err
}

func (s *Service) setDuty(duty float64) error {
	if err := s.drv.SetDutyPercent(duty); err != nil {
		return fmt.Errorf("fan: set pwm duty: %w", err)
	}
	s.snap.PWMDuty = int(math.Round(duty))
	s.snap.LastUpdateAt = time.Now().UTC()
	return nil
}

func (s *Service) setErr(err error) {
	s.snap.LastError = err.Error()
	s.snap.LastUpdateAt = time.Now().UTC()
}
