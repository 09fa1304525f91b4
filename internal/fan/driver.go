package fan

// pwmDriver is the minimal interface the fan service needs from a PWM or GPIO
// backend. Duty is in percent (0..100).
//
// Close is best-effort and leaves the fan in the backend's safe state.
//
//nolint:revive // internal interface name matches domain.
type pwmDriver interface {
	SetFrequencyHz(hz int) error
	SetDutyPercent(p float64) error
	Close() error
}

var openPWMFn = openPWM
var openGPIOFn = openGPIO
