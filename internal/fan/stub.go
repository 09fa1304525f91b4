//go:build !linux || (!arm && !arm64)

package fan

import "fmt"

func openPWM(pin int) (pwmDriver, error) {
	return nil, fmt.Errorf("fan: pwm unsupported on this platform")
}

func openGPIO(pin int) (pwmDriver, error) {
	return nil, fmt.Errorf("fan: gpio unsupported on this platform")
}
