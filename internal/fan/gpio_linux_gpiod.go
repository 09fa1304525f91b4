//go:build linux && (arm || arm64)

package fan

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

const gpioConsumer = "rangegate-fan"

// openGPIO requests BCM pin as an output, initially low, on whichever chip
// exposes the "GPIO<pin>" line name (gpiochip0 on most Pis, gpiochip4 on
// some Pi 5 kernels).
func openGPIO(pin int) (pwmDriver, error) {
	if pin <= 0 {
		return nil, fmt.Errorf("fan: invalid gpio pin %d", pin)
	}
	name := fmt.Sprintf("GPIO%d", pin)
	chip, offset, err := gpiocdev.FindLine(name)
	if err != nil {
		return nil, fmt.Errorf("fan: gpio line %q: %w", name, err)
	}
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer(gpioConsumer))
	if err != nil {
		return nil, fmt.Errorf("fan: request %s on %s: %w", name, chip, err)
	}
	return newOnOffSwitch(line), nil
}
