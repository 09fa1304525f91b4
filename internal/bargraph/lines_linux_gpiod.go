//go:build linux && (arm || arm64)

package bargraph

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

const gpioConsumer = "rangegate-bargraph"

// openLines requests every pin as an output, initially low, in one request
// so all LEDs change together.
func openLines(pins []int) (lineWriter, error) {
	if len(pins) == 0 {
		return nil, fmt.Errorf("bargraph: no pins")
	}
	offsets := make([]int, len(pins))
	chipName := ""
	for i, pin := range pins {
		name := fmt.Sprintf("GPIO%d", pin)
		chip, offset, err := gpiocdev.FindLine(name)
		if err != nil {
			return nil, fmt.Errorf("bargraph: gpio line %q: %w", name, err)
		}
		if chipName == "" {
			chipName = chip
		} else if chip != chipName {
			return nil, fmt.Errorf("bargraph: gpio line %q is on %s, want %s", name, chip, chipName)
		}
		offsets[i] = offset
	}
	lines, err := gpiocdev.RequestLines(chipName, offsets,
		gpiocdev.AsOutput(make([]int, len(offsets))...),
		gpiocdev.WithConsumer(gpioConsumer))
	if err != nil {
		return nil, fmt.Errorf("bargraph: request lines: %w", err)
	}
	return lines, nil
}
