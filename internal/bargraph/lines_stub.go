//go:build !linux || (!arm && !arm64)

package bargraph

import "fmt"

func openLines(pins []int) (lineWriter, error) {
	return nil, fmt.Errorf("bargraph: gpio unsupported on this platform")
}
