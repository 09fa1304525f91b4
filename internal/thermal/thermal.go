// Package thermal reads SoC temperature from the Linux thermal sysfs class.
package thermal

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultPath is the first thermal zone, the CPU on a Raspberry Pi.
const DefaultPath = "/sys/class/thermal/thermal_zone0/temp"

// Reader reads a thermal zone file. The zero value reads DefaultPath.
type Reader struct {
	Path string
}

// Read returns the zone temperature in degrees Celsius.
func (r Reader) Read() (float64, error) {
	path := r.Path
	if path == "" {
		path = DefaultPath
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read cpu temp: %w", err)
	}
	return ParseCelsius(string(b))
}

// ReadCPUTempC reads DefaultPath.
func ReadCPUTempC() (float64, error) {
	return Reader{}.Read()
}

// ParseCelsius parses a sysfs temperature. Linux normally reports
// milli-degrees (52345) but some drivers report whole degrees.
func ParseCelsius(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("cpu temp empty")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse cpu temp %q: %w", s, err)
	}
	if n > 1000 || n < -1000 {
		return float64(n) / 1000.0, nil
	}
	return float64(n), nil
}
