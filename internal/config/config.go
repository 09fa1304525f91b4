package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// PollInterval is the daemon loop tick. Each service gates its own
	// hardware access on top of this.
	PollInterval time.Duration  `yaml:"poll_interval"`
	Status       StatusConfig   `yaml:"status"`
	Thermal      ThermalConfig  `yaml:"thermal"`
	Fan          FanConfig      `yaml:"fan"`
	Bargraph     BargraphConfig `yaml:"bargraph"`
}

type StatusConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type ThermalConfig struct {
	Path string `yaml:"path"`
}

type FanConfig struct {
	Enable         bool          `yaml:"enable"`
	Backend        string        `yaml:"backend"`
	PWMPin         int           `yaml:"pwm_pin"`
	PWMFrequency   int           `yaml:"pwm_frequency"`
	TempMinC       float64       `yaml:"temp_min_c"`
	TempMaxC       float64       `yaml:"temp_max_c"`
	DutyMin        float64       `yaml:"duty_min"`
	UpdateInterval time.Duration `yaml:"update_interval"`
}

type BargraphConfig struct {
	Enable         bool          `yaml:"enable"`
	Pins           []int         `yaml:"pins"`
	SourceLow      float64       `yaml:"source_low"`
	SourceHigh     float64       `yaml:"source_high"`
	LowPad         float64       `yaml:"low_pad"`
	HighPad        float64       `yaml:"high_pad"`
	UpdateInterval time.Duration `yaml:"update_interval"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// Parse decodes YAML, applies defaults and validates.
func Parse(b []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 250 * time.Millisecond
	}
	if cfg.Status.Interval <= 0 {
		cfg.Status.Interval = 30 * time.Second
	}
	if cfg.Thermal.Path == "" {
		cfg.Thermal.Path = "/sys/class/thermal/thermal_zone0/temp"
	}

	// Fan defaults (safe even if disabled).
	if cfg.Fan.Backend == "" {
		cfg.Fan.Backend = "pwm"
	}
	if cfg.Fan.PWMPin == 0 {
		cfg.Fan.PWMPin = 18
	}
	if cfg.Fan.PWMFrequency == 0 {
		cfg.Fan.PWMFrequency = 25000
	}
	if cfg.Fan.TempMinC == 0 && cfg.Fan.TempMaxC == 0 {
		cfg.Fan.TempMinC = 45
		cfg.Fan.TempMaxC = 70
	}
	if cfg.Fan.UpdateInterval <= 0 {
		cfg.Fan.UpdateInterval = 5 * time.Second
	}
	if cfg.Fan.Enable {
		if cfg.Fan.Backend != "pwm" && cfg.Fan.Backend != "gpio" {
			return Config{}, fmt.Errorf("fan.backend must be 'pwm' or 'gpio'")
		}
		if cfg.Fan.PWMFrequency < 0 {
			return Config{}, fmt.Errorf("fan.pwm_frequency must be > 0")
		}
		if !finite(cfg.Fan.TempMinC) || !finite(cfg.Fan.TempMaxC) {
			return Config{}, fmt.Errorf("fan.temp_min_c and fan.temp_max_c must be finite")
		}
		if cfg.Fan.TempMaxC == cfg.Fan.TempMinC {
			return Config{}, fmt.Errorf("fan.temp_max_c must differ from fan.temp_min_c")
		}
		if !within(cfg.Fan.DutyMin, 0, 100) {
			return Config{}, fmt.Errorf("fan.duty_min must be within 0..100")
		}
	}

	if cfg.Bargraph.UpdateInterval <= 0 {
		cfg.Bargraph.UpdateInterval = 1 * time.Second
	}
	if cfg.Bargraph.Enable {
		if len(cfg.Bargraph.Pins) == 0 {
			return Config{}, fmt.Errorf("bargraph.pins is required when bargraph.enable is true")
		}
		seen := make(map[int]bool, len(cfg.Bargraph.Pins))
		for _, p := range cfg.Bargraph.Pins {
			if p <= 0 {
				return Config{}, fmt.Errorf("bargraph.pins must be positive BCM numbers, got %d", p)
			}
			if seen[p] {
				return Config{}, fmt.Errorf("bargraph.pins contains %d more than once", p)
			}
			seen[p] = true
		}
		if !finite(cfg.Bargraph.SourceLow) || !finite(cfg.Bargraph.SourceHigh) {
			return Config{}, fmt.Errorf("bargraph.source_low and bargraph.source_high must be finite")
		}
		if cfg.Bargraph.SourceHigh == cfg.Bargraph.SourceLow {
			return Config{}, fmt.Errorf("bargraph.source_high must differ from bargraph.source_low")
		}
		if !within(cfg.Bargraph.LowPad, 0, 1) {
			return Config{}, fmt.Errorf("bargraph.low_pad must be within 0..1")
		}
		if !within(cfg.Bargraph.HighPad, 0, 1) {
			return Config{}, fmt.Errorf("bargraph.high_pad must be within 0..1")
		}
	}

	return cfg, nil
}

// within is false for NaN, which YAML accepts as .nan.
func within(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
