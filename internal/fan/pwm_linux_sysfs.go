//go:build linux && (arm || arm64)

package fan

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// sysfsPWM drives a hardware PWM channel through /sys/class/pwm.
//
// On a Raspberry Pi GPIO18 appears as channel 0 of the first pwmchip once
// `dtoverlay=pwm-2chan` (or equivalent) is enabled.
type sysfsPWM struct {
	pwmPath  string // /sys/class/pwm/pwmchipN/pwmM
	periodNS uint64
	enabled  bool
}

var pwmSysfsBase = "/sys/class/pwm"

// defaultPeriodNS is 25kHz, the standard 4-pin fan PWM frequency.
const defaultPeriodNS = 1_000_000_000 / 25_000

func openPWM(pin int) (pwmDriver, error) {
	if pin != 18 {
		return nil, fmt.Errorf("fan: sysfs pwm supports only pwm_pin=18")
	}
	chipPath, err := findPWMChip()
	if err != nil {
		return nil, err
	}
	const channel = 0
	d := &sysfsPWM{pwmPath: filepath.Join(chipPath, fmt.Sprintf("pwm%d", channel))}
	if err := exportChannel(chipPath, channel, d.pwmPath); err != nil {
		return nil, err
	}
	_ = d.writeBool("enable", false)
	return d, nil
}

// findPWMChip returns the lowest-numbered pwmchip exposing at least one
// channel. pwmchipN entries are usually symlinks, so they are not filtered
// on IsDir.
func findPWMChip() (string, error) {
	entries, err := os.ReadDir(pwmSysfsBase)
	if err != nil {
		return "", fmt.Errorf("fan: read %s: %w", pwmSysfsBase, err)
	}
	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "pwmchip") {
			names = append(names, e.Name())
		}
	}
	sort.Slice(names, func(i, j int) bool {
		ni, _ := strconv.Atoi(strings.TrimPrefix(names[i], "pwmchip"))
		nj, _ := strconv.Atoi(strings.TrimPrefix(names[j], "pwmchip"))
		return ni < nj
	})
	for _, name := range names {
		chip := filepath.Join(pwmSysfsBase, name)
		n, err := readInt(filepath.Join(chip, "npwm"))
		if err != nil || n <= 0 {
			continue
		}
		return chip, nil
	}
	return "", fmt.Errorf("fan: no sysfs pwmchip found (is the pwm overlay enabled?)")
}

func exportChannel(chipPath string, channel int, pwmPath string) error {
	if _, err := os.Stat(pwmPath); err == nil {
		return nil
	}
	if err := writeSysfs(filepath.Join(chipPath, "export"), strconv.Itoa(channel)); err != nil {
		if _, statErr := os.Stat(pwmPath); statErr == nil {
			return nil
		}
		return fmt.Errorf("fan: export pwm: %w", err)
	}
	deadline := time.Now().Add(500 * time.Millisecond)
	for {
		_, err := os.Stat(pwmPath)
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("fan: pwm path not created after export: %w", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// Close leaves the fan at full duty; a stopped controller must not let the
// board overheat.
func (d *sysfsPWM) Close() error {
	return d.SetDutyPercent(100)
}

func (d *sysfsPWM) SetFrequencyHz(hz int) error {
	if hz <= 0 {
		return fmt.Errorf("fan: invalid frequency %d", hz)
	}
	periodNS := uint64(1_000_000_000 / hz)
	if periodNS == 0 {
		periodNS = 1
	}
	// The kernel rejects period changes while enabled on some chips, and a
	// duty above the new period is always rejected.
	_ = d.writeBool("enable", false)
	d.enabled = false
	_ = d.writeUint("duty_cycle", 0)
	if err := d.writeUint("period", periodNS); err != nil {
		return err
	}
	d.periodNS = periodNS
	if err := d.writeBool("enable", true); err != nil {
		return err
	}
	d.enabled = true
	return nil
}

func (d *sysfsPWM) SetDutyPercent(p float64) error {
	p = math.Max(0, math.Min(100, p))
	if d.periodNS == 0 {
		d.periodNS = defaultPeriodNS
		if err := d.writeUint("period", d.periodNS); err != nil {
			return err
		}
	}
	duty := uint64(math.Round(float64(d.periodNS) * p / 100.0))
	if err := d.writeUint("duty_cycle", min(duty, d.periodNS)); err != nil {
		return err
	}
	if !d.enabled {
		if err := d.writeBool("enable", true); err != nil {
			return err
		}
		d.enabled = true
	}
	return nil
}

func (d *sysfsPWM) writeUint(name string, v uint64) error {
	return writeSysfs(filepath.Join(d.pwmPath, name), strconv.FormatUint(v, 10))
}

func (d *sysfsPWM) writeBool(name string, v bool) error {
	val := "0"
	if v {
		val = "1"
	}
	return writeSysfs(filepath.Join(d.pwmPath, name), val)
}

// writeSysfs opens without O_TRUNC/O_CREATE, which some attributes reject.
// Right after export udev may still be fixing permissions, so EACCES and
// ENOENT are retried for a short window.
func writeSysfs(path string, value string) error {
	deadline := time.Now().Add(2 * time.Second)
	for {
		err := writeOnce(path, value)
		if err == nil {
			return nil
		}
		if !isRetryableSysfsErr(err) || time.Now().After(deadline) {
			return err
		}
		time.Sleep(25 * time.Millisecond)
	}
}

func writeOnce(path string, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	_, werr := f.WriteString(value)
	return errors.Join(werr, f.Close())
}

func isRetryableSysfsErr(err error) bool {
	return errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.ENOENT)
}

func readInt(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(b)))
}
