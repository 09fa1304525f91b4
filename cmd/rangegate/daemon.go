package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"rangegate/internal/bargraph"
	"rangegate/internal/config"
	"rangegate/internal/fan"
	"rangegate/internal/interval"
	"rangegate/internal/thermal"
)

// daemon runs every service from one polling loop. Nothing here is shared
// between goroutines.
type daemon struct {
	read   func() (float64, error)
	fan    *fan.Service
	bar    *bargraph.Service
	status *interval.Check
	logf   func(format string, args ...any)
}

func newDaemon(cfg config.Config) (*daemon, error) {
	d := &daemon{
		read:   thermal.Reader{Path: cfg.Thermal.Path}.Read,
		status: interval.New(cfg.Status.Interval, interval.WithClock(interval.MonotonicClock())),
		logf:   log.Printf,
	}

	if cfg.Fan.Enable {
		svc, err := fan.New(fan.Config{
			Backend:        cfg.Fan.Backend,
			PWMPin:         cfg.Fan.PWMPin,
			PWMFrequency:   cfg.Fan.PWMFrequency,
			TempMinC:       cfg.Fan.TempMinC,
			TempMaxC:       cfg.Fan.TempMaxC,
			DutyMin:        cfg.Fan.DutyMin,
			UpdateInterval: cfg.Fan.UpdateInterval,
		})
		if err != nil {
			return nil, err
		}
		// Keep running without the fan so status still reports the error.
		if err := svc.Start(); err != nil {
			d.logf("fan init failed: %v", err)
		}
		d.fan = svc
		d.logf("fan enabled backend=%s pin=%d curve=%.1f..%.1fC duty_min=%.0f interval=%s",
			cfg.Fan.Backend, cfg.Fan.PWMPin, cfg.Fan.TempMinC, cfg.Fan.TempMaxC, cfg.Fan.DutyMin, cfg.Fan.UpdateInterval)
	}

	if cfg.Bargraph.Enable {
		svc, err := bargraph.New(bargraph.Config{
			Pins:           cfg.Bargraph.Pins,
			SourceLow:      cfg.Bargraph.SourceLow,
			SourceHigh:     cfg.Bargraph.SourceHigh,
			LowPad:         cfg.Bargraph.LowPad,
			HighPad:        cfg.Bargraph.HighPad,
			UpdateInterval: cfg.Bargraph.UpdateInterval,
		})
		if err != nil {
			d.Close()
			return nil, err
		}
		if err := svc.Start(); err != nil {
			d.logf("bargraph init failed: %v", err)
		}
		d.bar = svc
		d.logf("bargraph enabled pins=%v range=%.1f..%.1f interval=%s",
			cfg.Bargraph.Pins, cfg.Bargraph.SourceLow, cfg.Bargraph.SourceHigh, cfg.Bargraph.UpdateInterval)
	}

	return d, nil
}

// Run ticks until ctx is done.
func (d *daemon) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		d.tick()
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// tick polls each service. The sensor is read at most once per tick, and
// only if some service's gate is open.
func (d *daemon) tick() {
	var (
		cached float64
		err    error
		done   bool
	)
	read := func() (float64, error) {
		if !done {
			cached, err = d.read()
			done = true
		}
		return cached, err
	}

	if d.fan != nil {
		d.fan.Poll(read)
	}
	if d.bar != nil {
		d.bar.Poll(read)
	}
	if d.status.ShouldRun() {
		d.logf("%s", d.statusLine())
	}
}

func (d *daemon) statusLine() string {
	var b strings.Builder
	b.WriteString("status")
	if d.fan != nil {
		s := d.fan.Snapshot()
		fmt.Fprintf(&b, " fan_duty=%d temp_c=%.1f cpu_valid=%t", s.PWMDuty, s.CPUTempC, s.CPUValid)
		if s.LastError != "" {
			fmt.Fprintf(&b, " fan_error=%q", s.LastError)
		}
	}
	if d.bar != nil {
		s := d.bar.Snapshot()
		fmt.Fprintf(&b, " bar_level=%d/%d", s.Level, s.MaxLevel)
		if s.LastError != "" {
			fmt.Fprintf(&b, " bar_error=%q", s.LastError)
		}
	}
	if d.fan == nil && d.bar == nil {
		b.WriteString(" idle")
	}
	return b.String()
}

func (d *daemon) Close() {
	if d.fan != nil {
		if err := d.fan.Close(); err != nil {
			d.logf("fan close: %v", err)
		}
	}
	if d.bar != nil {
		if err := d.bar.Close(); err != nil {
			d.logf("bargraph close: %v", err)
		}
	}
}
