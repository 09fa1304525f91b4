package main

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"rangegate/internal/config"
	"rangegate/internal/fan"
	"rangegate/internal/interval"
)

type logCapture struct {
	lines []string
}

func (l *logCapture) logf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestTick_IdleDoesNotReadSensor(t *testing.T) {
	reads := 0
	logs := &logCapture{}
	d := &daemon{
		read:   func() (float64, error) { reads++; return 50, nil },
		status: interval.New(time.Hour),
		logf:   logs.logf,
	}
	d.tick()
	d.tick()
	if reads != 0 {
		t.Fatalf("reads=%d want 0", reads)
	}
	if len(logs.lines) != 1 || logs.lines[0] != "status idle" {
		t.Fatalf("logs=%q want one idle status line", logs.lines)
	}
}

func TestStatusLine_Fan(t *testing.T) {
	svc, err := fan.New(fan.Config{})
	if err != nil {
		t.Fatalf("fan.New: %v", err)
	}
	d := &daemon{fan: svc, status: interval.New(time.Hour)}
	got := d.statusLine()
	if !strings.HasPrefix(got, "status fan_duty=0 temp_c=0.0 cpu_valid=false") {
		t.Fatalf("status=%q", got)
	}
}

func TestNewDaemon_Disabled(t *testing.T) {
	cfg, err := config.Parse([]byte("status:\n  interval: 1h\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	d, err := newDaemon(cfg)
	if err != nil {
		t.Fatalf("newDaemon: %v", err)
	}
	defer d.Close()
	if d.fan != nil || d.bar != nil {
		t.Fatalf("services enabled: fan=%v bar=%v", d.fan, d.bar)
	}
	if d.status.Interval() != time.Hour {
		t.Fatalf("status interval=%s want 1h", d.status.Interval())
	}
}

func TestNewDaemon_FanCurveError(t *testing.T) {
	cfg := config.Config{
		Status: config.StatusConfig{Interval: time.Hour},
		Fan:    config.FanConfig{Enable: true, Backend: "pwm", TempMinC: 50, TempMaxC: 50},
	}
	if _, err := newDaemon(cfg); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	logs := &logCapture{}
	d := &daemon{status: interval.New(time.Hour), logf: logs.logf}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
