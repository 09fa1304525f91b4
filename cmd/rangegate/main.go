package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rangegate/internal/config"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./dev.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	d, err := newDaemon(cfg)
	if err != nil {
		log.Fatalf("init failed: %v", err)
	}
	defer d.Close()

	log.Printf("rangegate starting")
	log.Printf("poll_interval=%s status_interval=%s thermal=%s", cfg.PollInterval, cfg.Status.Interval, cfg.Thermal.Path)

	d.Run(ctx, cfg.PollInterval)
	log.Printf("rangegate stopping")
}
