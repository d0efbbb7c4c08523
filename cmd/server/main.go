package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bit-badger/myweblog/internal/config"
	"github.com/bit-badger/myweblog/internal/data/backends"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	d, err := backends.Open(cfg)
	if err != nil {
		log.Fatalf("failed to open %s backend: %v", cfg.Backend, err)
	}
	defer d.Close()

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := d.StartUp(ctx); err != nil {
		log.Fatalf("failed to start %s backend: %v", cfg.Backend, err)
	}
	log.Printf("%s backend ready", cfg.Backend)

	// The web layer mounts on the data facade; until it does, hold the
	// store open so operators can verify migrations against a live file.
	<-ctx.Done()
	log.Println("shutting down")
}
