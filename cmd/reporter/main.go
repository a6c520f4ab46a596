package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aukit/nof1-reporter/internal/config"
	"github.com/aukit/nof1-reporter/internal/logger"
	"github.com/aukit/nof1-reporter/internal/nof1"
	"github.com/aukit/nof1-reporter/internal/scheduler"
	"github.com/aukit/nof1-reporter/internal/telegram"
	"github.com/aukit/nof1-reporter/internal/web"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dryRun := flag.Bool("dry-run", false, "print reports to stdout instead of sending to Telegram")
	flag.Parse()

	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info("starting nof1-reporter", "interval", cfg.Interval, "dry_run", *dryRun)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := nof1.NewClient(cfg, log)
	notifier := telegram.NewNotifier(cfg, log)
	sched := scheduler.NewScheduler(client, notifier, cfg, log, *dryRun)
	webServer := web.NewServer(sched.Snapshot, cfg, log)

	go sched.Run(ctx)

	go func() {
		if err := webServer.Start(); err != nil {
			log.Error("web server error", "error", err)
		}
	}()

	if !*dryRun {
		notifier.NotifyStatus("🤖 NoF1 reporter started")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutdown signal received", "signal", sig.String())

	cancel() // stop scheduler

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.Error("web server shutdown error", "error", err)
	}

	if !*dryRun {
		notifier.NotifyStatus("🛑 NoF1 reporter stopped")
	}
	log.Info("nof1-reporter stopped")
}
