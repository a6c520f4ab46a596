package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aukit/nof1-reporter/internal/config"
	"github.com/aukit/nof1-reporter/internal/logger"
	"github.com/aukit/nof1-reporter/internal/nof1"
	"github.com/aukit/nof1-reporter/internal/report"
	"github.com/aukit/nof1-reporter/internal/telegram"
)

type Scheduler struct {
	client   *nof1.Client
	notifier *telegram.Notifier
	config   *config.Config
	logger   *logger.Logger
	filter   report.ModelFilter
	renderer report.Renderer
	dryRun   bool
}

func NewScheduler(
	client *nof1.Client,
	notifier *telegram.Notifier,
	cfg *config.Config,
	log *logger.Logger,
	dryRun bool,
) *Scheduler {
	return &Scheduler{
		client:   client,
		notifier: notifier,
		config:   cfg,
		logger:   log,
		filter:   report.NewModelFilter(cfg.Models.Include, cfg.Models.Exclude),
		renderer: report.Renderer{
			TopPerformers: cfg.Report.TopPerformers,
			MaxMessageLen: cfg.Report.MaxMessageLen,
		},
		dryRun: dryRun,
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	interval := s.config.ReportInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", "interval", interval.String())

	// Run immediately on start
	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in report cycle", "panic", fmt.Sprint(r))
			s.notifier.NotifyError("report cycle panic", fmt.Errorf("%v", r))
		}
	}()

	s.logger.Info("starting report cycle")

	snap, err := s.Snapshot(ctx)
	if err != nil {
		// both sources failed: terminal for this cycle, not for the process
		s.logger.Error("report cycle failed", "error", err)
		s.notifier.NotifyError("report cycle", err)
		return
	}

	if len(snap.MissingSources) > 0 {
		s.logger.Warn("partial snapshot", "missing", snap.MissingSources)
	}
	if snap.Skipped.Total > 0 {
		s.logger.Warn("records skipped during normalization", "detail", snap.Skipped.String())
	}

	text := s.renderer.Render(snap)

	if s.dryRun {
		fmt.Println(text)
		s.logger.Info("dry-run: report printed to stdout")
		return
	}

	if err := s.notifier.SendReport(text); err != nil {
		// delivery failures are surfaced, never retried within the cycle
		s.logger.Error("deliver report", "error", err)
		return
	}

	s.logger.Info("report cycle completed", "models", len(snap.Models))
}

// Snapshot fetches both upstream sources concurrently and runs the
// aggregation pipeline once both results, or their failures, are in. The
// web handlers use the same method for per-request summaries.
func (s *Scheduler) Snapshot(ctx context.Context) (*report.Snapshot, error) {
	var src report.Sources
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		trades, err := s.client.FetchTrades(ctx)
		if err != nil {
			s.logger.Error("fetch trades", "error", err)
			src.TradesErr = err
			return
		}
		src.Trades = trades
	}()
	go func() {
		defer wg.Done()
		data, err := s.client.FetchAccountTotals(ctx)
		if err != nil {
			s.logger.Error("fetch account totals", "error", err)
			src.AccountErr = err
			return
		}
		src.Positions = data.Positions
		src.Totals = data.Totals
	}()
	wg.Wait()

	return report.BuildSnapshot(time.Now().UTC(), src, s.filter, s.config.Models.RecentTrades)
}
