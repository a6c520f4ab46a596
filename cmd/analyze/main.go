package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/aukit/nof1-reporter/internal/config"
	"github.com/aukit/nof1-reporter/internal/logger"
	"github.com/aukit/nof1-reporter/internal/nof1"
	"github.com/aukit/nof1-reporter/internal/report"
)

// analyze runs one aggregation pass and prints the combined summary, either
// against the live API or against captured payload files.
func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (optional)")
	tradesFile := flag.String("trades-file", "", "read trades payload from a file instead of the API")
	accountsFile := flag.String("accounts-file", "", "read account totals payload from a file instead of the API")
	asText := flag.Bool("text", false, "print the rendered report instead of JSON")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
			os.Exit(1)
		}
		cfg = config.Default()
	}

	log := logger.New("error")
	client := nof1.NewClient(cfg, log)
	ctx := context.Background()

	var src report.Sources

	if *tradesFile != "" {
		body, err := loadPayloadFile(*tradesFile)
		if err == nil {
			src.Trades, err = nof1.ParseTradesPayload(body)
		}
		src.TradesErr = err
	} else {
		src.Trades, src.TradesErr = client.FetchTrades(ctx)
	}

	if *accountsFile != "" {
		body, err := loadPayloadFile(*accountsFile)
		if err == nil {
			var data *nof1.AccountData
			if data, err = nof1.ParseAccountTotalsPayload(body); err == nil {
				src.Positions = data.Positions
				src.Totals = data.Totals
			}
		}
		src.AccountErr = err
	} else {
		data, err := client.FetchAccountTotals(ctx)
		if err == nil {
			src.Positions = data.Positions
			src.Totals = data.Totals
		}
		src.AccountErr = err
	}

	filter := report.NewModelFilter(cfg.Models.Include, cfg.Models.Exclude)
	snap, err := report.BuildSnapshot(time.Now().UTC(), src, filter, cfg.Models.RecentTrades)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze error: %v\n", err)
		os.Exit(1)
	}

	if *asText {
		renderer := report.Renderer{
			TopPerformers: cfg.Report.TopPerformers,
			MaxMessageLen: cfg.Report.MaxMessageLen,
		}
		fmt.Println(renderer.Render(snap))
		return
	}

	out := map[string]any{
		"trades_summary":  snap.Overall.TradesSummary,
		"account_summary": snap.Overall.AccountSummary,
		"overall": map[string]any{
			"total_pnl":        snap.Overall.TotalPnL,
			"total_commission": snap.Overall.TotalCommission,
		},
		"partial":         snap.Overall.Partial,
		"skipped_records": snap.Skipped.Total,
	}
	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode summary: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}

// loadPayloadFile reads a JSON payload, tolerating the request-metadata
// preamble found in hand-captured response files by scanning to the start
// of the JSON document.
func loadPayloadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload file: %w", err)
	}
	if idx := bytes.IndexAny(data, "{["); idx > 0 {
		data = data[idx:]
	}
	return data, nil
}
