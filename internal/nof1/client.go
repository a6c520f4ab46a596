package nof1

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aukit/nof1-reporter/internal/config"
	"github.com/aukit/nof1-reporter/internal/logger"
)

// Client fetches raw trading data from the NoF1 API. Retry and backoff live
// here, at the data-source boundary; the aggregation core never retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	backoff    time.Duration
	logger     *logger.Logger
}

func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.NoF1Timeout()},
		baseURL:    strings.TrimRight(cfg.NoF1.BaseURL, "/"),
		maxRetries: 3,
		backoff:    time.Second,
		logger:     log,
	}
}

// FetchTrades returns the raw trade records from /api/trades. Validation is
// the normalizer's job; records come back as loosely-typed maps.
func (c *Client) FetchTrades(ctx context.Context) ([]map[string]any, error) {
	body, err := c.get(ctx, "/api/trades")
	if err != nil {
		return nil, fmt.Errorf("fetch trades: %w", err)
	}
	trades, err := ParseTradesPayload(body)
	if err != nil {
		return nil, fmt.Errorf("parse trades payload: %w", err)
	}
	return trades, nil
}

// FetchAccountTotals returns the raw position records and per-model totals
// from /api/account-totals.
func (c *Client) FetchAccountTotals(ctx context.Context) (*AccountData, error) {
	body, err := c.get(ctx, "/api/account-totals")
	if err != nil {
		return nil, fmt.Errorf("fetch account totals: %w", err)
	}
	data, err := ParseAccountTotalsPayload(body)
	if err != nil {
		return nil, fmt.Errorf("parse account totals payload: %w", err)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff << (attempt - 1)
			c.logger.Debug("retrying fetch", "url", url, "attempt", attempt, "delay", delay.String())
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}

		lastErr = fmt.Errorf("%s returned status %d", url, resp.StatusCode)
		if !retryableStatus(resp.StatusCode) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
