package report

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideLong  Side = "Long"
	SideShort Side = "Short"
)

// TradeRecord is one completed (or still-open) trade after normalization.
// Records are immutable once produced and discarded at the end of a run.
type TradeRecord struct {
	Symbol      string
	Side        Side
	Quantity    decimal.Decimal
	EntryPrice  decimal.Decimal
	ExitPrice   decimal.Decimal // zero value while the trade is open
	EntryTime   time.Time
	ExitTime    time.Time // zero value while the trade is open
	RealizedPnL decimal.Decimal
	Commission  decimal.Decimal
	ModelID     string
}

// Open reports whether the trade has no exit yet.
func (t TradeRecord) Open() bool { return t.ExitTime.IsZero() }

// PositionRecord is one open position from the current account snapshot.
// Quantity is signed; its sign encodes the side.
type PositionRecord struct {
	Symbol        string
	Side          Side
	Quantity      decimal.Decimal
	EntryPrice    decimal.Decimal
	CurrentPrice  decimal.Decimal
	Margin        decimal.Decimal
	UnrealizedPnL decimal.Decimal
	Leverage      int
	Confidence    float64 // 0 when the feed did not supply one
	ModelID       string
}

// ModelTotal carries the per-model headline stats the upstream account-totals
// feed supplies directly (equity and Sharpe are never computed here).
type ModelTotal struct {
	ModelID       string
	RealizedPnL   decimal.Decimal
	Equity        decimal.Decimal
	UnrealizedPnL decimal.Decimal
	Sharpe        float64
}

// SymbolTradeStats is the per-symbol slice of a trade summary.
type SymbolTradeStats struct {
	RealizedPnL decimal.Decimal `json:"realized_pnl"`
	Count       int             `json:"count"`
	Commission  decimal.Decimal `json:"commission"`
}

// TradeSummary aggregates a filtered set of trade records.
type TradeSummary struct {
	TotalTrades      int                         `json:"total_trades"`
	TotalRealizedPnL decimal.Decimal             `json:"total_realized_pnl"`
	TotalCommission  decimal.Decimal             `json:"total_commission"`
	TotalGrossPnL    decimal.Decimal             `json:"total_gross_pnl"`
	SymbolBreakdown  map[string]SymbolTradeStats `json:"symbol_breakdown"`
}

// SymbolPosition is the snapshot passthrough for one symbol's open position.
type SymbolPosition struct {
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
	Margin        decimal.Decimal `json:"margin"`
	Quantity      decimal.Decimal `json:"quantity"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	EntryPrice    decimal.Decimal `json:"entry_price"`
}

// AccountSummary aggregates a filtered position snapshot.
type AccountSummary struct {
	TotalUnrealizedPnL decimal.Decimal           `json:"total_unrealized_pnl"`
	TotalMargin        decimal.Decimal           `json:"total_margin"`
	TotalPositions     int                       `json:"total_positions"`
	SymbolPositions    map[string]SymbolPosition `json:"symbol_positions"`
}

// OverallSummary merges both sides. Either summary may be nil when its
// source failed; Partial marks that degradation for the renderer.
type OverallSummary struct {
	TradesSummary   *TradeSummary   `json:"trades_summary"`
	AccountSummary  *AccountSummary `json:"account_summary"`
	TotalPnL        decimal.Decimal `json:"total_pnl"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	Partial         bool            `json:"partial"`
}

// ModelSummary is the per-model view used for report rendering.
type ModelSummary struct {
	ModelID            string
	TotalRealizedPnL   decimal.Decimal
	TotalUnrealizedPnL decimal.Decimal
	TotalEquity        decimal.Decimal
	TotalCommission    decimal.Decimal
	Sharpe             float64
	HasTotal           bool // account-totals source supplied equity/sharpe
	Positions          []PositionRecord
	RecentTrades       []TradeRecord
}

// Snapshot is everything one run produces: the combined summary, the
// per-model views, and the normalization diagnostics.
type Snapshot struct {
	GeneratedAt    time.Time
	Overall        *OverallSummary
	Models         []ModelSummary
	Skipped        SkipTally
	MissingSources []string // "trades" and/or "account-totals"
}
