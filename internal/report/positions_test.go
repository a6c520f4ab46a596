package report

import (
	"testing"

	"github.com/shopspring/decimal"
)

func position(symbol, model, unrealized, margin string) PositionRecord {
	return PositionRecord{
		Symbol:        symbol,
		Side:          SideLong,
		ModelID:       model,
		Quantity:      decimal.RequireFromString("1"),
		UnrealizedPnL: decimal.RequireFromString(unrealized),
		Margin:        decimal.RequireFromString(margin),
		Leverage:      1,
	}
}

func TestAggregatePositions(t *testing.T) {
	positions := []PositionRecord{
		position("XRP", "claude", "174.34", "1670.58"),
		position("BTC", "claude", "12.73", "50.00"),
	}

	s := AggregatePositions(positions)

	if s.TotalPositions != 2 {
		t.Errorf("total positions = %d, want 2", s.TotalPositions)
	}
	if want := decimal.RequireFromString("187.07"); !s.TotalUnrealizedPnL.Equal(want) {
		t.Errorf("total unrealized pnl = %s, want %s", s.TotalUnrealizedPnL, want)
	}
	if want := decimal.RequireFromString("1720.58"); !s.TotalMargin.Equal(want) {
		t.Errorf("total margin = %s, want %s", s.TotalMargin, want)
	}

	xrp, ok := s.SymbolPositions["XRP"]
	if !ok {
		t.Fatal("XRP missing from symbol positions")
	}
	if !xrp.Margin.Equal(decimal.RequireFromString("1670.58")) {
		t.Errorf("XRP margin = %s", xrp.Margin)
	}
}

// A consistent snapshot never repeats a symbol for one model; when upstream
// sends one anyway the later record overwrites the earlier, and the totals
// count only the survivor.
func TestAggregatePositionsLastWriteWins(t *testing.T) {
	earlier := position("BTC", "claude", "100.00", "500.00")
	later := position("BTC", "claude", "-25.00", "450.00")

	s := AggregatePositions([]PositionRecord{earlier, later})

	if s.TotalPositions != 1 {
		t.Fatalf("total positions = %d, want 1", s.TotalPositions)
	}
	btc := s.SymbolPositions["BTC"]
	if !btc.UnrealizedPnL.Equal(decimal.RequireFromString("-25.00")) {
		t.Errorf("unrealized pnl = %s, want the later record's -25.00", btc.UnrealizedPnL)
	}
	if !s.TotalUnrealizedPnL.Equal(decimal.RequireFromString("-25.00")) {
		t.Errorf("total unrealized = %s, want -25.00 (earlier record not double counted)",
			s.TotalUnrealizedPnL)
	}
	if !s.TotalMargin.Equal(decimal.RequireFromString("450.00")) {
		t.Errorf("total margin = %s, want 450.00", s.TotalMargin)
	}
}

// Two models holding the same symbol are distinct positions: both count in
// the totals and the symbol entry carries their sum, consistent with the
// per-model summaries built from the same records.
func TestAggregatePositionsSameSymbolAcrossModels(t *testing.T) {
	positions := []PositionRecord{
		position("BTC", "claude", "100.00", "500.00"),
		position("BTC", "qwen", "40.00", "300.00"),
	}

	s := AggregatePositions(positions)

	if s.TotalPositions != 2 {
		t.Fatalf("total positions = %d, want 2", s.TotalPositions)
	}
	if want := decimal.RequireFromString("140.00"); !s.TotalUnrealizedPnL.Equal(want) {
		t.Errorf("total unrealized = %s, want %s", s.TotalUnrealizedPnL, want)
	}
	if want := decimal.RequireFromString("800.00"); !s.TotalMargin.Equal(want) {
		t.Errorf("total margin = %s, want %s", s.TotalMargin, want)
	}
	btc := s.SymbolPositions["BTC"]
	if !btc.UnrealizedPnL.Equal(decimal.RequireFromString("140.00")) {
		t.Errorf("BTC unrealized = %s, want combined 140.00", btc.UnrealizedPnL)
	}
	if !btc.Margin.Equal(decimal.RequireFromString("800.00")) {
		t.Errorf("BTC margin = %s, want combined 800.00", btc.Margin)
	}

	var perModelSum decimal.Decimal
	for _, m := range BuildModelSummaries(nil, positions, nil, 5) {
		perModelSum = perModelSum.Add(m.TotalUnrealizedPnL)
	}
	if !perModelSum.Equal(s.TotalUnrealizedPnL) {
		t.Errorf("per-model unrealized sum %s != overall %s", perModelSum, s.TotalUnrealizedPnL)
	}
}

func TestAggregatePositionsEmpty(t *testing.T) {
	s := AggregatePositions(nil)
	if s.TotalPositions != 0 || !s.TotalUnrealizedPnL.IsZero() || !s.TotalMargin.IsZero() {
		t.Errorf("empty aggregate = %+v", s)
	}
}
