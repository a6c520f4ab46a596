package report

import "sort"

// AggregateTrades computes realized-PnL and commission totals over a
// filtered set of trades. The grouping key is the symbol string exactly as
// delivered; upstream symbols are already canonical.
func AggregateTrades(trades []TradeRecord) *TradeSummary {
	s := &TradeSummary{
		TotalTrades:     len(trades),
		SymbolBreakdown: make(map[string]SymbolTradeStats, len(trades)),
	}
	for _, t := range trades {
		s.TotalRealizedPnL = s.TotalRealizedPnL.Add(t.RealizedPnL)
		s.TotalCommission = s.TotalCommission.Add(t.Commission)

		stats := s.SymbolBreakdown[t.Symbol]
		stats.RealizedPnL = stats.RealizedPnL.Add(t.RealizedPnL)
		stats.Commission = stats.Commission.Add(t.Commission)
		stats.Count++
		s.SymbolBreakdown[t.Symbol] = stats
	}
	s.TotalGrossPnL = s.TotalRealizedPnL.Sub(s.TotalCommission)
	return s
}

// RecentTrades returns the n trades with the latest exit time, ties broken
// by entry time descending and then original arrival order. Open trades
// (no exit yet) sort after every closed one. Used only for rendering,
// never for aggregate math.
func RecentTrades(trades []TradeRecord, n int) []TradeRecord {
	if n <= 0 || len(trades) == 0 {
		return nil
	}
	sorted := make([]TradeRecord, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Open() != b.Open() {
			return b.Open()
		}
		if !a.ExitTime.Equal(b.ExitTime) {
			return a.ExitTime.After(b.ExitTime)
		}
		return a.EntryTime.After(b.EntryTime)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
