package report

// AggregatePositions folds one position snapshot into per-symbol and total
// unrealized-PnL/margin figures. A consistent snapshot never carries two
// positions for the same symbol and model; when it does anyway, the later
// record in arrival order overwrites the earlier (last-write-wins, not a
// merge) and the totals count the surviving record only. Different models
// holding the same symbol are distinct positions: their PnL and margin sum
// into the totals and into the symbol's combined entry.
func AggregatePositions(positions []PositionRecord) *AccountSummary {
	type holder struct{ symbol, model string }
	deduped := make(map[holder]PositionRecord, len(positions))
	var order []holder
	for _, p := range positions {
		k := holder{p.Symbol, p.ModelID}
		if _, seen := deduped[k]; !seen {
			order = append(order, k)
		}
		deduped[k] = p
	}

	s := &AccountSummary{
		SymbolPositions: make(map[string]SymbolPosition, len(order)),
	}
	for _, k := range order {
		p := deduped[k]
		s.TotalUnrealizedPnL = s.TotalUnrealizedPnL.Add(p.UnrealizedPnL)
		s.TotalMargin = s.TotalMargin.Add(p.Margin)

		agg := s.SymbolPositions[p.Symbol]
		agg.UnrealizedPnL = agg.UnrealizedPnL.Add(p.UnrealizedPnL)
		agg.Margin = agg.Margin.Add(p.Margin)
		agg.Quantity = agg.Quantity.Add(p.Quantity)
		agg.CurrentPrice = p.CurrentPrice
		agg.EntryPrice = p.EntryPrice
		s.SymbolPositions[p.Symbol] = agg
	}
	s.TotalPositions = len(order)
	return s
}
