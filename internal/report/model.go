package report

import (
	"sort"
	"strings"
)

// BuildModelSummaries groups trades, positions and account totals by model
// id and produces one summary per model, sorted by id. Realized PnL and
// commission come from the model's trades, unrealized PnL from its
// positions; equity and Sharpe are passed through from the account totals
// when the feed supplied them.
func BuildModelSummaries(trades []TradeRecord, positions []PositionRecord, totals []ModelTotal, recentN int) []ModelSummary {
	byModel := make(map[string]*ModelSummary)
	var order []string

	get := func(modelID string) *ModelSummary {
		if m, ok := byModel[modelID]; ok {
			return m
		}
		m := &ModelSummary{ModelID: modelID}
		byModel[modelID] = m
		order = append(order, modelID)
		return m
	}

	tradesByModel := make(map[string][]TradeRecord)
	for _, t := range trades {
		m := get(t.ModelID)
		m.TotalRealizedPnL = m.TotalRealizedPnL.Add(t.RealizedPnL)
		m.TotalCommission = m.TotalCommission.Add(t.Commission)
		tradesByModel[t.ModelID] = append(tradesByModel[t.ModelID], t)
	}

	for _, p := range positions {
		m := get(p.ModelID)
		// last-write-wins on a repeated symbol, keeping arrival order
		replaced := false
		for i, existing := range m.Positions {
			if existing.Symbol == p.Symbol {
				m.Positions[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			m.Positions = append(m.Positions, p)
		}
	}
	for _, m := range byModel {
		for _, p := range m.Positions {
			m.TotalUnrealizedPnL = m.TotalUnrealizedPnL.Add(p.UnrealizedPnL)
		}
	}

	for _, t := range totals {
		m := get(t.ModelID)
		m.TotalEquity = t.Equity
		m.Sharpe = t.Sharpe
		m.HasTotal = true
	}

	for id, m := range byModel {
		m.RecentTrades = RecentTrades(tradesByModel[id], recentN)
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := strings.ToLower(order[i]), strings.ToLower(order[j])
		if a != b {
			return a < b
		}
		return order[i] < order[j]
	})
	out := make([]ModelSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byModel[id])
	}
	return out
}
