package report

import "strings"

// ModelFilter selects records by model identifier. Matching is
// case-insensitive substring; exclude wins over include; an empty include
// list matches everything. The same filter is applied to trades, positions
// and model totals so an excluded model cannot leak partial data into a
// combined summary.
type ModelFilter struct {
	include []string
	exclude []string
}

func NewModelFilter(include, exclude []string) ModelFilter {
	return ModelFilter{
		include: lowerAll(include),
		exclude: lowerAll(exclude),
	}
}

func lowerAll(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Match reports whether a model id passes the filter.
func (f ModelFilter) Match(modelID string) bool {
	id := strings.ToLower(modelID)
	for _, p := range f.exclude {
		if strings.Contains(id, p) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, p := range f.include {
		if strings.Contains(id, p) {
			return true
		}
	}
	return false
}

func (f ModelFilter) Trades(records []TradeRecord) []TradeRecord {
	out := make([]TradeRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r.ModelID) {
			out = append(out, r)
		}
	}
	return out
}

func (f ModelFilter) Positions(records []PositionRecord) []PositionRecord {
	out := make([]PositionRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r.ModelID) {
			out = append(out, r)
		}
	}
	return out
}

func (f ModelFilter) Totals(totals []ModelTotal) []ModelTotal {
	out := make([]ModelTotal, 0, len(totals))
	for _, t := range totals {
		if f.Match(t.ModelID) {
			out = append(out, t)
		}
	}
	return out
}
