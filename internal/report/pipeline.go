package report

import (
	"errors"
	"time"
)

// Sources holds the raw results of the two upstream fetches. A nil error
// with an empty slice is a valid (empty) snapshot; a non-nil error marks
// that side as unavailable.
type Sources struct {
	Trades     []map[string]any
	TradesErr  error
	Positions  []map[string]any
	Totals     []ModelTotal
	AccountErr error
}

// BuildSnapshot runs the whole aggregation pipeline over one snapshot of
// fetched data: normalize, filter, aggregate both sides, combine, group per
// model. It is the synchronization point between the two fetches: callers
// invoke it only once both results (or their failures) are in hand.
//
// One failed source degrades to a partial summary; both failing is the
// run's single terminal error.
func BuildSnapshot(now time.Time, src Sources, filter ModelFilter, recentN int) (*Snapshot, error) {
	if src.TradesErr != nil && src.AccountErr != nil {
		return nil, &SourceUnavailableError{
			Sources: []string{"trades", "account-totals"},
			Err:     errors.Join(src.TradesErr, src.AccountErr),
		}
	}

	snap := &Snapshot{GeneratedAt: now}

	var (
		trades    []TradeRecord
		positions []PositionRecord
		totals    []ModelTotal

		tradeSummary   *TradeSummary
		accountSummary *AccountSummary
	)

	if src.TradesErr != nil {
		snap.MissingSources = append(snap.MissingSources, "trades")
	} else {
		normalized, skipped := NormalizeTrades(src.Trades)
		snap.Skipped = snap.Skipped.Merge(skipped)
		trades = filter.Trades(normalized)
		tradeSummary = AggregateTrades(trades)
	}

	if src.AccountErr != nil {
		snap.MissingSources = append(snap.MissingSources, "account-totals")
	} else {
		normalized, skipped := NormalizePositions(src.Positions)
		snap.Skipped = snap.Skipped.Merge(skipped)
		positions = filter.Positions(normalized)
		totals = filter.Totals(src.Totals)
		accountSummary = AggregatePositions(positions)
	}

	snap.Overall = Combine(tradeSummary, accountSummary)
	snap.Models = BuildModelSummaries(trades, positions, totals, recentN)
	return snap, nil
}
