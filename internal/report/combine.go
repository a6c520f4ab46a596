package report

// Combine merges the two aggregation outputs into one overall view. Either
// side may be nil when its upstream source failed; totals then degrade to
// the available side and the result is marked partial so the renderer can
// annotate it. One source failing must never prevent reporting on the other.
func Combine(trades *TradeSummary, account *AccountSummary) *OverallSummary {
	o := &OverallSummary{
		TradesSummary:  trades,
		AccountSummary: account,
		Partial:        trades == nil || account == nil,
	}
	if trades != nil {
		o.TotalPnL = o.TotalPnL.Add(trades.TotalRealizedPnL)
		o.TotalCommission = o.TotalCommission.Add(trades.TotalCommission)
	}
	if account != nil {
		o.TotalPnL = o.TotalPnL.Add(account.TotalUnrealizedPnL)
	}
	return o
}
