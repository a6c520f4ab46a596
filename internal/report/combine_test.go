package report

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCombineBothSides(t *testing.T) {
	trades := &TradeSummary{
		TotalRealizedPnL: decimal.RequireFromString("-245.37"),
		TotalCommission:  decimal.RequireFromString("7.10"),
	}
	account := &AccountSummary{
		TotalUnrealizedPnL: decimal.RequireFromString("187.07"),
	}

	o := Combine(trades, account)

	if o.Partial {
		t.Error("both sides present should not be partial")
	}
	if want := decimal.RequireFromString("-58.30"); !o.TotalPnL.Equal(want) {
		t.Errorf("total pnl = %s, want %s (realized + unrealized exactly)", o.TotalPnL, want)
	}
	if want := decimal.RequireFromString("7.10"); !o.TotalCommission.Equal(want) {
		t.Errorf("total commission = %s, want %s", o.TotalCommission, want)
	}
}

func TestCombineTradesOnly(t *testing.T) {
	trades := &TradeSummary{
		TotalRealizedPnL: decimal.RequireFromString("106.83"),
		TotalCommission:  decimal.RequireFromString("2.10"),
	}

	o := Combine(trades, nil)

	if !o.Partial {
		t.Error("missing account side should mark the result partial")
	}
	if !o.TotalPnL.Equal(trades.TotalRealizedPnL) {
		t.Errorf("total pnl = %s, want realized only %s", o.TotalPnL, trades.TotalRealizedPnL)
	}
	if o.AccountSummary != nil {
		t.Error("account summary should stay nil")
	}
}

func TestCombineAccountOnly(t *testing.T) {
	account := &AccountSummary{
		TotalUnrealizedPnL: decimal.RequireFromString("187.07"),
	}

	o := Combine(nil, account)

	if !o.Partial {
		t.Error("missing trades side should mark the result partial")
	}
	if !o.TotalPnL.Equal(account.TotalUnrealizedPnL) {
		t.Errorf("total pnl = %s, want unrealized only %s", o.TotalPnL, account.TotalUnrealizedPnL)
	}
	if !o.TotalCommission.IsZero() {
		t.Errorf("total commission = %s, want zero without trades data", o.TotalCommission)
	}
}
