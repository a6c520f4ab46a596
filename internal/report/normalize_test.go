package report

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func rawTrade(overrides map[string]any) map[string]any {
	raw := map[string]any{
		"symbol":                   "SOL",
		"side":                     "long",
		"quantity":                 10.0,
		"entry_price":              150.0,
		"exit_price":               160.0,
		"entry_time":               "2026-08-20T14:33:22Z",
		"exit_time":                "2026-08-21T10:00:00Z",
		"realized_net_pnl":         106.83,
		"total_commission_dollars": 2.10,
		"model_id":                 "claude",
	}
	for k, v := range overrides {
		if v == nil {
			delete(raw, k)
		} else {
			raw[k] = v
		}
	}
	return raw
}

func rawPosition(overrides map[string]any) map[string]any {
	raw := map[string]any{
		"symbol":         "BTC",
		"quantity":       0.5,
		"entry_price":    60000.0,
		"current_price":  61000.0,
		"margin":         1500.0,
		"unrealized_pnl": 500.0,
		"model_id":       "qwen",
	}
	for k, v := range overrides {
		if v == nil {
			delete(raw, k)
		} else {
			raw[k] = v
		}
	}
	return raw
}

func TestNormalizeTrade(t *testing.T) {
	rec, err := NormalizeTrade(rawTrade(nil))
	if err != nil {
		t.Fatalf("NormalizeTrade: %v", err)
	}
	if rec.Symbol != "SOL" || rec.ModelID != "claude" || rec.Side != SideLong {
		t.Errorf("unexpected identity fields: %+v", rec)
	}
	if !rec.RealizedPnL.Equal(decimal.RequireFromString("106.83")) {
		t.Errorf("realized pnl = %s, want 106.83", rec.RealizedPnL)
	}
	if !rec.Commission.Equal(decimal.RequireFromString("2.1")) {
		t.Errorf("commission = %s, want 2.1", rec.Commission)
	}
	wantEntry := time.Date(2026, 8, 20, 14, 33, 22, 0, time.UTC)
	if !rec.EntryTime.Equal(wantEntry) {
		t.Errorf("entry time = %s, want %s", rec.EntryTime, wantEntry)
	}
	if rec.Open() {
		t.Error("trade with exit_time should not be open")
	}
}

func TestNormalizeTradeAliases(t *testing.T) {
	raw := rawTrade(map[string]any{
		"symbol":                   nil,
		"asset":                    "ETH",
		"realized_net_pnl":         nil,
		"pnl":                      -352.20,
		"total_commission_dollars": nil,
		"commission":               5.00,
		"entry_time":               nil,
		"entry_human_time":         "2026-08-19T08:00:00Z",
		"exit_time":                float64(1787997600000), // epoch millis
	})
	rec, err := NormalizeTrade(raw)
	if err != nil {
		t.Fatalf("NormalizeTrade: %v", err)
	}
	if rec.Symbol != "ETH" {
		t.Errorf("symbol = %q, want ETH via asset alias", rec.Symbol)
	}
	if !rec.RealizedPnL.Equal(decimal.RequireFromString("-352.2")) {
		t.Errorf("realized pnl = %s, want -352.2 via pnl alias", rec.RealizedPnL)
	}
	if rec.ExitTime.IsZero() {
		t.Error("epoch-millis exit_time should parse")
	}
}

func TestNormalizeTradeMalformed(t *testing.T) {
	tests := []struct {
		name        string
		raw         map[string]any
		wantMissing string
		wantInvalid string
	}{
		{
			name:        "missing realized pnl",
			raw:         rawTrade(map[string]any{"realized_net_pnl": nil}),
			wantMissing: "realized_pnl",
		},
		{
			name:        "missing symbol",
			raw:         rawTrade(map[string]any{"symbol": nil}),
			wantMissing: "symbol",
		},
		{
			name:        "NaN realized pnl",
			raw:         rawTrade(map[string]any{"realized_net_pnl": math.NaN()}),
			wantInvalid: "realized_pnl",
		},
		{
			name:        "infinite commission",
			raw:         rawTrade(map[string]any{"total_commission_dollars": math.Inf(1)}),
			wantInvalid: "commission",
		},
		{
			name:        "negative commission",
			raw:         rawTrade(map[string]any{"total_commission_dollars": -1.0}),
			wantInvalid: "commission",
		},
		{
			name:        "unparseable entry time",
			raw:         rawTrade(map[string]any{"entry_time": "10/21, 14:33:22"}),
			wantInvalid: "entry_time",
		},
		{
			name:        "unknown side",
			raw:         rawTrade(map[string]any{"side": "sideways"}),
			wantInvalid: "side",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeTrade(tt.raw)
			var mal *MalformedRecordError
			if !errors.As(err, &mal) {
				t.Fatalf("want MalformedRecordError, got %v", err)
			}
			if tt.wantMissing != "" && !contains(mal.Missing, tt.wantMissing) {
				t.Errorf("missing = %v, want %q listed", mal.Missing, tt.wantMissing)
			}
			if tt.wantInvalid != "" && !contains(mal.Invalid, tt.wantInvalid) {
				t.Errorf("invalid = %v, want %q listed", mal.Invalid, tt.wantInvalid)
			}
			if mal.Raw == nil {
				t.Error("error should carry the original payload")
			}
		})
	}
}

func TestNormalizePositionSide(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]any
		wantSide Side
		wantErr  bool
		conflict bool
	}{
		{
			name:     "side derived from positive quantity",
			raw:      rawPosition(nil),
			wantSide: SideLong,
		},
		{
			name:     "side derived from negative quantity",
			raw:      rawPosition(map[string]any{"quantity": -0.5}),
			wantSide: SideShort,
		},
		{
			name:     "explicit side agrees",
			raw:      rawPosition(map[string]any{"side": "long"}),
			wantSide: SideLong,
		},
		{
			name:     "explicit side disagrees with sign",
			raw:      rawPosition(map[string]any{"side": "short", "quantity": 0.5}),
			wantErr:  true,
			conflict: true,
		},
		{
			name:     "flat quantity keeps explicit side",
			raw:      rawPosition(map[string]any{"quantity": 0.0, "side": "short"}),
			wantSide: SideShort,
		},
		{
			name:    "flat quantity without side",
			raw:     rawPosition(map[string]any{"quantity": 0.0}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NormalizePosition(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("want error, got none")
				}
				var conflict *ValidationConflictError
				if tt.conflict && !errors.As(err, &conflict) {
					t.Fatalf("want ValidationConflictError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePosition: %v", err)
			}
			if rec.Side != tt.wantSide {
				t.Errorf("side = %q, want %q", rec.Side, tt.wantSide)
			}
		})
	}
}

func TestNormalizePositionOptionalFields(t *testing.T) {
	rec, err := NormalizePosition(rawPosition(map[string]any{
		"lev":  "10x",
		"conf": 0.75,
	}))
	if err != nil {
		t.Fatalf("NormalizePosition: %v", err)
	}
	if rec.Leverage != 10 {
		t.Errorf("leverage = %d, want 10 from %q", rec.Leverage, "10x")
	}
	if rec.Confidence != 0.75 {
		t.Errorf("confidence = %v, want 0.75", rec.Confidence)
	}

	if _, err := NormalizePosition(rawPosition(map[string]any{"confidence": 1.5})); err == nil {
		t.Error("confidence above 1 should be rejected")
	}
	if _, err := NormalizePosition(rawPosition(map[string]any{"leverage": -3.0})); err == nil {
		t.Error("negative leverage should be rejected")
	}
	if _, err := NormalizePosition(rawPosition(map[string]any{"margin": -1.0})); err == nil {
		t.Error("negative margin should be rejected")
	}
}

func TestNormalizeTradesSkipsMalformed(t *testing.T) {
	raws := []map[string]any{
		rawTrade(map[string]any{"realized_net_pnl": nil}),
		rawTrade(nil),
	}
	records, skipped := NormalizeTrades(raws)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (malformed one skipped)", len(records))
	}
	if skipped.Total != 1 {
		t.Errorf("skipped total = %d, want 1", skipped.Total)
	}
	if skipped.Reasons["missing realized_pnl"] != 1 {
		t.Errorf("skip reasons = %v, want missing realized_pnl counted", skipped.Reasons)
	}
}

func TestSkipTallyString(t *testing.T) {
	var tally SkipTally
	if tally.String() != "" {
		t.Errorf("empty tally renders %q, want empty", tally.String())
	}
	tally.add("missing realized_pnl")
	tally.add("side/quantity conflict")
	tally.add("missing realized_pnl")
	want := "3 records skipped (missing realized_pnl: 2, side/quantity conflict: 1)"
	if got := tally.String(); got != want {
		t.Errorf("tally = %q, want %q", got, want)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
