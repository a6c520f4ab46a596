package nof1

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/aukit/nof1-reporter/internal/report"
)

// AccountData is the flattened content of one /api/account-totals payload.
type AccountData struct {
	Positions []map[string]any
	Totals    []report.ModelTotal
}

// ParseTradesPayload tolerates the two envelope shapes the feed emits:
// a flat {"trades": [...]} list where every record carries its model id,
// or {"models": [...]} where trades are nested per model. In the nested
// shape the model id is injected into each record.
func ParseTradesPayload(data []byte) ([]map[string]any, error) {
	var envelope map[string]any
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	if flat, ok := envelope["trades"].([]any); ok {
		return asRecords(flat, ""), nil
	}

	if models, ok := envelope["models"].([]any); ok {
		var out []map[string]any
		for _, m := range models {
			item, ok := m.(map[string]any)
			if !ok {
				continue
			}
			modelID := firstString(item, "model_id", "model", "id", "name")
			list, ok := item["recent_trades"].([]any)
			if !ok {
				list, _ = item["trades"].([]any)
			}
			out = append(out, asRecords(list, modelID)...)
		}
		return out, nil
	}

	return nil, fmt.Errorf("unrecognized trades envelope")
}

// ParseAccountTotalsPayload reads per-model headline totals and flattens
// each model's positions (a symbol-keyed map or a list) into raw position
// records with symbol and model id injected.
func ParseAccountTotalsPayload(data []byte) (*AccountData, error) {
	var envelope map[string]any
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	items, ok := envelope["accountTotals"].([]any)
	if !ok {
		items, ok = envelope["models"].([]any)
	}
	if !ok {
		return nil, fmt.Errorf("unrecognized account totals envelope")
	}

	out := &AccountData{}
	for _, it := range items {
		item, ok := it.(map[string]any)
		if !ok {
			continue
		}
		modelID := firstString(item, "model_id", "model", "id", "name")

		out.Totals = append(out.Totals, report.ModelTotal{
			ModelID:       modelID,
			RealizedPnL:   firstDecimal(item, "realized_pnl", "pnl"),
			Equity:        firstDecimal(item, "equity", "dollar_equity"),
			UnrealizedPnL: firstDecimal(item, "total_unrealized_pnl", "unrealized"),
			Sharpe:        firstFloat(item, "sharpe_ratio", "sharpe"),
		})

		positions, ok := item["positions"]
		if !ok {
			positions = item["open_positions"]
		}
		switch p := positions.(type) {
		case map[string]any:
			// symbol-keyed snapshot: {"BTC": {...}, "ETH": {...}}
			for _, symbol := range sortedKeys(p) {
				pos, ok := p[symbol].(map[string]any)
				if !ok {
					continue
				}
				if _, has := pos["symbol"]; !has {
					pos["symbol"] = symbol
				}
				injectModelID(pos, modelID)
				out.Positions = append(out.Positions, pos)
			}
		case []any:
			out.Positions = append(out.Positions, asRecords(p, modelID)...)
		}
	}
	return out, nil
}

func asRecords(list []any, modelID string) []map[string]any {
	var out []map[string]any
	for _, v := range list {
		rec, ok := v.(map[string]any)
		if !ok {
			continue
		}
		injectModelID(rec, modelID)
		out = append(out, rec)
	}
	return out
}

// sortedKeys keeps the flattening order deterministic; JSON maps have none.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func injectModelID(rec map[string]any, modelID string) {
	if modelID == "" {
		return
	}
	if _, has := rec["model_id"]; !has {
		rec["model_id"] = modelID
	}
}

func firstString(item map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := item[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Headline totals are externally supplied display values; unparseable ones
// default to zero rather than failing the payload, matching how lenient
// the feed itself is about them.
func firstDecimal(item map[string]any, keys ...string) decimal.Decimal {
	for _, k := range keys {
		v, ok := item[k]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return decimal.NewFromFloat(n)
		case string:
			if d, err := decimal.NewFromString(n); err == nil {
				return d
			}
		case json.Number:
			if d, err := decimal.NewFromString(n.String()); err == nil {
				return d
			}
		}
	}
	return decimal.Zero
}

func firstFloat(item map[string]any, keys ...string) float64 {
	f, _ := firstDecimal(item, keys...).Float64()
	return f
}
