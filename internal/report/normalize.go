package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// The upstream feed is not consistent about field names; each logical field
// is resolved through its aliases in priority order.
var (
	tradeAliases = map[string][]string{
		"symbol":       {"symbol", "asset"},
		"side":         {"side"},
		"quantity":     {"quantity", "qty"},
		"entry_price":  {"entry_price", "entry"},
		"exit_price":   {"exit_price", "exit"},
		"entry_time":   {"entry_time", "entry_human_time"},
		"exit_time":    {"exit_time", "exit_human_time"},
		"realized_pnl": {"realized_net_pnl", "realized_pnl", "pnl"},
		"commission":   {"total_commission_dollars", "commission"},
		"model_id":     {"model_id", "model", "name"},
	}

	positionAliases = map[string][]string{
		"symbol":         {"symbol", "asset"},
		"side":           {"side"},
		"quantity":       {"quantity", "qty"},
		"entry_price":    {"entry_price", "entry"},
		"current_price":  {"current_price", "current"},
		"margin":         {"margin"},
		"unrealized_pnl": {"unrealized_pnl", "pnl"},
		"leverage":       {"leverage", "lev"},
		"confidence":     {"confidence", "conf"},
		"model_id":       {"model_id", "model", "name"},
	}
)

func lookup(raw map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func looseDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, fmt.Errorf("non-finite number")
		}
		return decimal.NewFromFloat(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case json.Number:
		return decimal.NewFromString(n.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(n))
	default:
		return decimal.Zero, fmt.Errorf("unsupported numeric type %T", v)
	}
}

func looseFloat(v any) (float64, error) {
	d, err := looseDecimal(v)
	if err != nil {
		return 0, err
	}
	f, _ := d.Float64()
	return f, nil
}

// looseTime accepts the two timestamp encodings the feed emits:
// RFC 3339 strings and Unix-millisecond numbers.
func looseTime(v any) (time.Time, error) {
	switch n := v.(type) {
	case string:
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(n))
		if err != nil {
			return time.Time{}, err
		}
		return t.UTC(), nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
			return time.Time{}, fmt.Errorf("invalid epoch value")
		}
		return time.UnixMilli(int64(n)).UTC(), nil
	case int64:
		if n <= 0 {
			return time.Time{}, fmt.Errorf("invalid epoch value")
		}
		return time.UnixMilli(n).UTC(), nil
	case json.Number:
		ms, err := n.Int64()
		if err != nil || ms <= 0 {
			return time.Time{}, fmt.Errorf("invalid epoch value")
		}
		return time.UnixMilli(ms).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func parseSide(v any) (Side, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long", "buy":
		return SideLong, true
	case "short", "sell":
		return SideShort, true
	default:
		return "", false
	}
}

// fieldReader collects missing/invalid field names while pulling typed
// values out of one raw record.
type fieldReader struct {
	raw     map[string]any
	aliases map[string][]string
	missing []string
	invalid []string
}

func (r *fieldReader) value(field string, required bool) (any, bool) {
	v, ok := lookup(r.raw, r.aliases[field])
	if !ok && required {
		r.missing = append(r.missing, field)
	}
	return v, ok
}

func (r *fieldReader) str(field string, required bool) string {
	v, ok := r.value(field, required)
	if !ok {
		return ""
	}
	s, isStr := v.(string)
	s = strings.TrimSpace(s)
	if !isStr || s == "" {
		if required {
			r.invalid = append(r.invalid, field)
		}
		return ""
	}
	return s
}

func (r *fieldReader) dec(field string, required bool) decimal.Decimal {
	v, ok := r.value(field, required)
	if !ok {
		return decimal.Zero
	}
	d, err := looseDecimal(v)
	if err != nil {
		r.invalid = append(r.invalid, field)
		return decimal.Zero
	}
	return d
}

func (r *fieldReader) ts(field string, required bool) time.Time {
	v, ok := r.value(field, required)
	if !ok {
		return time.Time{}
	}
	t, err := looseTime(v)
	if err != nil {
		r.invalid = append(r.invalid, field)
		return time.Time{}
	}
	return t
}

func (r *fieldReader) err(kind RecordKind) error {
	if len(r.missing) == 0 && len(r.invalid) == 0 {
		return nil
	}
	return &MalformedRecordError{Kind: kind, Missing: r.missing, Invalid: r.invalid, Raw: r.raw}
}

// NormalizeTrade validates one raw trade record. Pure: it never mutates the
// input and has no side effects.
func NormalizeTrade(raw map[string]any) (TradeRecord, error) {
	r := &fieldReader{raw: raw, aliases: tradeAliases}
	rec := TradeRecord{}

	rec.Symbol = r.str("symbol", true)
	rec.ModelID = r.str("model_id", true)

	if v, ok := r.value("side", true); ok {
		side, valid := parseSide(v)
		if !valid {
			r.invalid = append(r.invalid, "side")
		}
		rec.Side = side
	}

	rec.Quantity = r.dec("quantity", true)
	rec.EntryPrice = r.dec("entry_price", true)
	rec.ExitPrice = r.dec("exit_price", false)
	rec.EntryTime = r.ts("entry_time", true)
	rec.ExitTime = r.ts("exit_time", false)
	rec.RealizedPnL = r.dec("realized_pnl", true)

	rec.Commission = r.dec("commission", true)
	if rec.Commission.Sign() < 0 {
		r.invalid = append(r.invalid, "commission")
	}

	if err := r.err(KindTrade); err != nil {
		return TradeRecord{}, err
	}
	return rec, nil
}

// NormalizePosition validates one raw position record. The quantity sign
// determines the side; an explicit side field that disagrees is a
// validation conflict, never a silent overwrite.
func NormalizePosition(raw map[string]any) (PositionRecord, error) {
	r := &fieldReader{raw: raw, aliases: positionAliases}
	rec := PositionRecord{Leverage: 1}

	rec.Symbol = r.str("symbol", true)
	rec.ModelID = r.str("model_id", true)
	rec.Quantity = r.dec("quantity", true)
	rec.EntryPrice = r.dec("entry_price", true)
	rec.CurrentPrice = r.dec("current_price", true)
	rec.UnrealizedPnL = r.dec("unrealized_pnl", true)

	rec.Margin = r.dec("margin", true)
	if rec.Margin.Sign() < 0 {
		r.invalid = append(r.invalid, "margin")
	}

	if v, ok := r.value("leverage", false); ok {
		// the feed writes leverage either as a number or as "10x"
		s := strings.TrimSuffix(strings.TrimSpace(fmt.Sprint(v)), "x")
		lev, err := looseDecimal(s)
		if err != nil || !lev.IsInteger() || lev.Sign() <= 0 {
			r.invalid = append(r.invalid, "leverage")
		} else {
			rec.Leverage = int(lev.IntPart())
		}
	}

	if v, ok := r.value("confidence", false); ok {
		conf, err := looseFloat(v)
		if err != nil || conf < 0 || conf > 1 {
			r.invalid = append(r.invalid, "confidence")
		} else {
			rec.Confidence = conf
		}
	}

	var explicitSide Side
	if v, ok := r.value("side", false); ok {
		side, valid := parseSide(v)
		if !valid {
			r.invalid = append(r.invalid, "side")
		}
		explicitSide = side
	}

	switch {
	case rec.Quantity.Sign() > 0:
		rec.Side = SideLong
	case rec.Quantity.Sign() < 0:
		rec.Side = SideShort
	default:
		// flat quantity carries no side information
		if explicitSide == "" {
			r.missing = append(r.missing, "side")
		}
		rec.Side = explicitSide
	}

	if err := r.err(KindPosition); err != nil {
		return PositionRecord{}, err
	}

	if explicitSide != "" && rec.Quantity.Sign() != 0 && explicitSide != rec.Side {
		return PositionRecord{}, &ValidationConflictError{
			Kind:   KindPosition,
			Detail: "side/quantity conflict",
			Raw:    raw,
		}
	}
	return rec, nil
}

// NormalizeTrades applies NormalizeTrade per record. A malformed record
// never aborts the batch; it is skipped and counted.
func NormalizeTrades(raws []map[string]any) ([]TradeRecord, SkipTally) {
	var out []TradeRecord
	var skipped SkipTally
	for _, raw := range raws {
		rec, err := NormalizeTrade(raw)
		if err != nil {
			skipped.add(skipReasons(err)...)
			continue
		}
		out = append(out, rec)
	}
	return out, skipped
}

// NormalizePositions applies NormalizePosition per record, skipping and
// counting failures.
func NormalizePositions(raws []map[string]any) ([]PositionRecord, SkipTally) {
	var out []PositionRecord
	var skipped SkipTally
	for _, raw := range raws {
		rec, err := NormalizePosition(raw)
		if err != nil {
			skipped.add(skipReasons(err)...)
			continue
		}
		out = append(out, rec)
	}
	return out, skipped
}

func skipReasons(err error) []string {
	var mal *MalformedRecordError
	if errors.As(err, &mal) {
		reasons := make([]string, 0, len(mal.Missing)+len(mal.Invalid))
		for _, f := range mal.Missing {
			reasons = append(reasons, "missing "+f)
		}
		for _, f := range mal.Invalid {
			reasons = append(reasons, "invalid "+f)
		}
		return reasons
	}
	var conflict *ValidationConflictError
	if errors.As(err, &conflict) {
		return []string{conflict.Detail}
	}
	return []string{err.Error()}
}
