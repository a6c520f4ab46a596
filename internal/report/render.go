package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	headerTimeLayout = "2006-01-02 15:04:05"
	tradeTimeLayout  = "2006-01-02 15:04"
)

// Renderer turns a snapshot into the text report delivered to the
// messaging channel. Rendering is pure and deterministic: identical
// snapshots produce byte-identical output.
type Renderer struct {
	TopPerformers int // symbols per performers section, default 3
	MaxMessageLen int // chunk budget, default 4000
}

func (r Renderer) topN() int {
	if r.TopPerformers > 0 {
		return r.TopPerformers
	}
	return 3
}

func (r Renderer) maxLen() int {
	if r.MaxMessageLen > 0 {
		return r.MaxMessageLen
	}
	return 4000
}

// Render produces the full report. Sections with no data are omitted
// rather than rendered as empty headers.
func (r Renderer) Render(snap *Snapshot) string {
	var blocks []string

	blocks = append(blocks, r.headerBlock(snap))

	if b := r.overallBlock(snap.Overall); b != "" {
		blocks = append(blocks, b)
	}
	if snap.Overall != nil && snap.Overall.TradesSummary != nil {
		if b := r.performersBlock("Top Performers:", snap.Overall.TradesSummary.SymbolBreakdown, false); b != "" {
			blocks = append(blocks, b)
		}
		if b := r.performersBlock("Worst Performers:", snap.Overall.TradesSummary.SymbolBreakdown, true); b != "" {
			blocks = append(blocks, b)
		}
	}

	for _, m := range snap.Models {
		blocks = append(blocks, r.modelBlocks(m)...)
	}

	if diag := snap.Skipped.String(); diag != "" {
		blocks = append(blocks, diag)
	}

	return strings.Join(blocks, "\n\n")
}

// Chunks renders and splits the report into messages that fit the
// configured budget.
func (r Renderer) Chunks(snap *Snapshot) []string {
	return Chunk(r.Render(snap), r.maxLen())
}

func (r Renderer) headerBlock(snap *Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "NoF1 AI Trading Update - %s", snap.GeneratedAt.UTC().Format(headerTimeLayout))
	if len(snap.Models) > 0 {
		ids := make([]string, 0, len(snap.Models))
		for _, m := range snap.Models {
			ids = append(ids, m.ModelID)
		}
		fmt.Fprintf(&b, "\nModels: %s", strings.Join(ids, ", "))
	}
	if len(snap.MissingSources) > 0 {
		fmt.Fprintf(&b, "\n⚠️ Partial data: %s unavailable", strings.Join(snap.MissingSources, ", "))
	}
	return b.String()
}

func (r Renderer) overallBlock(o *OverallSummary) string {
	if o == nil {
		return ""
	}
	var lines []string
	lines = append(lines, fmt.Sprintf("Total PnL: %s | Commission: %s",
		FormatMoney(o.TotalPnL), FormatMoney(o.TotalCommission)))
	if t := o.TradesSummary; t != nil && t.TotalTrades > 0 {
		lines = append(lines, fmt.Sprintf("Trades: %d | Realized: %s | Gross: %s",
			t.TotalTrades, FormatMoney(t.TotalRealizedPnL), FormatMoney(t.TotalGrossPnL)))
	}
	if a := o.AccountSummary; a != nil && a.TotalPositions > 0 {
		lines = append(lines, fmt.Sprintf("Positions: %d | Unrealized: %s | Margin: %s",
			a.TotalPositions, FormatMoney(a.TotalUnrealizedPnL), FormatMoney(a.TotalMargin)))
	}
	return strings.Join(lines, "\n")
}

func (r Renderer) performersBlock(title string, breakdown map[string]SymbolTradeStats, ascending bool) string {
	if len(breakdown) == 0 {
		return ""
	}
	symbols := make([]string, 0, len(breakdown))
	for s := range breakdown {
		symbols = append(symbols, s)
	}
	sort.Slice(symbols, func(i, j int) bool {
		a, b := breakdown[symbols[i]], breakdown[symbols[j]]
		cmp := a.RealizedPnL.Cmp(b.RealizedPnL)
		if cmp != 0 {
			if ascending {
				return cmp < 0
			}
			return cmp > 0
		}
		return symbols[i] < symbols[j]
	})
	if len(symbols) > r.topN() {
		symbols = symbols[:r.topN()]
	}

	lines := []string{title}
	for _, s := range symbols {
		stats := breakdown[s]
		noun := "trades"
		if stats.Count == 1 {
			noun = "trade"
		}
		lines = append(lines, fmt.Sprintf("- %s: %s (%d %s)", s, FormatMoney(stats.RealizedPnL), stats.Count, noun))
	}
	return strings.Join(lines, "\n")
}

func (r Renderer) modelBlocks(m ModelSummary) []string {
	var blocks []string

	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", m.ModelID)
	fmt.Fprintf(&b, "Stats: PnL: %s | Unrealized: %s | Commission: %s",
		FormatMoney(m.TotalRealizedPnL), FormatMoney(m.TotalUnrealizedPnL), FormatMoney(m.TotalCommission))
	if m.HasTotal {
		fmt.Fprintf(&b, " | Equity: %s | Sharpe: %.2f", FormatMoney(m.TotalEquity), m.Sharpe)
	}
	blocks = append(blocks, b.String())

	if len(m.Positions) > 0 {
		lines := []string{"Open Positions:"}
		for _, p := range m.Positions {
			line := fmt.Sprintf("- %s %s | Qty: %s | Entry: %s | Current: %s | PnL: %s | Lev: %dx",
				p.Symbol, p.Side, p.Quantity.String(),
				FormatMoney(p.EntryPrice), FormatMoney(p.CurrentPrice),
				FormatMoney(p.UnrealizedPnL), p.Leverage)
			if p.Confidence > 0 {
				line += fmt.Sprintf(" | Conf: %.2f", p.Confidence)
			}
			lines = append(lines, line)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	if len(m.RecentTrades) > 0 {
		lines := []string{"Recent Trades:"}
		for _, t := range m.RecentTrades {
			var line strings.Builder
			fmt.Fprintf(&line, "- %s %s | Entry: %s (%s)",
				t.Symbol, t.Side, FormatMoney(t.EntryPrice), t.EntryTime.UTC().Format(tradeTimeLayout))
			if !t.Open() {
				fmt.Fprintf(&line, " | Exit: %s (%s)", FormatMoney(t.ExitPrice), t.ExitTime.UTC().Format(tradeTimeLayout))
			}
			fmt.Fprintf(&line, " | PnL: %s", FormatMoney(t.RealizedPnL))
			lines = append(lines, line.String())
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	return blocks
}

// FormatMoney renders a currency value with an explicit sign (+ for zero
// and positive, - for negative), a dollar sign, thousands separators and
// two decimals: -245.37 -> "-$245.37", 1720.58 -> "+$1,720.58".
func FormatMoney(d decimal.Decimal) string {
	sign := "+"
	if d.Sign() < 0 {
		sign = "-"
	}
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	return sign + "$" + strings.Join(groups, ",") + frac
}

// Chunk splits an over-budget report for a messaging platform that caps
// message length, preferring paragraph boundaries, then line boundaries,
// then a hard split. The header and total lines form the first paragraph
// and are never cut mid-line by the soft splits.
func Chunk(text string, maxLen int) []string {
	if maxLen <= 0 || len(text) <= maxLen {
		return []string{text}
	}
	var chunks []string
	remaining := text
	for len(remaining) > maxLen {
		idx := strings.LastIndex(remaining[:maxLen], "\n\n")
		if idx <= 0 {
			idx = strings.LastIndex(remaining[:maxLen], "\n")
		}
		if idx <= 0 {
			idx = maxLen
		}
		chunks = append(chunks, strings.TrimRight(remaining[:idx], " \n"))
		remaining = strings.TrimLeft(remaining[idx:], " \n")
	}
	if remaining != "" {
		chunks = append(chunks, remaining)
	}
	return chunks
}
