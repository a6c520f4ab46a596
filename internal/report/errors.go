package report

import (
	"fmt"
	"sort"
	"strings"
)

// RecordKind tags which normalizer a raw record went through.
type RecordKind string

const (
	KindTrade    RecordKind = "trade"
	KindPosition RecordKind = "position"
)

// MalformedRecordError reports a record that failed normalization. It keeps
// the original payload and the field names that were missing or invalid so
// the batch diagnostic line can name them.
type MalformedRecordError struct {
	Kind    RecordKind
	Missing []string
	Invalid []string
	Raw     map[string]any
}

func (e *MalformedRecordError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	return fmt.Sprintf("malformed %s record: %s", e.Kind, strings.Join(parts, "; "))
}

// ValidationConflictError reports a record whose fields disagree with each
// other, e.g. a signed quantity that contradicts the stated side.
type ValidationConflictError struct {
	Kind   RecordKind
	Detail string
	Raw    map[string]any
}

func (e *ValidationConflictError) Error() string {
	return fmt.Sprintf("validation conflict in %s record: %s", e.Kind, e.Detail)
}

// SourceUnavailableError reports an upstream fetch failure. A single failed
// source degrades to a partial summary; both failing is terminal for a run.
type SourceUnavailableError struct {
	Sources []string
	Err     error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable (%s): %v", strings.Join(e.Sources, ", "), e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// DeliveryError reports that a rendered report was rejected by the
// messaging sink. It is surfaced to the caller and never retried.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string { return fmt.Sprintf("delivery failed: %v", e.Err) }

func (e *DeliveryError) Unwrap() error { return e.Err }

// SkipTally counts records dropped during batch normalization, by reason.
type SkipTally struct {
	Total   int
	Reasons map[string]int
}

func (t *SkipTally) add(reasons ...string) {
	t.Total++
	if t.Reasons == nil {
		t.Reasons = make(map[string]int)
	}
	for _, r := range reasons {
		t.Reasons[r]++
	}
}

// Merge combines two tallies into a new one.
func (t SkipTally) Merge(other SkipTally) SkipTally {
	out := SkipTally{Total: t.Total + other.Total}
	if len(t.Reasons)+len(other.Reasons) > 0 {
		out.Reasons = make(map[string]int, len(t.Reasons)+len(other.Reasons))
		for r, n := range t.Reasons {
			out.Reasons[r] += n
		}
		for r, n := range other.Reasons {
			out.Reasons[r] += n
		}
	}
	return out
}

// String renders the one-line diagnostic appended to reports, e.g.
// "2 records skipped (missing realized_pnl: 1, side/quantity conflict: 1)".
// Reasons are sorted so the output is deterministic.
func (t SkipTally) String() string {
	if t.Total == 0 {
		return ""
	}
	noun := "records"
	if t.Total == 1 {
		noun = "record"
	}
	reasons := make([]string, 0, len(t.Reasons))
	for r := range t.Reasons {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		parts = append(parts, fmt.Sprintf("%s: %d", r, t.Reasons[r]))
	}
	return fmt.Sprintf("%d %s skipped (%s)", t.Total, noun, strings.Join(parts, ", "))
}
