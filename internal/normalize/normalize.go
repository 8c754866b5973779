// Package normalize applies the fixed per-column transformations that run
// between loading and persistence: trending_date canonicalization to
// YYYY-MM-DD and videos_count integer coercion. All other columns pass
// through untouched.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/logging"
	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/table"
)

const (
	dateColumn  = "trending_date"
	countColumn = "videos_count"
)

// Options configures normalization.
type Options struct {
	// StarThreshold is the fraction of '*' placeholder cells that would
	// disqualify a row. Reserved for future row pruning; currently no
	// filtering is applied, but the knob is kept so callers don't churn
	// when it is enabled.
	StarThreshold float64
}

// Candidate layouts for best-effort date inference, most specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"02.01.2006",
	"01/02/2006",
}

// Normalize returns a normalized copy of t. The input is never mutated.
// The trending_date column reformats atomically: one unparseable value
// leaves the whole column unchanged. videos_count coerces per cell, with
// unparseable or negative values becoming 0.
func Normalize(t *table.Table, opts Options) *table.Table {
	out := t.Clone()
	if out.Empty() {
		logging.Warnf("empty table passed to normalize; returning unchanged")
		return out
	}

	_ = opts.StarThreshold // row pruning reserved, see Options

	if out.HasColumn(dateColumn) {
		normalizeDates(out)
	} else {
		logging.Warnf("column %q not found; skipping date formatting", dateColumn)
	}

	if out.HasColumn(countColumn) {
		for _, row := range out.Rows {
			row[countColumn] = strconv.Itoa(coerceCount(row[countColumn]))
		}
	} else {
		logging.Warnf("column %q not found; skipping integer coercion", countColumn)
	}

	return out
}

// normalizeDates reformats every trending_date value to YYYY-MM-DD, or
// leaves the column entirely untouched if any single value fails to parse.
func normalizeDates(t *table.Table) {
	formatted := make([]string, t.Len())
	for i, row := range t.Rows {
		parsed, err := parseDate(row[dateColumn])
		if err != nil {
			logging.Errorf("cannot reformat column %q: %v; keeping original values", dateColumn, err)
			return
		}
		formatted[i] = parsed.Format("2006-01-02")
	}
	for i, row := range t.Rows {
		row[dateColumn] = formatted[i]
	}
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date value %q", s)
}

// coerceCount maps a raw cell to a non-negative integer. Non-numeric values
// become 0; fractional values truncate.
func coerceCount(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 0 {
			return 0
		}
		return int(f)
	}
	return 0
}
