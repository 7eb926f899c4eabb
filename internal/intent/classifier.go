// Package intent extracts lexical signals from a raw user utterance. It is a
// deliberately simple keyword heuristic kept behind a pure function so a
// learned classifier can replace it without touching the rest of the
// pipeline.
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// TimeWindow is an advisory hint about the time range the user asked for.
// It is context for the translator, not a hard filter.
type TimeWindow string

const (
	WindowToday      TimeWindow = "today"
	WindowLastNDays  TimeWindow = "last_n_days"
	WindowNamedMonth TimeWindow = "named_month"
	WindowUnscoped   TimeWindow = "unscoped"
)

// Intent carries the lexical signals found in one utterance.
type Intent struct {
	WantsChart  bool
	WantsExport bool
	Window      TimeWindow
	WindowDays  int
	Month       string
	RawText     string
}

// ChartKeywords trigger chart rendering when present anywhere in the text.
var ChartKeywords = []string{"chart", "plot", "graph", "visualize"}

// ExportKeywords trigger the export offer when present anywhere in the text.
var ExportKeywords = []string{"excel", "csv", "export", "download"}

var lastNDaysRe = regexp.MustCompile(`last\s+(\d+)\s+days?`)

// Months match on word boundaries so that e.g. "maybe" does not read as May.
var monthRe = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)

// Classify inspects raw text for chart/export keywords and a time-window
// phrase. Pure function with no failure modes: absence of keywords simply
// yields false flags and an unscoped window.
func Classify(raw string) Intent {
	lower := strings.ToLower(raw)

	in := Intent{
		WantsChart:  containsAny(lower, ChartKeywords),
		WantsExport: containsAny(lower, ExportKeywords),
		Window:      WindowUnscoped,
		RawText:     raw,
	}

	if m := lastNDaysRe.FindStringSubmatch(lower); m != nil {
		in.Window = WindowLastNDays
		in.WindowDays, _ = strconv.Atoi(m[1])
		return in
	}
	if strings.Contains(lower, "today") {
		in.Window = WindowToday
		return in
	}
	if m := monthRe.FindStringSubmatch(lower); m != nil {
		in.Window = WindowNamedMonth
		in.Month = m[1]
		return in
	}

	return in
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
