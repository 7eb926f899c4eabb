// Package chart decides whether a result is worth drawing and, if so, which
// chart type and column roles to hand the presentation layer. The decision
// is deterministic: same intent and result shape, same directive.
package chart

import (
	"strings"
	"time"

	"github.com/quantdesk/tradechat-go/internal/intent"
	"github.com/quantdesk/tradechat-go/internal/models"
)

// Chart types understood by the presentation layer.
const (
	TypeLine    = "line"
	TypeBar     = "bar"
	TypePie     = "pie"
	TypeScatter = "scatter"
)

// Policy holds the tunable parts of the pie-vs-bar rule. The cardinality
// threshold and keyword bias are configuration, not a hard law.
type Policy struct {
	PieMaxRows           int
	DistributionKeywords []string
}

// DefaultPolicy mirrors the product behavior: small categorical breakdowns
// phrased as shares become pies.
func DefaultPolicy() Policy {
	return Policy{
		PieMaxRows:           12,
		DistributionKeywords: []string{"distribution", "share", "breakdown", "proportion", "split"},
	}
}

// Directive is the internal chart decision, converted to the wire
// ChartConfig by the composer.
type Directive struct {
	Visualize   bool
	Type        string
	XColumn     string
	YColumn     string
	LabelColumn string
	ShowExport  bool
}

// Selector applies the decision procedure under a policy.
type Selector struct {
	policy Policy
}

// NewSelector builds a selector; zero-valued policy fields fall back to the
// defaults.
func NewSelector(policy Policy) *Selector {
	def := DefaultPolicy()
	if policy.PieMaxRows <= 0 {
		policy.PieMaxRows = def.PieMaxRows
	}
	if len(policy.DistributionKeywords) == 0 {
		policy.DistributionKeywords = def.DistributionKeywords
	}
	return &Selector{policy: policy}
}

type columnKind int

const (
	kindCategorical columnKind = iota
	kindNumeric
	kindDate
)

// Select decides chart applicability and roles. Tie-break is date-wins:
// trend-over-time beats a categorical bar when both qualify, because that is
// the most common historical ask in this domain.
func (s *Selector) Select(in intent.Intent, result *models.TabularResult) Directive {
	d := Directive{ShowExport: in.WantsExport}

	if !in.WantsChart || result.Empty() || len(result.Columns) < 2 {
		return d
	}

	var dateCols, numericCols, categoryCols []string
	for _, col := range result.Columns {
		switch classifyColumn(col, result.Rows) {
		case kindDate:
			dateCols = append(dateCols, col)
		case kindNumeric:
			numericCols = append(numericCols, col)
		default:
			categoryCols = append(categoryCols, col)
		}
	}

	switch {
	case len(dateCols) > 0 && len(numericCols) > 0:
		d.Visualize = true
		d.Type = TypeLine
		d.XColumn = dateCols[0]
		d.YColumn = numericCols[0]

	case len(categoryCols) > 0 && len(numericCols) == 1 &&
		len(result.Rows) <= s.policy.PieMaxRows && s.wantsDistribution(in.RawText):
		d.Visualize = true
		d.Type = TypePie
		d.XColumn = categoryCols[0]
		d.YColumn = numericCols[0]
		d.LabelColumn = categoryCols[0]

	case len(categoryCols) > 0 && len(numericCols) >= 1:
		d.Visualize = true
		d.Type = TypeBar
		d.XColumn = categoryCols[0]
		d.YColumn = numericCols[0]

	case len(numericCols) >= 2:
		d.Visualize = true
		d.Type = TypeScatter
		d.XColumn = numericCols[0]
		d.YColumn = numericCols[1]
	}

	return d
}

func (s *Selector) wantsDistribution(raw string) bool {
	lower := strings.ToLower(raw)
	for _, kw := range s.policy.DistributionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// classifyColumn inspects the first non-null value; the name is a fallback
// hint for date columns whose values arrive as plain strings.
func classifyColumn(name string, rows []models.Row) columnKind {
	for _, row := range rows {
		v, ok := row[name]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case float64, int64:
			return kindNumeric
		case string:
			if isDateString(val) {
				return kindDate
			}
			return nameKindHint(name)
		default:
			return nameKindHint(name)
		}
	}
	return nameKindHint(name)
}

func nameKindHint(name string) columnKind {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "date") || strings.Contains(lower, "time") {
		return kindDate
	}
	return kindCategorical
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func isDateString(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
