package models

// Row is a single result row keyed by column name. Column order is carried
// separately in TabularResult.Columns because Go maps are unordered.
type Row map[string]interface{}

// TabularResult is the uniform shape every executed query is reduced to.
type TabularResult struct {
	Columns   []string `json:"columns"`
	Rows      []Row    `json:"rows"`
	Truncated bool     `json:"truncated"`
}

// Empty reports whether the result carries no rows.
func (r *TabularResult) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// HasColumn reports whether the result declares the given column.
func (r *TabularResult) HasColumn(name string) bool {
	if r == nil {
		return false
	}
	for _, c := range r.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// TranslatedQuery is a validated, read-only statement produced by the
// translator. It is never persisted beyond the request that created it.
type TranslatedQuery struct {
	SQL         string `json:"sql"`
	TargetTable string `json:"target_table"`
	Rationale   string `json:"rationale"`
}

// ChartConfig tells the presentation layer whether and how to draw a chart.
// Pointer fields marshal as null when unset, which is what the chat widget
// expects.
type ChartConfig struct {
	Visualize   bool    `json:"visualize"`
	ChartType   *string `json:"chart_type"`
	XColumn     *string `json:"x_column"`
	YColumn     *string `json:"y_column"`
	LabelColumn *string `json:"label_column"`
	ShowExport  bool    `json:"show_export"`
}

// ChatRequest is the inbound message body.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse is the sole externally visible contract of the pipeline.
// Errors are data: every handled outcome, including failures, is shaped
// into this payload with HTTP 200.
type ChatResponse struct {
	Response    string      `json:"response"`
	SQLQuery    *string     `json:"sql_query"`
	Error       *string     `json:"error"`
	ChartConfig ChartConfig `json:"chart_config"`
	RawResults  []Row       `json:"raw_results"`
}
