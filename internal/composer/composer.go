// Package composer shapes pipeline outcomes into the fixed response
// contract. Pure assembly: all decisions were made upstream.
package composer

import (
	"fmt"

	"github.com/quantdesk/tradechat-go/internal/chart"
	"github.com/quantdesk/tradechat-go/internal/models"
)

// Compose builds the payload from the stage outputs. userErr, when
// non-empty, is an already user-safe message; the error path still returns a
// well-formed payload with chart and export forced off, so the presentation
// layer never special-cases failure.
//
// Returns models.ErrComposition when a visualize directive names columns the
// result does not carry; the caller logs it and degrades to a generic
// failure payload.
func Compose(text string, translated *models.TranslatedQuery, result *models.TabularResult, directive chart.Directive, userErr string) (models.ChatResponse, error) {
	resp := models.ChatResponse{
		Response:   text,
		RawResults: []models.Row{},
	}

	if translated != nil {
		resp.SQLQuery = strPtr(translated.SQL)
	}
	if result != nil {
		resp.RawResults = result.Rows
		if resp.RawResults == nil {
			resp.RawResults = []models.Row{}
		}
	}

	if userErr != "" {
		resp.Error = strPtr(userErr)
		directive.Visualize = false
		directive.ShowExport = false
	}

	if directive.Visualize {
		if directive.Type == "" || directive.XColumn == "" || directive.YColumn == "" ||
			result == nil || !result.HasColumn(directive.XColumn) || !result.HasColumn(directive.YColumn) {
			return models.ChatResponse{}, fmt.Errorf("%w: directive %s x=%q y=%q", models.ErrComposition,
				directive.Type, directive.XColumn, directive.YColumn)
		}
	}

	resp.ChartConfig = toChartConfig(directive)
	return resp, nil
}

func toChartConfig(d chart.Directive) models.ChartConfig {
	cfg := models.ChartConfig{
		Visualize:  d.Visualize,
		ShowExport: d.ShowExport,
	}
	if d.Visualize {
		cfg.ChartType = strPtr(d.Type)
		cfg.XColumn = strPtr(d.XColumn)
		cfg.YColumn = strPtr(d.YColumn)
		if d.LabelColumn != "" {
			cfg.LabelColumn = strPtr(d.LabelColumn)
		}
	}
	return cfg
}

func strPtr(s string) *string {
	return &s
}
