package composer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantdesk/tradechat-go/internal/chart"
	"github.com/quantdesk/tradechat-go/internal/models"
)

func sampleResult() *models.TabularResult {
	return &models.TabularResult{
		Columns: []string{"order_date", "pnl"},
		Rows: []models.Row{
			{"order_date": "2025-08-01", "pnl": 100.5},
		},
	}
}

func TestComposeSuccess(t *testing.T) {
	translated := &models.TranslatedQuery{SQL: "SELECT 1 FROM trading_today"}
	directive := chart.Directive{
		Visualize: true,
		Type:      chart.TypeLine,
		XColumn:   "order_date",
		YColumn:   "pnl",
	}

	resp, err := Compose("Your profit was 100.50.", translated, sampleResult(), directive, "")
	require.NoError(t, err)

	assert.Equal(t, "Your profit was 100.50.", resp.Response)
	require.NotNil(t, resp.SQLQuery)
	assert.Equal(t, "SELECT 1 FROM trading_today", *resp.SQLQuery)
	assert.Nil(t, resp.Error)
	assert.True(t, resp.ChartConfig.Visualize)
	require.NotNil(t, resp.ChartConfig.ChartType)
	assert.Equal(t, "line", *resp.ChartConfig.ChartType)
	assert.Len(t, resp.RawResults, 1)
}

func TestComposeErrorPathForcesFlagsOff(t *testing.T) {
	translated := &models.TranslatedQuery{SQL: "SELECT 1 FROM trading_today"}
	directive := chart.Directive{
		Visualize:  true,
		Type:       chart.TypeLine,
		XColumn:    "order_date",
		YColumn:    "pnl",
		ShowExport: true,
	}

	resp, err := Compose("The database reported an error.", translated, nil, directive, "The database reported an error.")
	require.NoError(t, err)

	assert.False(t, resp.ChartConfig.Visualize)
	assert.False(t, resp.ChartConfig.ShowExport)
	require.NotNil(t, resp.Error)
	// The constructed query is still included for transparency.
	require.NotNil(t, resp.SQLQuery)
	assert.Equal(t, []models.Row{}, resp.RawResults)
}

func TestComposeContractViolation(t *testing.T) {
	directive := chart.Directive{
		Visualize: true,
		Type:      chart.TypeLine,
		XColumn:   "missing_column",
		YColumn:   "pnl",
	}

	_, err := Compose("text", nil, sampleResult(), directive, "")
	require.ErrorIs(t, err, models.ErrComposition)
}

func TestComposeVisualizeColumnsMustExist(t *testing.T) {
	directive := chart.Directive{
		Visualize: true,
		Type:      chart.TypeBar,
		XColumn:   "order_date",
		YColumn:   "pnl",
	}

	// nil result with a visualize directive is a contract violation too.
	_, err := Compose("text", nil, nil, directive, "")
	require.ErrorIs(t, err, models.ErrComposition)
}

// Composing twice on identical inputs yields byte-identical payloads.
func TestComposeIdempotent(t *testing.T) {
	translated := &models.TranslatedQuery{SQL: "SELECT 1 FROM trading_today"}
	directive := chart.Directive{
		Visualize:  true,
		Type:       chart.TypePie,
		XColumn:    "order_date",
		YColumn:    "pnl",
		LabelColumn: "order_date",
		ShowExport: true,
	}

	first, err := Compose("answer", translated, sampleResult(), directive, "")
	require.NoError(t, err)
	second, err := Compose("answer", translated, sampleResult(), directive, "")
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComposeNeverNilRawResults(t *testing.T) {
	resp, err := Compose("no data", nil, nil, chart.Directive{}, "")
	require.NoError(t, err)
	assert.NotNil(t, resp.RawResults)

	encoded, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"raw_results":[]`)
}

func TestComposeWireContract(t *testing.T) {
	resp, err := Compose("hi", nil, nil, chart.Directive{}, "")
	require.NoError(t, err)

	encoded, err := json.Marshal(resp)
	require.NoError(t, err)

	for _, key := range []string{
		`"response"`, `"sql_query"`, `"error"`, `"chart_config"`, `"raw_results"`,
		`"visualize"`, `"chart_type"`, `"x_column"`, `"y_column"`, `"label_column"`, `"show_export"`,
	} {
		assert.Contains(t, string(encoded), key)
	}
	assert.Contains(t, string(encoded), `"sql_query":null`)
	assert.Contains(t, string(encoded), `"chart_type":null`)
}
