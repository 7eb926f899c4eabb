package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg := Default()

	assert.Len(t, reg.Tables(), 3)
	assert.Equal(t, "trading_today", reg.LiveTable().Name)
	assert.Equal(t, "slip_positionlive_daily", reg.AggregateTable().Name)

	table, ok := reg.Lookup("trading_all")
	require.True(t, ok)
	assert.Equal(t, ScopeHistorical, table.Scope)
	assert.True(t, table.HasColumn("total_pnl"))
	assert.True(t, table.HasColumn("ORDERTIME"), "column lookup should be case-insensitive")
	assert.False(t, table.HasColumn("no_such_column"))
}

func TestLookupCaseInsensitive(t *testing.T) {
	reg := Default()

	_, ok := reg.Lookup("TRADING_ALL")
	assert.True(t, ok)

	_, ok = reg.Lookup("unknown_table")
	assert.False(t, ok)
}

func TestNewValidatesScopes(t *testing.T) {
	cols := []Column{{Name: "id", Semantic: SemanticIdentifier}}

	tests := []struct {
		name   string
		tables []Table
		errMsg string
	}{
		{
			name:   "no tables",
			tables: nil,
			errMsg: "at least one table",
		},
		{
			name: "missing live table",
			tables: []Table{
				{Name: "a", Scope: ScopeHistorical, Columns: cols},
				{Name: "b", Scope: ScopeDailyAggregate, Columns: cols},
			},
			errMsg: "exactly one live-today",
		},
		{
			name: "two live tables",
			tables: []Table{
				{Name: "a", Scope: ScopeLiveToday, Columns: cols},
				{Name: "b", Scope: ScopeLiveToday, Columns: cols},
				{Name: "c", Scope: ScopeDailyAggregate, Columns: cols},
			},
			errMsg: "exactly one live-today",
		},
		{
			name: "missing aggregate table",
			tables: []Table{
				{Name: "a", Scope: ScopeLiveToday, Columns: cols},
				{Name: "b", Scope: ScopeHistorical, Columns: cols},
			},
			errMsg: "exactly one daily-aggregate",
		},
		{
			name: "duplicate table name",
			tables: []Table{
				{Name: "a", Scope: ScopeLiveToday, Columns: cols},
				{Name: "A", Scope: ScopeDailyAggregate, Columns: cols},
			},
			errMsg: "duplicate table",
		},
		{
			name: "table without columns",
			tables: []Table{
				{Name: "a", Scope: ScopeLiveToday, Columns: cols},
				{Name: "b", Scope: ScopeDailyAggregate},
			},
			errMsg: "no columns",
		},
		{
			name: "unknown scope",
			tables: []Table{
				{Name: "a", Scope: ScopeLiveToday, Columns: cols},
				{Name: "b", Scope: ScopeDailyAggregate, Columns: cols},
				{Name: "c", Scope: "weekly", Columns: cols},
			},
			errMsg: "unknown scope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.tables)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestTimestampColumns(t *testing.T) {
	reg := Default()
	table, _ := reg.Lookup("trading_all")

	got := table.TimestampColumns()
	assert.Contains(t, got, "ordertime")
	assert.Contains(t, got, "buytime")
	assert.Contains(t, got, "selltime")
	assert.NotContains(t, got, "total_pnl")
}

func TestPromptText(t *testing.T) {
	text := Default().PromptText()

	for _, want := range []string{
		"trading_all", "trading_today", "slip_positionlive_daily",
		"total_pnl", "profitable_count",
		"ROUTING RULES",
	} {
		assert.Contains(t, text, want)
	}

	// Routing rules must name the live and aggregate tables explicitly.
	assert.True(t, strings.Contains(text, "intraday positions use trading_today") ||
		strings.Contains(text, "live\" or intraday positions use trading_today"))
}
