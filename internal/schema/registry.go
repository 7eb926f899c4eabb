package schema

import (
	"fmt"
	"strings"
)

// Semantic classifies what a column means, independent of its SQL type.
type Semantic string

const (
	SemanticTimestamp  Semantic = "timestamp"
	SemanticMoney      Semantic = "money"
	SemanticCount      Semantic = "count"
	SemanticIdentifier Semantic = "identifier"
	SemanticCategory   Semantic = "category"
)

// TemporalScope describes which slice of trading time a table covers.
type TemporalScope string

const (
	// ScopeHistorical tables are append-only records of completed trades.
	ScopeHistorical TemporalScope = "historical"
	// ScopeLiveToday tables hold the current trading day only and are
	// migrated into the historical table at the day boundary.
	ScopeLiveToday TemporalScope = "live-today"
	// ScopeDailyAggregate tables hold one row per broker/account/strategy/day.
	ScopeDailyAggregate TemporalScope = "daily-aggregate"
)

// Column describes a single table column.
type Column struct {
	Name        string
	Semantic    Semantic
	Description string
	// DateOnly marks timestamp columns that carry no time of day. Raw
	// equality against them is safe, so the date-truncation rule does not
	// apply.
	DateOnly bool
}

// Table describes one queryable table.
type Table struct {
	Name    string
	Columns []Column
	Scope   TemporalScope
	Grain   string
	Purpose string
}

// HasColumn reports whether the table declares the named column.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

// TimestampColumns returns the names of all timestamp-semantic columns.
func (t Table) TimestampColumns() []string {
	var out []string
	for _, c := range t.Columns {
		if c.Semantic == SemanticTimestamp {
			out = append(out, c.Name)
		}
	}
	return out
}

// Registry is the immutable description of the queryable tables. Built once
// at process start and shared read-only across requests.
type Registry struct {
	tables []Table
	byName map[string]Table
}

// New builds a registry and validates its invariants: table names unique and
// non-empty, every table has columns, exactly one live-today table and
// exactly one daily-aggregate table.
func New(tables []Table) (*Registry, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("schema registry requires at least one table")
	}

	byName := make(map[string]Table, len(tables))
	liveCount := 0
	aggCount := 0

	for _, t := range tables {
		if t.Name == "" {
			return nil, fmt.Errorf("schema registry: table with empty name")
		}
		if len(t.Columns) == 0 {
			return nil, fmt.Errorf("schema registry: table %s has no columns", t.Name)
		}
		key := strings.ToLower(t.Name)
		if _, dup := byName[key]; dup {
			return nil, fmt.Errorf("schema registry: duplicate table %s", t.Name)
		}
		byName[key] = t

		switch t.Scope {
		case ScopeLiveToday:
			liveCount++
		case ScopeDailyAggregate:
			aggCount++
		case ScopeHistorical:
		default:
			return nil, fmt.Errorf("schema registry: table %s has unknown scope %q", t.Name, t.Scope)
		}
	}

	if liveCount != 1 {
		return nil, fmt.Errorf("schema registry: expected exactly one live-today table, got %d", liveCount)
	}
	if aggCount != 1 {
		return nil, fmt.Errorf("schema registry: expected exactly one daily-aggregate table, got %d", aggCount)
	}

	return &Registry{tables: tables, byName: byName}, nil
}

// Tables returns the registered tables in declaration order.
func (r *Registry) Tables() []Table {
	return r.tables
}

// TableNames returns the registered table names in declaration order.
func (r *Registry) TableNames() []string {
	names := make([]string, 0, len(r.tables))
	for _, t := range r.tables {
		names = append(names, t.Name)
	}
	return names
}

// Lookup finds a table by name, case-insensitively.
func (r *Registry) Lookup(name string) (Table, bool) {
	t, ok := r.byName[strings.ToLower(name)]
	return t, ok
}

// LiveTable returns the single live-today table.
func (r *Registry) LiveTable() Table {
	for _, t := range r.tables {
		if t.Scope == ScopeLiveToday {
			return t
		}
	}
	return Table{}
}

// AggregateTable returns the single daily-aggregate table.
func (r *Registry) AggregateTable() Table {
	for _, t := range r.tables {
		if t.Scope == ScopeDailyAggregate {
			return t
		}
	}
	return Table{}
}

// PromptText renders the registry as a schema description suitable for
// embedding in the translator prompt, including the temporal routing rules
// the model must follow.
func (r *Registry) PromptText() string {
	var b strings.Builder

	for i, t := range r.tables {
		fmt.Fprintf(&b, "=== TABLE %d: %s (%s) ===\n", i+1, t.Name, t.Scope)
		if t.Purpose != "" {
			fmt.Fprintf(&b, "Purpose: %s\n", t.Purpose)
		}
		if t.Grain != "" {
			fmt.Fprintf(&b, "Grain: %s\n", t.Grain)
		}
		b.WriteString("Columns:\n")
		for _, c := range t.Columns {
			fmt.Fprintf(&b, "- %s (%s)", c.Name, c.Semantic)
			if c.Description != "" {
				fmt.Fprintf(&b, " - %s", c.Description)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "ROUTING RULES:\n")
	fmt.Fprintf(&b, "- Questions about \"today\", \"current\", \"live\" or intraday positions use %s.\n", r.LiveTable().Name)
	fmt.Fprintf(&b, "- Win rates, strategy comparisons and performance summaries use %s.\n", r.AggregateTable().Name)
	for _, t := range r.tables {
		if t.Scope == ScopeHistorical {
			fmt.Fprintf(&b, "- Historical analysis of completed trades uses %s.\n", t.Name)
		}
	}

	return b.String()
}
