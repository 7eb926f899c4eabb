package translator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/quantdesk/tradechat-go/internal/schema"
)

// Structural validation of model output. Nothing the model emits is trusted
// until it passes every check here.

var (
	forbiddenVerbRe = regexp.MustCompile(`(?i)\b(insert|update|delete|drop|alter|create|truncate|grant|revoke|merge)\b`)
	tableRefRe      = regexp.MustCompile(`(?i)\b(?:from|join)\s+([a-zA-Z_][a-zA-Z0-9_]*)`)
	cteNameRe       = regexp.MustCompile(`(?i)(?:\bwith\s+|,\s*)([a-zA-Z_][a-zA-Z0-9_]*)\s+as\s*\(`)
)

// Validate applies the mandatory structural checks to a candidate statement:
// read-only verb, no write/DDL keywords, single statement, only registry
// tables, and date-truncated comparisons on time-of-day columns.
func Validate(sqlText string, reg *schema.Registry) error {
	trimmed := strings.TrimSpace(sqlText)
	if trimmed == "" {
		return fmt.Errorf("empty statement")
	}

	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return fmt.Errorf("statement must start with SELECT or WITH")
	}

	if m := forbiddenVerbRe.FindString(trimmed); m != "" {
		return fmt.Errorf("statement contains forbidden keyword %q", strings.ToUpper(m))
	}

	if err := checkSingleStatement(trimmed); err != nil {
		return err
	}

	refs := referencedTables(trimmed)
	ctes := cteNames(trimmed)
	for _, ref := range refs {
		if _, isCTE := ctes[strings.ToLower(ref)]; isCTE {
			continue
		}
		if _, ok := reg.Lookup(ref); !ok {
			return fmt.Errorf("statement references unknown table %q", ref)
		}
	}
	if len(refs) == 0 {
		return fmt.Errorf("statement references no table")
	}

	return checkDateTruncation(trimmed, reg, refs)
}

// checkSingleStatement rejects a statement terminator followed by further
// non-whitespace content. A single trailing semicolon is fine.
func checkSingleStatement(sqlText string) error {
	if idx := strings.Index(sqlText, ";"); idx >= 0 {
		if strings.TrimSpace(sqlText[idx+1:]) != "" {
			return fmt.Errorf("multiple statements are not allowed")
		}
	}
	return nil
}

// referencedTables extracts every identifier appearing after FROM or JOIN.
func referencedTables(sqlText string) []string {
	var out []string
	for _, m := range tableRefRe.FindAllStringSubmatch(sqlText, -1) {
		out = append(out, m[1])
	}
	return out
}

// cteNames collects identifiers bound by WITH ... AS ( so they are not
// mistaken for table references.
func cteNames(sqlText string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, m := range cteNameRe.FindAllStringSubmatch(sqlText, -1) {
		out[strings.ToLower(m[1])] = struct{}{}
	}
	return out
}

// checkDateTruncation requires DATE(col), date_trunc or col::date for
// equality comparisons on timestamp columns that carry a time of day. Raw
// equality against such columns silently returns nothing when the stored
// time is not midnight.
func checkDateTruncation(sqlText string, reg *schema.Registry, refs []string) error {
	seen := make(map[string]struct{})
	for _, ref := range refs {
		table, ok := reg.Lookup(ref)
		if !ok {
			continue
		}
		for _, col := range table.Columns {
			if col.Semantic != schema.SemanticTimestamp || col.DateOnly {
				continue
			}
			if _, dup := seen[col.Name]; dup {
				continue
			}
			seen[col.Name] = struct{}{}

			rawEqRe := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(col.Name) + `\s*=`)
			if rawEqRe.MatchString(sqlText) {
				return fmt.Errorf("comparison on %s must date-truncate, e.g. DATE(%s) = ...", col.Name, col.Name)
			}
		}
	}
	return nil
}
