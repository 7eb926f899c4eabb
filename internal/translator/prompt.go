package translator

import (
	"fmt"
	"strings"

	"github.com/quantdesk/tradechat-go/internal/intent"
	"github.com/quantdesk/tradechat-go/internal/schema"
)

// Trading shorthand the model must understand. Mirrors how traders actually
// phrase questions.
var termGlossary = []string{
	`"1 lakh" / "1 lac" means 100000; initial capital is always 100000 for PROD mode`,
	`"drawdown" is peak equity minus current equity, computed with window functions`,
	`"equity curve" is the running sum of total_pnl plus initial capital, ordered by date`,
	`"win rate" is (profitable_count / trade_count) * 100`,
	`"open positions" are rows where selltime IS NULL`,
	`"sharpe ratio" is (AVG(daily return) / STDDEV(daily return)) * SQRT(252)`,
	`"roi" is (SUM(total_pnl) / initial capital) * 100`,
}

// Few-shot examples, one or two per table, so the model picks the right
// table and shape without guessing.
var promptExamples = []struct {
	question string
	sql      string
}{
	{
		"What was my total profit yesterday?",
		"SELECT SUM(total_pnl) AS profit FROM trading_all WHERE DATE(ordertime) = CURRENT_DATE - INTERVAL '1 day';",
	},
	{
		"Show me my top 5 profitable trades",
		"SELECT order_id, ticker, total_pnl, ordertime FROM trading_all ORDER BY total_pnl DESC LIMIT 5;",
	},
	{
		"What's my profit today?",
		"SELECT SUM(total_pnl) AS profit FROM trading_today;",
	},
	{
		"Show me my current open positions",
		"SELECT order_id, ticker, strategy_name, buyprice, mtm, total_pnl FROM trading_today WHERE selltime IS NULL;",
	},
	{
		"What's the win rate for each strategy?",
		"SELECT strategy_name, SUM(trade_count) AS total_trades, SUM(profitable_count) AS wins, (SUM(profitable_count)::numeric / NULLIF(SUM(trade_count), 0) * 100) AS win_rate_pct FROM slip_positionlive_daily GROUP BY strategy_name ORDER BY win_rate_pct DESC;",
	},
	{
		"Chart my equity curve",
		"SELECT order_date, SUM(SUM(total_pnl)) OVER (ORDER BY order_date) + 100000 AS equity FROM slip_positionlive_daily WHERE mode = 'PROD' GROUP BY order_date ORDER BY order_date;",
	},
	{
		"Show me daily performance for the last 30 days",
		"SELECT order_date, SUM(total_pnl) AS daily_pnl, SUM(trade_count) AS trades FROM slip_positionlive_daily WHERE order_date >= CURRENT_DATE - INTERVAL '30 days' GROUP BY order_date ORDER BY order_date;",
	},
}

// systemPrompt renders the full instruction block: schema, routing rules,
// glossary, output discipline and examples.
func systemPrompt(reg *schema.Registry) string {
	var b strings.Builder

	b.WriteString("You are a SQL expert. Convert natural language questions about trading activity to PostgreSQL queries.\n\n")
	b.WriteString("Database schema:\n\n")
	b.WriteString(reg.PromptText())

	b.WriteString("\nTRADING TERMS:\n")
	for _, t := range termGlossary {
		fmt.Fprintf(&b, "- %s\n", t)
	}

	b.WriteString(`
RULES:
1. Generate exactly ONE read-only statement (SELECT or WITH ... SELECT). Never INSERT, UPDATE, DELETE or any DDL.
2. Return ONLY the SQL statement, no explanation, no markdown fences.
3. For date filtering on datetime columns ALWAYS truncate: DATE(ordertime) = ..., never ordertime = ...
4. Keep result sizes reasonable; add a LIMIT when listing individual rows.
5. Use only tables and columns from the schema above.
6. If the question cannot be answered from this schema, or is too ambiguous to translate, reply with a single line starting with "CLARIFY:" followed by a short question back to the user. Do not emit SQL in that case.

EXAMPLES:
`)

	for _, ex := range promptExamples {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n\n", ex.question, ex.sql)
	}

	return b.String()
}

// userPrompt is the question plus the advisory time-window hint from the
// classifier.
func userPrompt(raw string, in intent.Intent) string {
	var b strings.Builder
	b.WriteString(raw)

	switch in.Window {
	case intent.WindowToday:
		b.WriteString("\n(time window hint: today)")
	case intent.WindowLastNDays:
		fmt.Fprintf(&b, "\n(time window hint: last %d days)", in.WindowDays)
	case intent.WindowNamedMonth:
		fmt.Fprintf(&b, "\n(time window hint: month of %s)", in.Month)
	}

	return b.String()
}
