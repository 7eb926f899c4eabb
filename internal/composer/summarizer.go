package composer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/quantdesk/tradechat-go/internal/llm"
	"github.com/quantdesk/tradechat-go/internal/models"
)

// NoDataMessage is returned whenever a query ran but matched nothing.
const NoDataMessage = "I couldn't find any data matching your question. The query ran but returned no rows."

const summarySystemPrompt = `You are a helpful assistant that explains trading database query results in natural language.
Given the user's question, the SQL query that was run, and the results, provide a clear, concise answer.
Be friendly and conversational. Format numbers nicely: commas for thousands, two decimal places for money.`

// summaryRowLimit bounds how many rows are shown to the model; large results
// are summarized from a sample.
const summaryRowLimit = 50

// Summarizer turns rows into answer text. The model is optional: with a nil
// client, or when the model call fails, a deterministic template answers
// instead.
type Summarizer struct {
	client llm.Client
	log    *logrus.Entry
}

// NewSummarizer builds a summarizer; client may be nil.
func NewSummarizer(client llm.Client) *Summarizer {
	return &Summarizer{
		client: client,
		log:    logrus.WithField("component", "summarizer"),
	}
}

// Summarize produces the natural-language answer for the result.
func (s *Summarizer) Summarize(ctx context.Context, question, sqlQuery string, result *models.TabularResult) string {
	if result.Empty() {
		return NoDataMessage
	}

	if s.client != nil {
		if text, err := s.modelSummary(ctx, question, sqlQuery, result); err == nil {
			return text
		} else {
			s.log.WithError(err).Warn("Model summary failed, falling back to template")
		}
	}

	return templateSummary(result)
}

func (s *Summarizer) modelSummary(ctx context.Context, question, sqlQuery string, result *models.TabularResult) (string, error) {
	rows := result.Rows
	if len(rows) > summaryRowLimit {
		rows = rows[:summaryRowLimit]
	}
	encoded, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encode rows: %w", err)
	}

	user := fmt.Sprintf("Question: %s\n\nSQL query executed: %s\n\nResults (%d rows%s): %s\n\nPlease answer the question based on these results.",
		question, sqlQuery, len(result.Rows), truncNote(result), encoded)

	reply, err := s.client.Complete(ctx, summarySystemPrompt, user)
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("empty summary")
	}
	return reply, nil
}

func truncNote(result *models.TabularResult) string {
	if result.Truncated {
		return ", truncated"
	}
	return ""
}

// templateSummary is the deterministic fallback: a single scalar is spelled
// out, anything else is described by shape.
func templateSummary(result *models.TabularResult) string {
	if len(result.Rows) == 1 && len(result.Columns) == 1 {
		col := result.Columns[0]
		return fmt.Sprintf("%s: %s", col, formatScalar(result.Rows[0][col]))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d row(s) with columns %s.", len(result.Rows), strings.Join(result.Columns, ", "))
	if result.Truncated {
		b.WriteString(" The result was truncated to the row cap.")
	}
	return b.String()
}

func formatScalar(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "no value"
	case float64:
		return decimal.NewFromFloat(val).Round(2).String()
	case int64:
		return fmt.Sprintf("%d", val)
	default:
		return fmt.Sprint(val)
	}
}
