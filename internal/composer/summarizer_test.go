package composer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantdesk/tradechat-go/internal/models"
)

type stubClient struct {
	reply string
	err   error
	user  string
}

func (c *stubClient) Complete(_ context.Context, _, user string) (string, error) {
	c.user = user
	return c.reply, c.err
}

func TestSummarizeEmptyResult(t *testing.T) {
	s := NewSummarizer(&stubClient{reply: "should not be used"})

	got := s.Summarize(context.Background(), "q", "SELECT 1", &models.TabularResult{
		Columns: []string{"profit"},
	})
	assert.Equal(t, NoDataMessage, got)
}

func TestSummarizeUsesModel(t *testing.T) {
	client := &stubClient{reply: "You made 1,234.50 today."}
	s := NewSummarizer(client)

	res := &models.TabularResult{
		Columns: []string{"profit"},
		Rows:    []models.Row{{"profit": 1234.5}},
	}
	got := s.Summarize(context.Background(), "profit today?", "SELECT SUM(total_pnl) FROM trading_today", res)
	assert.Equal(t, "You made 1,234.50 today.", got)
	assert.Contains(t, client.user, "profit today?")
	assert.Contains(t, client.user, "SELECT SUM(total_pnl)")
}

func TestSummarizeFallsBackOnModelError(t *testing.T) {
	s := NewSummarizer(&stubClient{err: errors.New("down")})

	res := &models.TabularResult{
		Columns: []string{"profit"},
		Rows:    []models.Row{{"profit": 1234.5}},
	}
	got := s.Summarize(context.Background(), "q", "sql", res)
	assert.Equal(t, "profit: 1234.5", got)
}

func TestSummarizeNilClientUsesTemplate(t *testing.T) {
	s := NewSummarizer(nil)

	res := &models.TabularResult{
		Columns: []string{"order_date", "pnl"},
		Rows: []models.Row{
			{"order_date": "2025-08-01", "pnl": 1.0},
			{"order_date": "2025-08-02", "pnl": 2.0},
		},
		Truncated: true,
	}
	got := s.Summarize(context.Background(), "q", "sql", res)
	assert.Contains(t, got, "Found 2 row(s)")
	assert.Contains(t, got, "order_date, pnl")
	assert.Contains(t, got, "truncated")
}

func TestTemplateSummarySingleScalar(t *testing.T) {
	res := &models.TabularResult{
		Columns: []string{"win_rate_pct"},
		Rows:    []models.Row{{"win_rate_pct": 61.94567}},
	}
	got := templateSummary(res)
	assert.Equal(t, "win_rate_pct: 61.95", got)
}

func TestFormatScalar(t *testing.T) {
	assert.Equal(t, "no value", formatScalar(nil))
	assert.Equal(t, "42", formatScalar(int64(42)))
	assert.Equal(t, "NIFTY", formatScalar("NIFTY"))
	assert.Equal(t, "1234.57", formatScalar(1234.5678))
}

func TestSummarizeRejectsBlankModelReply(t *testing.T) {
	s := NewSummarizer(&stubClient{reply: "   "})

	res := &models.TabularResult{
		Columns: []string{"profit"},
		Rows:    []models.Row{{"profit": int64(10)}},
	}
	got := s.Summarize(context.Background(), "q", "sql", res)
	require.Equal(t, "profit: 10", got)
}
