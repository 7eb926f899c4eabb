package executor

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantdesk/tradechat-go/internal/models"
)

func TestExecuteAppendsRowCapLimit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	expected := "SELECT SUM(total_pnl) AS profit FROM trading_today LIMIT 4"
	mock.ExpectQuery(regexp.QuoteMeta(expected)).
		WillReturnRows(pgxmock.NewRows([]string{"profit"}).AddRow(float64(1234.5)))

	ex := New(mock, 3, time.Second)
	result, err := ex.Execute(context.Background(), &models.TranslatedQuery{
		SQL:         "SELECT SUM(total_pnl) AS profit FROM trading_today;",
		TargetTable: "trading_today",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"profit"}, result.Columns)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, 1234.5, result.Rows[0]["profit"])
	assert.False(t, result.Truncated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteKeepsExistingLimit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	expected := "SELECT order_id FROM trading_all ORDER BY total_pnl DESC LIMIT 5"
	mock.ExpectQuery(regexp.QuoteMeta(expected)).
		WillReturnRows(pgxmock.NewRows([]string{"order_id"}).AddRow(int64(1)))

	ex := New(mock, 100, time.Second)
	_, err = ex.Execute(context.Background(), &models.TranslatedQuery{SQL: expected})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteTruncatesAtRowCap(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"n"})
	for i := 0; i < 3; i++ {
		rows.AddRow(int64(i))
	}
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	ex := New(mock, 2, time.Second)
	result, err := ex.Execute(context.Background(), &models.TranslatedQuery{
		SQL: "SELECT n FROM trading_all",
	})
	require.NoError(t, err)
	assert.Len(t, result.Rows, 2)
	assert.True(t, result.Truncated)
}

func TestExecutePreservesColumnOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(
		pgxmock.NewRows([]string{"strategy_name", "total_trades", "win_rate_pct"}).
			AddRow("straddle", int64(42), float64(61.9)),
	)

	ex := New(mock, 10, time.Second)
	result, err := ex.Execute(context.Background(), &models.TranslatedQuery{
		SQL: "SELECT strategy_name, total_trades, win_rate_pct FROM slip_positionlive_daily",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"strategy_name", "total_trades", "win_rate_pct"}, result.Columns)
	assert.Equal(t, "straddle", result.Rows[0]["strategy_name"])
	assert.Equal(t, int64(42), result.Rows[0]["total_trades"])
}

func TestExecuteNormalizesTimestamps(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	midnight := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	intraday := time.Date(2025, 8, 1, 10, 30, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT").WillReturnRows(
		pgxmock.NewRows([]string{"order_date", "ordertime"}).AddRow(midnight, intraday),
	)

	ex := New(mock, 10, time.Second)
	result, err := ex.Execute(context.Background(), &models.TranslatedQuery{
		SQL: "SELECT order_date, ordertime FROM trading_all",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-08-01", result.Rows[0]["order_date"])
	assert.Equal(t, "2025-08-01T10:30:00Z", result.Rows[0]["ordertime"])
}

func TestExecuteStoreError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("relation does not exist"))

	ex := New(mock, 10, time.Second)
	_, err = ex.Execute(context.Background(), &models.TranslatedQuery{
		SQL: "SELECT x FROM trading_all",
	})
	var store *models.StoreError
	require.ErrorAs(t, err, &store)
}

func TestExecuteTimeout(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT").
		WillReturnRows(pgxmock.NewRows([]string{"n"})).
		WillDelayFor(200 * time.Millisecond)

	ex := New(mock, 10, 10*time.Millisecond)
	_, err = ex.Execute(context.Background(), &models.TranslatedQuery{
		SQL: "SELECT pg_sleep(60) FROM trading_all",
	})
	require.ErrorIs(t, err, models.ErrQueryTimeout)
}
