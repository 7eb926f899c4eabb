// Package executor runs a validated statement against the data store and
// reduces whatever comes back to a uniform tabular result.
package executor

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/quantdesk/tradechat-go/internal/models"
)

// Pool is the subset of pgxpool.Pool the executor needs. pgxmock satisfies
// it in tests.
type Pool interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// Executor enforces a row cap and a statement timeout on top of the pool.
type Executor struct {
	pool    Pool
	rowCap  int
	timeout time.Duration
	log     *logrus.Entry
}

// New builds an executor. Non-positive rowCap defaults to 500, non-positive
// timeout to 15 seconds.
func New(pool Pool, rowCap int, timeout time.Duration) *Executor {
	if rowCap <= 0 {
		rowCap = 500
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Executor{
		pool:    pool,
		rowCap:  rowCap,
		timeout: timeout,
		log:     logrus.WithField("component", "executor"),
	}
}

var limitRe = regexp.MustCompile(`(?i)\blimit\s+\d+`)

// Execute runs exactly the validated statement, appending a limiting clause
// when the translator's statement lacks one. The statement is fully formed
// text already; no user input is interpolated here.
func (e *Executor) Execute(ctx context.Context, q *models.TranslatedQuery) (*models.TabularResult, error) {
	stmt := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(q.SQL), ";"))
	if !limitRe.MatchString(stmt) {
		stmt = fmt.Sprintf("%s LIMIT %d", stmt, e.rowCap+1)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	rows, err := e.pool.Query(ctx, stmt)
	if err != nil {
		return nil, e.classify(err)
	}
	defer rows.Close()

	result := &models.TabularResult{}
	for _, fd := range rows.FieldDescriptions() {
		result.Columns = append(result.Columns, string(fd.Name))
	}

	for rows.Next() {
		if len(result.Rows) >= e.rowCap {
			// A capped statement returns at most rowCap+1 rows; seeing
			// one past the cap means the result was truncated.
			result.Truncated = true
			break
		}
		values, err := rows.Values()
		if err != nil {
			return nil, e.classify(err)
		}
		row := make(models.Row, len(result.Columns))
		for i, col := range result.Columns {
			var v interface{}
			if i < len(values) {
				v = values[i]
			}
			row[col] = normalizeValue(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, e.classify(err)
	}

	e.log.WithFields(logrus.Fields{
		"table":       q.TargetTable,
		"rows":        len(result.Rows),
		"truncated":   result.Truncated,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Query executed")

	return result, nil
}

// classify maps a driver error onto the execution taxonomy.
func (e *Executor) classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return models.ErrQueryTimeout
	}
	return &models.StoreError{Err: err}
}
