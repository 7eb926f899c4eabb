package executor

import (
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// normalizeValue flattens driver scalars to the JSON-safe set the contract
// allows: string, number, bool, null and date/time strings. Money columns
// come back from pgx as pgtype.Numeric; the presentation layer wants plain
// numbers.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case string, bool, float64, int64:
		return val
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint32:
		return int64(val)
	case float32:
		return float64(val)
	case time.Time:
		return formatTime(val)
	case pgtype.Numeric:
		return numericToFloat(val)
	case pgtype.Date:
		if !val.Valid {
			return nil
		}
		return val.Time.Format("2006-01-02")
	case pgtype.Timestamp:
		if !val.Valid {
			return nil
		}
		return formatTime(val.Time)
	case pgtype.Timestamptz:
		if !val.Valid {
			return nil
		}
		return formatTime(val.Time)
	case pgtype.Interval:
		if !val.Valid {
			return nil
		}
		return formatInterval(val)
	case [16]byte:
		return uuid.UUID(val).String()
	case *big.Int:
		return decimal.NewFromBigInt(val, 0).InexactFloat64()
	default:
		return fmt.Sprint(val)
	}
}

// formatTime renders midnight-only values as bare dates, everything else as
// RFC 3339.
func formatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}

// numericToFloat converts through shopspring/decimal to keep money values
// exact until the final float conversion.
func numericToFloat(n pgtype.Numeric) interface{} {
	if !n.Valid || n.NaN || n.Int == nil {
		return nil
	}
	return decimal.NewFromBigInt(n.Int, n.Exp).InexactFloat64()
}

// formatInterval renders an interval as HH:MM:SS, matching how the chat
// widget displays holding times.
func formatInterval(iv pgtype.Interval) string {
	total := iv.Microseconds / 1_000_000
	total += int64(iv.Days) * 24 * 3600
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
