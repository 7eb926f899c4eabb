package executor

import (
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want interface{}
	}{
		{"nil", nil, nil},
		{"string", "NIFTY", "NIFTY"},
		{"bool", true, true},
		{"int", int(7), int64(7)},
		{"int32", int32(7), int64(7)},
		{"float32", float32(1.5), float64(1.5)},
		{"float64", 2.25, 2.25},
		{
			"numeric money",
			pgtype.Numeric{Int: big.NewInt(123456), Exp: -2, Valid: true},
			1234.56,
		},
		{"invalid numeric", pgtype.Numeric{}, nil},
		{"nan numeric", pgtype.Numeric{NaN: true, Valid: true}, nil},
		{
			"date",
			pgtype.Date{Time: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), Valid: true},
			"2025-03-15",
		},
		{"null date", pgtype.Date{}, nil},
		{
			"midnight timestamp renders as date",
			time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			"2025-03-15",
		},
		{
			"intraday timestamp renders as RFC3339",
			time.Date(2025, 3, 15, 9, 15, 30, 0, time.UTC),
			"2025-03-15T09:15:30Z",
		},
		{
			"interval as holding time",
			pgtype.Interval{Microseconds: 3723 * 1_000_000, Valid: true},
			"01:02:03",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeValue(tt.in))
		})
	}
}
