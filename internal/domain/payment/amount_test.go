package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountMinorUnits(t *testing.T) {
	cases := []struct {
		total string
		want  int64
	}{
		{"4.99", 4990},
		{"9.99", 9990},
		{"0.99", 990},
		{"99.99", 99990},
		{"1", 1000},
		{"0.01", 10},    // raw result is exactly the threshold, no clamp
		{"0.009", 1000}, // raw 9 is below threshold, clamped up
		{"0", 1000},
		{"4.9995", 5000}, // rounding to nearest integer
	}

	for _, tc := range cases {
		t.Run(tc.total, func(t *testing.T) {
			got := AmountMinorUnits(decimal.RequireFromString(tc.total))
			assert.Equal(t, tc.want, got)
		})
	}
}
