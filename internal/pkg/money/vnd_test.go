//go:build unit

package money_test

import (
	"testing"

	"gotrip-checkout/internal/pkg/money"

	"github.com/stretchr/testify/assert"
)

func TestFormatVND(t *testing.T) {
	cases := []struct {
		name   string
		amount int64
		want   string
	}{
		{name: "zero", amount: 0, want: "0 ₫"},
		{name: "below grouping", amount: 950, want: "950 ₫"},
		{name: "single room supplement", amount: 1400000, want: "1.400.000 ₫"},
		{name: "odd total", amount: 419717, want: "419.717 ₫"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, money.FormatVND(tc.amount))
		})
	}
}
