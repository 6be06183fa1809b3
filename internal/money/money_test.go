package money

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "₹0"},
		{5, "₹5"},
		{999, "₹999"},
		{1000, "₹1,000"},
		{1234.5, "₹1,234.5"},
		{12345.67, "₹12,345.67"},
		{123456, "₹1,23,456"},
		{12345678, "₹1,23,45,678"},
		{1.005, "₹1.01"},
		{0.1 + 0.2, "₹0.3"},
		{2.999, "₹3"},
		{-1500.25, "₹-1,500.25"},
		{-0.001, "₹0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatINR(tt.in), "FormatINR(%v)", tt.in)
	}
}

func TestGroup_NonFinite(t *testing.T) {
	assert.Equal(t, "0", Group(math.NaN()))
	assert.Equal(t, "0", Group(math.Inf(1)))
}

func TestSum(t *testing.T) {
	a, b, c := 0.1, 0.2, 1250.5
	total := Sum(&a, nil, &b, &c)
	assert.True(t, decimal.RequireFromString("1250.8").Equal(total), total.String())
	assert.Equal(t, "₹1,250.8", FormatDecimal(total))

	nan := math.NaN()
	assert.True(t, Sum(&nan).IsZero())
	assert.True(t, Sum().IsZero())
}

func TestGroupDecimal(t *testing.T) {
	assert.Equal(t, "1,00,00,000", GroupDecimal(decimal.NewFromInt(10000000)))
	assert.Equal(t, "-12.5", GroupDecimal(decimal.RequireFromString("-12.499")))
	assert.Equal(t, "0", GroupDecimal(decimal.RequireFromString("-0.004")))
}
