// Package money formats rupee amounts the way the dashboard shows them:
// Indian digit grouping (1,23,45,678) with at most two fraction digits.
package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const RupeeSign = "₹"

// FormatINR renders v as "₹1,23,456.5". Trailing fraction zeros are dropped.
func FormatINR(v float64) string {
	return RupeeSign + Group(v)
}

// FormatDecimal is FormatINR for an exact amount.
func FormatDecimal(d decimal.Decimal) string {
	return RupeeSign + GroupDecimal(d)
}

// Group renders v with Indian grouping and no currency sign.
func Group(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return GroupDecimal(decimal.NewFromFloat(v))
}

// GroupDecimal rounds d half away from zero to two places and groups it.
func GroupDecimal(d decimal.Decimal) string {
	d = d.Round(2)
	if d.IsZero() {
		return "0"
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	intPart, frac, _ := strings.Cut(d.StringFixed(2), ".")
	frac = strings.TrimRight(frac, "0")

	out := groupDigits(intPart)
	if frac != "" {
		out += "." + frac
	}
	return sign + out
}

// Sum adds the present amounts exactly; nil entries count as zero.
func Sum(amounts ...*float64) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		if a != nil && !math.IsNaN(*a) && !math.IsInf(*a, 0) {
			total = total.Add(decimal.NewFromFloat(*a))
		}
	}
	return total
}

// groupDigits puts a comma before the last three digits and then after
// every two digits further left.
func groupDigits(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(append(parts, tail), ",")
}
