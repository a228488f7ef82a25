// Package money converts between the int64 cent amounts used internally and
// the decimal dollar strings used at the CLI and API boundary.
package money

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Parse converts a dollar string such as "125", "125.50" or "$1,250.75" into
// cents. More than two decimal places is an error, not a rounding.
func Parse(s string) (int64, error) {
	cleaned := strings.TrimSpace(s)
	sign := ""
	if strings.HasPrefix(cleaned, "-") {
		sign = "-"
		cleaned = cleaned[1:]
	}
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	d, err := decimal.NewFromString(sign + cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	bi := cents.BigInt()
	if !bi.IsInt64() {
		return 0, fmt.Errorf("amount %q is out of range", s)
	}
	return bi.Int64(), nil
}

// String renders cents as a plain decimal string like "1234.56".
func String(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// Format renders cents as a display string like "$1,234.56" or "-$75.00".
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%s.%02d", sign, group(cents/100), cents%100)
}

func group(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
