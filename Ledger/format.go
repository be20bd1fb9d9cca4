package Ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders a decimal for display: two decimal places with
// thousands separators, e.g. 1234.5 -> "1,234.50". Rounding happens here
// only; stored values keep their full precision.
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}
