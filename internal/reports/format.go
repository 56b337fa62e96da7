package reports

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders value with two decimals, thousands separators and symbol.
func FormatCurrency(value decimal.Decimal, symbol string) string {
	fixed := value.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if value.IsNegative() && !value.Round(2).IsZero() {
		b.WriteByte('-')
	}
	b.WriteString(symbol)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatQuantity renders value without trailing zeros, rounded to three places, followed by
// unit.
func FormatQuantity(value decimal.Decimal, unit string) string {
	text := value.Round(3).String()
	if unit == "" {
		return text
	}
	return text + " " + unit
}

// FormatReportDate renders the supplied time using a kitchen-friendly layout.
func FormatReportDate(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.Format("Mon, 02 Jan 2006")
}
