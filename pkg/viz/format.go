package viz

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatCurrency renders an amount with thousands separators and a
// currency code suffix, e.g. "1,250,000 SAR".
func FormatCurrency(amount float64, currency string) string {
	s := humanize.Commaf(amount)
	if currency == "" {
		return s
	}
	return s + " " + strings.ToUpper(currency)
}

// FormatPercent renders a ratio as a one-decimal percentage.
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}
