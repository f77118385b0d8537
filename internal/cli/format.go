// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/gkj-pamulang/panitia/internal/currency"
	"github.com/gkj-pamulang/panitia/internal/model"
)

// FormatRupiah formats an amount in full, e.g. "Rp 120.000.000".
func FormatRupiah(n int64) string {
	return currency.Format(n)
}

// FormatCompactRupiah abbreviates large amounts the way the committee
// writes them: 45384000 -> "Rp 45,4 jt", 1200000000 -> "Rp 1,2 M".
func FormatCompactRupiah(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	var s string
	switch {
	case n >= 1_000_000_000:
		s = decimalComma(float64(n)/1_000_000_000) + " M"
	case n >= 1_000_000:
		s = decimalComma(float64(n)/1_000_000) + " jt"
	case n >= 1_000:
		s = decimalComma(float64(n)/1_000) + " rb"
	default:
		s = fmt.Sprintf("%d", n)
	}
	return sign + "Rp " + s
}

// decimalComma prints one decimal with an Indonesian decimal comma,
// dropping a trailing ",0".
func decimalComma(f float64) string {
	s := fmt.Sprintf("%.1f", f)
	s = strings.TrimSuffix(s, ".0")
	return strings.Replace(s, ".", ",", 1)
}

// FormatNumber applies Indonesian digit grouping to a count.
// e.g., 1234567 -> "1.234.567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	return currency.Group(n)
}

// FormatPercent formats a percentage, or "n/a" when it is undefined.
func FormatPercent(p model.Percent) string {
	return p.String()
}

// FormatAgo formats the time elapsed since t, e.g. "3m ago".
func FormatAgo(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	switch {
	case d < 10*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("2 Jan 2006 15:04")
	}
}
