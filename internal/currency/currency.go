// Package currency normalizes Rupiah amounts as they appear in the
// committee spreadsheets and formats them back for display.
package currency

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cleaner = strings.NewReplacer(
	`"`, "",
	"Rp", "",
	",", "",
	"%", "",
)

// Parse converts a spreadsheet cell such as "Rp2,704,000" into a whole
// Rupiah amount. Fractions are truncated. Empty, negative or unparseable
// input yields 0; Parse never fails.
func Parse(raw string) int64 {
	s := strings.TrimSpace(cleaner.Replace(raw))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Floor(f)
	if f <= 0 || f >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}

var printer = message.NewPrinter(language.Indonesian)

// Format renders an amount the way the committee publishes it,
// e.g. 120000000 -> "Rp 120.000.000".
func Format(amount int64) string {
	if amount < 0 {
		// uint64 keeps the magnitude of math.MinInt64.
		return "-Rp " + printer.Sprintf("%d", uint64(-amount))
	}
	return "Rp " + Group(amount)
}

// Group applies Indonesian digit grouping without the currency prefix.
func Group(n int64) string {
	return printer.Sprintf("%d", n)
}
