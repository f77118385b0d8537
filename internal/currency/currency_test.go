package currency

import (
	"math"
	"strconv"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{`"Rp2,704,000"`, 2704000},
		{"Rp120,000,000", 120000000},
		{"Rp 45,384,000", 45384000},
		{"12,5%", 125},
		{"99.9", 99},
		{"0", 0},
		{"", 0},
		{"   ", 0},
		{"Belum ada", 0},
		{"-5000", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"1e400", 0},
	}

	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseIdempotent(t *testing.T) {
	inputs := []string{`"Rp2,704,000"`, "Rp 1,000.75", "abc", "", "17", "-3", "55030000"}
	for _, in := range inputs {
		once := Parse(in)
		twice := Parse(strconv.FormatInt(once, 10))
		if once != twice {
			t.Errorf("Parse not idempotent for %q: %d then %d", in, once, twice)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{120000000, "Rp 120.000.000"},
		{-5000, "-Rp 5.000"},
		{math.MinInt64, "-Rp 9.223.372.036.854.775.808"},
		{math.MaxInt64, "Rp 9.223.372.036.854.775.807"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
