// Package csvline splits published spreadsheet exports into fields.
//
// The upstream sheets are exported as loosely quoted CSV: fields may be
// wrapped in double quotes to carry commas ("West, Side") and a doubled
// quote inside a quoted field stands for a literal quote. Parsing never
// fails; malformed quoting only changes where fields are split.
package csvline

import "strings"

// Parse splits a single line (no embedded newlines) into trimmed fields.
// A line with N commas outside quotes always yields N+1 fields.
func Parse(line string) []string {
	var (
		fields  []string
		buf     strings.Builder
		inQuote bool
	)

	// Quotes and commas are ASCII, so scanning bytes leaves every other
	// byte, valid UTF-8 or not, exactly as it was.
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"' && inQuote && i+1 < len(line) && line[i+1] == '"':
			buf.WriteByte('"')
			i++
		case ch == '"':
			inQuote = !inQuote
		case ch == ',' && !inQuote:
			fields = append(fields, strings.TrimSpace(buf.String()))
			buf.Reset()
		default:
			buf.WriteByte(ch)
		}
	}
	return append(fields, strings.TrimSpace(buf.String()))
}

// SplitLines trims the body and splits it into lines, dropping the
// carriage returns that spreadsheet exports put before each newline.
// An empty body yields no lines.
func SplitLines(body string) []string {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// ParseBody parses every line of body, skipping the first skip lines
// (header rows). Blank lines are ignored.
func ParseBody(body string, skip int) [][]string {
	lines := SplitLines(body)
	if skip >= len(lines) {
		return nil
	}
	rows := make([][]string, 0, len(lines)-skip)
	for _, l := range lines[skip:] {
		if strings.TrimSpace(l) == "" {
			continue
		}
		rows = append(rows, Parse(l))
	}
	return rows
}
