package sheet

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/gkj-pamulang/panitia/internal/csvline"
)

// Format is the export format of a published sheet.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv", "xlsx" or "" (csv).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("sheet: unknown format %q", s)
	}
}

// Decode turns an exported body into field arrays, skipping the schema's
// header rows.
func Decode(f Format, body []byte, s Schema) ([][]string, error) {
	switch f {
	case FormatXLSX:
		return DecodeXLSX(body, s.HeaderRows)
	default:
		return DecodeCSV(string(body), s.HeaderRows), nil
	}
}

// DecodeCSV parses a CSV export.
func DecodeCSV(body string, skip int) [][]string {
	return csvline.ParseBody(body, skip)
}

// DecodeXLSX reads the first worksheet of an xlsx export.
func DecodeXLSX(body []byte, skip int) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sheet: opening xlsx: %w", err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	if name == "" {
		return nil, fmt.Errorf("sheet: xlsx has no worksheets")
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("sheet: reading rows of %q: %w", name, err)
	}

	var out [][]string
	for i, row := range rows {
		if i < skip || isBlank(row) {
			continue
		}
		fields := make([]string, len(row))
		for j, c := range row {
			fields[j] = strings.TrimSpace(c)
		}
		out = append(out, fields)
	}
	return out, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
