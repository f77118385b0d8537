// Package sheet maps parsed spreadsheet rows onto typed records.
//
// Column order is a contract with the upstream spreadsheet, not something
// the sheet describes itself, so every endpoint has a Schema naming its
// positional columns and how many of them a row must carry.
package sheet

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchema indicates rows that do not match the endpoint schema.
	ErrSchema = errors.New("sheet: schema mismatch")
	// ErrEmpty indicates a sheet that produced no usable records.
	ErrEmpty = errors.New("sheet: no records")
)

// Schema describes the positional layout of one endpoint.
type Schema struct {
	Name       string
	Columns    []string
	Required   int // leading columns every data row must have
	HeaderRows int
}

var (
	// DonorSchema is the donor status sheet: name, region, status.
	DonorSchema = Schema{
		Name:       "donors",
		Columns:    []string{"name", "region", "status"},
		Required:   3,
		HeaderRows: 1,
	}
	// PledgeSchema is the Janji Iman sheet. It has no header row and the
	// channel column is optional.
	PledgeSchema = Schema{
		Name:     "pledges",
		Columns:  []string{"name", "pledged", "paid", "channel"},
		Required: 3,
	}
	// IncomeSchema is the income/realization sheet.
	IncomeSchema = Schema{
		Name:       "income",
		Columns:    []string{"category", "target", "realized"},
		Required:   2,
		HeaderRows: 1,
	}
)

// SchemaError describes a row that is too short for its schema.
type SchemaError struct {
	Schema string
	Row    int // 1-based data row, header excluded
	Got    int
	Want   int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sheet: %s row %d has %d columns, want at least %d", e.Schema, e.Row, e.Got, e.Want)
}

// Unwrap makes errors.Is(err, ErrSchema) hold.
func (e *SchemaError) Unwrap() error { return ErrSchema }

// check validates a row against the schema. In lenient mode a short row
// is padded with empty cells and reported as short.
func (s Schema) check(row []string, idx int, strict bool) ([]string, bool, error) {
	if len(row) >= s.Required {
		return row, false, nil
	}
	if strict {
		return nil, true, &SchemaError{Schema: s.Name, Row: idx + 1, Got: len(row), Want: s.Required}
	}
	padded := make([]string, len(s.Columns))
	copy(padded, row)
	return padded, true, nil
}

// cell returns the trimmed i-th cell, or "" when the row is shorter.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
