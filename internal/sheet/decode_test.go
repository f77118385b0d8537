package sheet

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatCSV, "CSV": FormatCSV, " xlsx ": FormatXLSX} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("ods"); err == nil {
		t.Error("ParseFormat(ods) succeeded, want error")
	}
}

func TestDecodeXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheetRows := [][]interface{}{
		{"Kategori", "Target", "Realisasi"},
		{"Janji Iman", 120000000, 2704000},
		{"  Lelang ", 45000000},
	}
	for i, r := range sheetRows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		row := r
		if err := f.SetSheetRow("Sheet1", cellRef, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	rows, err := Decode(FormatXLSX, buf.Bytes(), IncomeSchema)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := [][]string{
		{"Janji Iman", "120000000", "2704000"},
		{"Lelang", "45000000"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	res, err := Mapper{}.Income(IncomeSchema, rows)
	if err != nil {
		t.Fatalf("Income: %v", err)
	}
	if len(res.Records) != 2 || res.Records[0].Realized != 2704000 {
		t.Errorf("records = %+v", res.Records)
	}
}

func TestDecodeXLSXInvalid(t *testing.T) {
	if _, err := DecodeXLSX([]byte("not a zip"), 0); err == nil {
		t.Error("DecodeXLSX(garbage) succeeded, want error")
	}
}
