package sheet

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gkj-pamulang/panitia/internal/model"
)

func TestDonors(t *testing.T) {
	rows := DecodeCSV("Nama,Wilayah,Status\nJane Doe,\"West, Side\",LUNAS\n,North,BELUM\nBob,North,lunas\n", DonorSchema.HeaderRows)

	res, err := Mapper{}.Donors(DonorSchema, rows)
	if err != nil {
		t.Fatalf("Donors: %v", err)
	}

	want := []model.DonorEntry{
		{Name: "Jane Doe", Region: "West, Side", Status: model.StatusPaid, RawStatus: "LUNAS"},
		{Name: "Bob", Region: "North", Status: model.StatusUnknown, RawStatus: "lunas"},
	}
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if res.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", res.Dropped)
	}
}

func TestPledges(t *testing.T) {
	rows := [][]string{
		{"A", "100", "100", "online"},
		{"B", "200", "50", "kartu"},
		{"C", "0", "0", "online"},
		{"", "500", "0", ""},
		{"D", `"Rp1,000"`, "", " Kartu "},
	}

	res, err := Mapper{}.Pledges(PledgeSchema, rows)
	if err != nil {
		t.Fatalf("Pledges: %v", err)
	}

	want := []model.PledgeEntry{
		{Name: "A", Pledged: 100, Paid: 100, Channel: model.ChannelOnline},
		{Name: "B", Pledged: 200, Paid: 50, Channel: model.ChannelCard},
		{Name: "D", Pledged: 1000, Paid: 0, Channel: model.ChannelCard},
	}
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if res.Dropped != 2 {
		t.Errorf("Dropped = %d, want 2", res.Dropped)
	}
	for _, p := range res.Records {
		if p.Name == "" {
			t.Errorf("record with empty name: %+v", p)
		}
	}
}

func TestIncome(t *testing.T) {
	body := "Kategori,Target,Realisasi\n" +
		"Janji Iman,\"Rp120,000,000\",\"Rp2,704,000\"\n" +
		"Lelang,\"Rp45,000,000\"\n" +
		"Kosong,0,0\n"

	res, err := Mapper{}.Income(IncomeSchema, DecodeCSV(body, IncomeSchema.HeaderRows))
	if err != nil {
		t.Fatalf("Income: %v", err)
	}

	want := []model.IncomeLine{
		{Category: "Janji Iman", Target: 120000000, Realized: 2704000, HasRealized: true},
		{Category: "Lelang", Target: 45000000, HasRealized: true},
	}
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if res.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", res.Dropped)
	}
}

func TestShortRows(t *testing.T) {
	rows := [][]string{
		{"A", "North", "LUNAS"},
		{"B", "South"},
	}

	res, err := Mapper{}.Donors(DonorSchema, rows)
	if err != nil {
		t.Fatalf("lenient Donors: %v", err)
	}
	if res.Short != 1 || len(res.Records) != 2 {
		t.Fatalf("lenient: Short=%d records=%d, want 1 and 2", res.Short, len(res.Records))
	}
	if res.Records[1].Status != model.StatusUnknown {
		t.Errorf("padded row status = %v, want unknown", res.Records[1].Status)
	}

	_, err = Mapper{Strict: true}.Donors(DonorSchema, rows)
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("strict Donors error = %v, want ErrSchema", err)
	}
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("strict error is not *SchemaError: %T", err)
	}
	if se.Row != 2 || se.Got != 2 || se.Want != 3 {
		t.Errorf("SchemaError = %+v", se)
	}
}

func TestPledgeChannelOptional(t *testing.T) {
	res, err := Mapper{Strict: true}.Pledges(PledgeSchema, [][]string{{"A", "100", "0"}})
	if err != nil {
		t.Fatalf("Pledges: %v", err)
	}
	if len(res.Records) != 1 || res.Records[0].Channel != model.ChannelOnline {
		t.Errorf("records = %+v, want one online pledge", res.Records)
	}
}
