package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gkj-pamulang/panitia/internal/model"
)

func donor(name, region, status string) model.DonorEntry {
	return model.DonorEntry{Name: name, Region: region, Status: model.ParseDonorStatus(status), RawStatus: status}
}

func TestGroupDonorsByRegion(t *testing.T) {
	donors := []model.DonorEntry{
		donor("A", "North", "LUNAS"),
		donor("B", "South", "BELUM"),
		donor("C", "North", "BELUM"),
	}

	groups := GroupDonorsByRegion(donors)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Region != "North" || groups[1].Region != "South" {
		t.Fatalf("group order = %q, %q; want North, South", groups[0].Region, groups[1].Region)
	}

	var names []string
	for _, d := range groups[0].Donors {
		names = append(names, d.Name)
	}
	if diff := cmp.Diff([]string{"A", "C"}, names); diff != "" {
		t.Errorf("North donors mismatch (-want +got):\n%s", diff)
	}

	wantNorth := model.StatusCounts{Total: 2, Paid: 1, Unpaid: 1}
	if groups[0].Counts != wantNorth {
		t.Errorf("North counts = %+v, want %+v", groups[0].Counts, wantNorth)
	}
}

func TestGroupKeysVerbatim(t *testing.T) {
	donors := []model.DonorEntry{
		donor("A", "north", "LUNAS"),
		donor("B", "North", "LUNAS"),
		donor("C", "North ", "LUNAS"),
	}
	if got := len(GroupDonorsByRegion(donors)); got != 3 {
		t.Errorf("got %d groups, want 3 (no key normalization)", got)
	}
}

func TestRegionCountsSumToTotal(t *testing.T) {
	donors := []model.DonorEntry{
		donor("A", "Wil 1", "LUNAS"),
		donor("B", "Wil 2", "BELUM"),
		donor("C", "Wil 1", "BELUM"),
		donor("D", "Wil 3", "LUNAS"),
		donor("E", "", "??"),
	}

	sum := SummarizeDonors(donors)
	var total, paid, unpaid, unknown int
	for _, r := range sum.Regions {
		total += r.Counts.Total
		paid += r.Counts.Paid
		unpaid += r.Counts.Unpaid
		unknown += r.Counts.Unknown
	}
	got := model.StatusCounts{Total: total, Paid: paid, Unpaid: unpaid, Unknown: unknown}
	if got != sum.Counts {
		t.Errorf("region sums %+v != global %+v", got, sum.Counts)
	}
	if sum.Counts.Unknown != 1 {
		t.Errorf("Unknown = %d, want 1", sum.Counts.Unknown)
	}
}

func TestSummarizePledges(t *testing.T) {
	pledges := []model.PledgeEntry{
		{Name: "A", Pledged: 100, Paid: 100, Channel: model.ChannelOnline},
		{Name: "B", Pledged: 200, Paid: 50, Channel: model.ChannelCard},
	}

	s := SummarizePledges(pledges)
	if s.Pledged != 300 || s.Paid != 150 || s.Remaining != 150 || s.Donors != 2 {
		t.Errorf("summary = %+v", s)
	}
	if pledges[1].Remaining() != 150 {
		t.Errorf("B remaining = %d, want 150", pledges[1].Remaining())
	}
	if !s.PaidPct.Valid || s.PaidPct.Value != 50 {
		t.Errorf("PaidPct = %+v, want 50%%", s.PaidPct)
	}
	if s.Fully != 1 || s.Partially != 1 {
		t.Errorf("Fully=%d Partially=%d, want 1 and 1", s.Fully, s.Partially)
	}

	want := []model.ChannelStats{
		{Channel: model.ChannelOnline, Count: 1, Pledged: 100, Paid: 100},
		{Channel: model.ChannelCard, Count: 1, Pledged: 200, Paid: 50},
	}
	if diff := cmp.Diff(want, s.Channels); diff != "" {
		t.Errorf("channels mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizePledgesEmpty(t *testing.T) {
	s := SummarizePledges(nil)
	if s.PaidPct.Valid {
		t.Errorf("PaidPct on empty set = %+v, want invalid", s.PaidPct)
	}
	if s.PaidPct.String() != "n/a" {
		t.Errorf("PaidPct.String() = %q, want n/a", s.PaidPct.String())
	}
}

func TestOverpaidPledge(t *testing.T) {
	p := model.PledgeEntry{Name: "X", Pledged: 100, Paid: 150}
	if p.Remaining() != -50 {
		t.Errorf("Remaining = %d, want -50", p.Remaining())
	}
	s := SummarizePledges([]model.PledgeEntry{p})
	if s.PaidPct.Value != 100 {
		t.Errorf("PaidPct = %v, want clamped to 100", s.PaidPct.Value)
	}
	if p.State() != model.PaymentFull {
		t.Errorf("State = %v, want full", p.State())
	}
}

func TestFilterPledgesByName(t *testing.T) {
	pledges := []model.PledgeEntry{{Name: "Budi Santoso"}, {Name: "Sari"}, {Name: "budiman"}}

	got := FilterPledgesByName(pledges, " BUDI ")
	if len(got) != 2 || got[0].Name != "Budi Santoso" || got[1].Name != "budiman" {
		t.Errorf("FilterPledgesByName = %+v", got)
	}
	if got := FilterPledgesByName(pledges, ""); len(got) != 3 {
		t.Errorf("empty query returned %d pledges, want 3", len(got))
	}
}

func TestSummarizeFunding(t *testing.T) {
	costs := []model.CostLine{{Category: "Ujian", Amount: 600}, {Category: "Tim", Amount: 400}}
	income := []model.IncomeLine{
		{Category: "Lelang", Target: 300, Realized: 150, HasRealized: true},
		{Category: "Janji Iman", Target: 500, Realized: 100, HasRealized: true},
		{Category: "Lelang", Target: 200, Realized: 0, HasRealized: true},
	}

	s := SummarizeFunding(costs, income)
	if s.TotalCosts != 1000 || s.TotalIncome != 1000 || s.TotalRealized != 250 || s.Balance != 0 {
		t.Errorf("totals = %+v", s)
	}
	if s.Shortfall() {
		t.Error("Shortfall() = true for balanced funding")
	}
	if s.RealizedPct.Value != 25 {
		t.Errorf("RealizedPct = %v, want 25", s.RealizedPct.Value)
	}

	if len(s.Income) != 2 || s.Income[0].Category != "Janji Iman" || s.Income[1].Category != "Lelang" {
		t.Fatalf("income groups = %+v", s.Income)
	}
	var sum int64
	for _, c := range s.Income {
		sum += c.Target
	}
	if sum != s.TotalIncome {
		t.Errorf("category targets sum to %d, want %d", sum, s.TotalIncome)
	}
	if s.Income[1].Lines != 2 || s.Income[1].SharePct.Value != 50 {
		t.Errorf("Lelang = %+v", s.Income[1])
	}
}

func TestSummarizeFundingStatic(t *testing.T) {
	s := SummarizeFunding(nil, []model.IncomeLine{{Category: "Donatur", Target: 10}})
	if s.HasRealized || s.RealizedPct.Valid {
		t.Errorf("static income should have no realization: %+v", s)
	}
	if s.CoveragePct.Valid {
		t.Errorf("CoveragePct with zero costs = %+v, want invalid", s.CoveragePct)
	}
	if s.Income[0].RealizedPct.Valid != true || s.Income[0].RealizedPct.Value != 0 {
		t.Errorf("category RealizedPct = %+v", s.Income[0].RealizedPct)
	}
}

func TestPercentRange(t *testing.T) {
	cases := [][2]int64{{0, 1}, {1, 3}, {5, 5}, {9, 4}, {-2, 4}}
	for _, c := range cases {
		p := model.PercentOf(c[0], c[1])
		if !p.Valid || p.Value < 0 || p.Value > 100 {
			t.Errorf("PercentOf(%d, %d) = %+v, want valid in [0,100]", c[0], c[1], p)
		}
	}
	if p := model.PercentOf(3, 0); p.Valid {
		t.Errorf("PercentOf(3, 0) = %+v, want invalid", p)
	}
}
