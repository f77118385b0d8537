package model

// StatusCounts holds donor counts by payment status.
type StatusCounts struct {
	Total   int `json:"total"`
	Paid    int `json:"paid"`
	Unpaid  int `json:"unpaid"`
	Unknown int `json:"unknown"`
}

// PaidPercent is the share of donors that have paid.
func (c StatusCounts) PaidPercent() Percent {
	return PercentOf(int64(c.Paid), int64(c.Total))
}

// UnpaidPercent is the share of donors that have not paid.
func (c StatusCounts) UnpaidPercent() Percent {
	return PercentOf(int64(c.Unpaid), int64(c.Total))
}

// RegionStats holds the donors of one region and their counts.
type RegionStats struct {
	Region string       `json:"region"`
	Donors []DonorEntry `json:"donors"`
	Counts StatusCounts `json:"counts"`
}

// DonorSummary is the donor ledger overview.
type DonorSummary struct {
	Counts  StatusCounts  `json:"counts"`
	Regions []RegionStats `json:"regions"`
}

// ChannelStats holds pledge totals for one payment channel.
type ChannelStats struct {
	Channel Channel `json:"channel"`
	Count   int     `json:"count"`
	Pledged int64   `json:"pledged"`
	Paid    int64   `json:"paid"`
}

// PledgeSummary holds the Janji Iman totals.
type PledgeSummary struct {
	Donors    int            `json:"donors"`
	Pledged   int64          `json:"pledged"`
	Paid      int64          `json:"paid"`
	Remaining int64          `json:"remaining"`
	PaidPct   Percent        `json:"paid_pct"`
	Fully     int            `json:"fully_paid"`
	Partially int            `json:"partially_paid"`
	Channels  []ChannelStats `json:"channels"`
}

// CategoryStats is an income category subtotal.
type CategoryStats struct {
	Category    string  `json:"category"`
	Lines       int     `json:"lines"`
	Target      int64   `json:"target"`
	Realized    int64   `json:"realized"`
	RealizedPct Percent `json:"realized_pct"`
	SharePct    Percent `json:"share_pct"`
}

// FundingSummary is the funding dashboard overview.
type FundingSummary struct {
	TotalCosts    int64           `json:"total_costs"`
	TotalIncome   int64           `json:"total_income"`
	TotalRealized int64           `json:"total_realized"`
	HasRealized   bool            `json:"has_realized"`
	Balance       int64           `json:"balance"`
	RealizedPct   Percent         `json:"realized_pct"`
	CoveragePct   Percent         `json:"coverage_pct"`
	Costs         []CostLine      `json:"costs"`
	Income        []CategoryStats `json:"income"`
}

// Shortfall reports whether planned income does not cover costs.
func (f FundingSummary) Shortfall() bool {
	return f.Balance < 0
}
