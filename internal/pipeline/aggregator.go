// Package pipeline aggregates donor, pledge and funding records into the
// figures shown on the committee dashboards.
package pipeline

import (
	"sort"
	"strings"

	"github.com/gkj-pamulang/panitia/internal/model"
)

// GroupBy partitions items by key. Keys are returned sorted; items keep
// their source order inside each group. Keys are used verbatim.
func GroupBy[T any](items []T, key func(T) string) ([]string, map[string][]T) {
	groups := make(map[string][]T)
	for _, it := range items {
		k := key(it)
		groups[k] = append(groups[k], it)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, groups
}

// CountStatus tallies donors by payment status.
func CountStatus(donors []model.DonorEntry) model.StatusCounts {
	var c model.StatusCounts
	for _, d := range donors {
		c.Total++
		switch d.Status {
		case model.StatusPaid:
			c.Paid++
		case model.StatusUnpaid:
			c.Unpaid++
		default:
			c.Unknown++
		}
	}
	return c
}

// GroupDonorsByRegion returns one RegionStats per distinct region, in
// lexicographic region order.
func GroupDonorsByRegion(donors []model.DonorEntry) []model.RegionStats {
	keys, groups := GroupBy(donors, func(d model.DonorEntry) string { return d.Region })
	out := make([]model.RegionStats, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.RegionStats{
			Region: k,
			Donors: groups[k],
			Counts: CountStatus(groups[k]),
		})
	}
	return out
}

// SummarizeDonors computes global and per-region donor counts.
func SummarizeDonors(donors []model.DonorEntry) model.DonorSummary {
	return model.DonorSummary{
		Counts:  CountStatus(donors),
		Regions: GroupDonorsByRegion(donors),
	}
}

// FilterDonorsByRegion returns donors whose region matches exactly.
func FilterDonorsByRegion(donors []model.DonorEntry, region string) []model.DonorEntry {
	var out []model.DonorEntry
	for _, d := range donors {
		if d.Region == region {
			out = append(out, d)
		}
	}
	return out
}

// SummarizePledges computes Janji Iman totals and per-channel subtotals.
func SummarizePledges(pledges []model.PledgeEntry) model.PledgeSummary {
	var s model.PledgeSummary
	channels := make(map[model.Channel]*model.ChannelStats)

	for _, p := range pledges {
		s.Donors++
		s.Pledged += p.Pledged
		s.Paid += p.Paid

		switch p.State() {
		case model.PaymentFull:
			s.Fully++
		case model.PaymentPartial:
			s.Partially++
		}

		cs, ok := channels[p.Channel]
		if !ok {
			cs = &model.ChannelStats{Channel: p.Channel}
			channels[p.Channel] = cs
		}
		cs.Count++
		cs.Pledged += p.Pledged
		cs.Paid += p.Paid
	}

	s.Remaining = s.Pledged - s.Paid
	s.PaidPct = model.PercentOf(s.Paid, s.Pledged)

	for _, cs := range channels {
		s.Channels = append(s.Channels, *cs)
	}
	sort.Slice(s.Channels, func(i, j int) bool {
		return s.Channels[i].Channel < s.Channels[j].Channel
	})
	return s
}

// FilterPledgesByName returns pledges whose name contains query,
// case-insensitively. An empty query returns the input unchanged.
func FilterPledgesByName(pledges []model.PledgeEntry, query string) []model.PledgeEntry {
	query = strings.TrimSpace(query)
	if query == "" {
		return pledges
	}
	var out []model.PledgeEntry
	for _, p := range pledges {
		if containsIgnoreCase(p.Name, query) {
			out = append(out, p)
		}
	}
	return out
}

// GroupIncomeByCategory returns income subtotals per category in
// lexicographic order. Share is each category's part of the total target.
func GroupIncomeByCategory(income []model.IncomeLine) []model.CategoryStats {
	var total int64
	for _, l := range income {
		total += l.Target
	}

	keys, groups := GroupBy(income, func(l model.IncomeLine) string { return l.Category })
	out := make([]model.CategoryStats, 0, len(keys))
	for _, k := range keys {
		cs := model.CategoryStats{Category: k}
		for _, l := range groups[k] {
			cs.Lines++
			cs.Target += l.Target
			cs.Realized += l.Realized
		}
		cs.RealizedPct = model.PercentOf(cs.Realized, cs.Target)
		cs.SharePct = model.PercentOf(cs.Target, total)
		out = append(out, cs)
	}
	return out
}

// SummarizeFunding computes the funding dashboard figures. Income lines
// from the static dataset carry no realized figure; HasRealized is set
// only when at least one line does.
func SummarizeFunding(costs []model.CostLine, income []model.IncomeLine) model.FundingSummary {
	s := model.FundingSummary{
		Costs:  costs,
		Income: GroupIncomeByCategory(income),
	}
	for _, c := range costs {
		s.TotalCosts += c.Amount
	}
	for _, l := range income {
		s.TotalIncome += l.Target
		s.TotalRealized += l.Realized
		if l.HasRealized {
			s.HasRealized = true
		}
	}

	s.Balance = s.TotalIncome - s.TotalCosts
	s.CoveragePct = model.PercentOf(s.TotalIncome, s.TotalCosts)
	if s.HasRealized {
		s.RealizedPct = model.PercentOf(s.TotalRealized, s.TotalIncome)
	}
	return s
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
