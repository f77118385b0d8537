// Package feed loads the committee's live sheets into immutable
// snapshots, substituting the bundled dataset when the funding sheet
// cannot be read.
package feed

import (
	"time"

	"github.com/gkj-pamulang/panitia/internal/model"
)

// State says where a view's data came from.
type State string

const (
	// StateLive means the view shows freshly fetched data.
	StateLive State = "live"
	// StateFallback means the fetch failed and static figures are shown.
	StateFallback State = "fallback"
	// StateStatic means no endpoint is configured; nothing was fetched.
	StateStatic State = "static"
	// StateFailed means the fetch failed and the view has no fallback.
	StateFailed State = "failed"
)

// Banner is the non-blocking notice shown with the view.
func (s State) Banner() string {
	switch s {
	case StateLive:
		return "Data langsung dari spreadsheet"
	case StateFallback:
		return "Gagal memuat data terbaru, menampilkan data statis"
	case StateStatic:
		return "Menampilkan data statis"
	default:
		return "Data tidak dapat dimuat"
	}
}

// Meta describes how a view was loaded.
type Meta struct {
	State     State     `json:"state"`
	Err       string    `json:"error,omitempty"`
	FetchID   string    `json:"fetch_id,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
	Dropped   int       `json:"dropped"`
	Short     int       `json:"short"`
}

// FundingView is the funding dashboard data.
type FundingView struct {
	Meta
	Income  []model.IncomeLine   `json:"income_lines"`
	Summary model.FundingSummary `json:"summary"`
}

// DonorView is the donor status ledger.
type DonorView struct {
	Meta
	Donors  []model.DonorEntry `json:"donors"`
	Summary model.DonorSummary `json:"summary"`
}

// PledgeView is the Janji Iman list.
type PledgeView struct {
	Meta
	Query   string              `json:"query,omitempty"`
	Pledges []model.PledgeEntry `json:"pledges"`
	Summary model.PledgeSummary `json:"summary"`
}

// Snapshot is one refresh of every view. A refresh produces a new
// Snapshot; existing ones are never modified.
type Snapshot struct {
	Seq      uint64      `json:"seq"`
	LoadedAt time.Time   `json:"loaded_at"`
	Funding  FundingView `json:"funding"`
	Donors   DonorView   `json:"donors"`
	Pledges  PledgeView  `json:"pledges"`
}

// States returns the state of each view keyed by view name.
func (s *Snapshot) States() map[string]State {
	return map[string]State{
		"funding": s.Funding.State,
		"donors":  s.Donors.State,
		"pledges": s.Pledges.State,
	}
}
