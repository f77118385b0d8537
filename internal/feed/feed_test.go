package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/gkj-pamulang/panitia/internal/fetch"
	"github.com/gkj-pamulang/panitia/internal/sheet"
	"github.com/gkj-pamulang/panitia/internal/static"
)

const (
	incomeCSV = "Kategori,Target,Realisasi\n" +
		"Janji Iman,\"Rp120,000,000\",\"Rp2,704,000\"\n" +
		"Lelang,\"Rp45,000,000\",\"Rp5,000,000\"\n"
	donorCSV  = "Nama,Wilayah,Status\nA,North,LUNAS\nB,South,BELUM\nC,North,BELUM\n"
	pledgeCSV = "A,100,100,online\nB,200,50,kartu\nBudi,300,0,\n"
)

type sheetServer struct {
	*httptest.Server
	hits     atomic.Int32
	failures map[string]int
}

func newSheetServer(t *testing.T, failures map[string]int) *sheetServer {
	t.Helper()
	s := &sheetServer{failures: failures}
	mux := http.NewServeMux()
	serve := func(path, body string) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			s.hits.Add(1)
			if code, ok := s.failures[path]; ok {
				http.Error(w, "unavailable", code)
				return
			}
			_, _ = w.Write([]byte(body))
		})
	}
	serve("/income", incomeCSV)
	serve("/donors", donorCSV)
	serve("/pledges", pledgeCSV)
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if r.URL.Query().Get("col1") == "budi" {
			_, _ = w.Write([]byte("Budi,300,0,\n"))
		}
	})
	s.Server = httptest.NewServer(mux)
	return s
}

func (s *sheetServer) sources() Sources {
	return Sources{
		Income:          fetch.Source{URL: s.URL + "/income", Format: sheet.FormatCSV, Schema: sheet.IncomeSchema},
		Donors:          fetch.Source{URL: s.URL + "/donors", Format: sheet.FormatCSV, Schema: sheet.DonorSchema},
		Pledges:         fetch.Source{URL: s.URL + "/pledges", Format: sheet.FormatCSV, Schema: sheet.PledgeSchema},
		PledgeSearchURL: s.URL + "/search",
	}
}

func newLoader(src Sources) *Loader {
	return NewLoader(fetch.NewClient(fetch.WithTimeout(2*time.Second)), src, sheet.Mapper{}, nil, nil)
}

func TestLoadLive(t *testing.T) {
	srv := newSheetServer(t, nil)
	defer srv.Close()
	snap := newLoader(srv.sources()).Load(context.Background())

	want := map[string]State{"funding": StateLive, "donors": StateLive, "pledges": StateLive}
	if diff := cmp.Diff(want, snap.States()); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}

	f := snap.Funding.Summary
	if f.TotalIncome != 165000000 || f.TotalRealized != 7704000 {
		t.Errorf("funding income = %d realized = %d", f.TotalIncome, f.TotalRealized)
	}
	if f.TotalCosts != 222000000 {
		t.Errorf("funding costs = %d, want static 222000000", f.TotalCosts)
	}
	if snap.Funding.FetchID == "" {
		t.Error("live view has no fetch id")
	}

	if got := snap.Donors.Summary.Counts; got.Total != 3 || got.Paid != 1 || got.Unpaid != 2 {
		t.Errorf("donor counts = %+v", got)
	}
	if p := snap.Pledges.Summary; p.Pledged != 600 || p.Paid != 150 || p.Remaining != 450 {
		t.Errorf("pledge summary = %+v", p)
	}
}

func TestFundingFallback(t *testing.T) {
	srv := newSheetServer(t, map[string]int{"/income": http.StatusInternalServerError, "/donors": http.StatusNotFound})
	defer srv.Close()
	snap := newLoader(srv.sources()).Load(context.Background())

	if snap.Funding.State != StateFallback {
		t.Fatalf("funding state = %s, want fallback", snap.Funding.State)
	}
	if snap.Funding.Err == "" {
		t.Error("fallback view has no error text")
	}

	ds := static.Default()
	var costs, income int64
	for _, c := range ds.Costs {
		costs += c.Amount
	}
	for _, l := range ds.Income {
		income += l.Target
	}
	if snap.Funding.Summary.TotalCosts != costs || snap.Funding.Summary.TotalIncome != income {
		t.Errorf("fallback totals = %d/%d, want static %d/%d",
			snap.Funding.Summary.TotalCosts, snap.Funding.Summary.TotalIncome, costs, income)
	}

	if snap.Donors.State != StateFailed || len(snap.Donors.Donors) != 0 {
		t.Errorf("donors = %s with %d records, want failed and empty", snap.Donors.State, len(snap.Donors.Donors))
	}
	if snap.Pledges.State != StateLive {
		t.Errorf("pledges = %s, want live", snap.Pledges.State)
	}
}

func TestFundingFallbackOnSchemaDrift(t *testing.T) {
	srv := newSheetServer(t, nil)
	defer srv.Close()
	src := srv.sources()
	src.Income.Schema = sheet.Schema{Name: "income", Columns: []string{"a", "b", "c", "d", "e"}, Required: 5, HeaderRows: 1}

	l := NewLoader(fetch.NewClient(), src, sheet.Mapper{Strict: true}, nil, nil)
	snap := l.Load(context.Background())
	if snap.Funding.State != StateFallback {
		t.Fatalf("strict schema mismatch gave %s, want fallback", snap.Funding.State)
	}
	if !strings.Contains(snap.Funding.Err, "want at least 5") {
		t.Errorf("fallback error = %q, want the schema error", snap.Funding.Err)
	}

	l = NewLoader(fetch.NewClient(), src, sheet.Mapper{}, nil, nil)
	snap = l.Load(context.Background())
	if snap.Funding.State != StateLive {
		t.Fatalf("lenient schema mismatch gave %s, want live", snap.Funding.State)
	}
	if snap.Funding.Short != 2 {
		t.Errorf("short rows = %d, want 2", snap.Funding.Short)
	}
}

func TestStaticByDesign(t *testing.T) {
	snap := newLoader(Sources{}).Load(context.Background())
	want := map[string]State{"funding": StateStatic, "donors": StateStatic, "pledges": StateStatic}
	if diff := cmp.Diff(want, snap.States()); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}
	if snap.Funding.Summary.TotalIncome == 0 {
		t.Error("static funding view is empty")
	}
}

func TestSearchPledges(t *testing.T) {
	srv := newSheetServer(t, nil)
	defer srv.Close()
	l := newLoader(srv.sources())
	base := l.Load(context.Background()).Pledges

	v := l.SearchPledges(context.Background(), base, "budi")
	if v.State != StateLive || len(v.Pledges) != 1 || v.Pledges[0].Name != "Budi" {
		t.Errorf("server search = %s %+v", v.State, v.Pledges)
	}

	src := srv.sources()
	src.PledgeSearchURL = ""
	local := newLoader(src).SearchPledges(context.Background(), base, "B")
	if len(local.Pledges) != 2 || local.Summary.Pledged != 500 {
		t.Errorf("local search = %+v", local.Pledges)
	}

	if same := l.SearchPledges(context.Background(), base, ""); len(same.Pledges) != len(base.Pledges) {
		t.Error("empty query changed the list")
	}
}

func TestRefresher(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv := newSheetServer(t, nil)
	defer srv.Close()
	tr := &http.Transport{}
	defer tr.CloseIdleConnections()

	client := fetch.NewClient(fetch.WithHTTPClient(&http.Client{Transport: tr}))
	r := NewRefresher(NewLoader(client, srv.sources(), sheet.Mapper{}, nil, nil), 20*time.Millisecond, nil)
	if r.Current() != nil {
		t.Fatal("snapshot before first load")
	}

	updates, unsubscribe := r.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	var last uint64
	for i := 0; i < 2; i++ {
		select {
		case snap := <-updates:
			if snap.Seq <= last {
				t.Errorf("seq went from %d to %d", last, snap.Seq)
			}
			last = snap.Seq
		case <-time.After(3 * time.Second):
			t.Fatal("no snapshot from refresher")
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if cur := r.Current(); cur == nil || cur.Seq < last {
		t.Errorf("Current = %+v, want seq >= %d", cur, last)
	}
}

func TestRefreshSnapshotsAreImmutable(t *testing.T) {
	srv := newSheetServer(t, nil)
	defer srv.Close()
	r := NewRefresher(newLoader(srv.sources()), time.Hour, nil)

	first := r.Refresh(context.Background())
	firstDonors := first.Donors.Summary.Counts
	second := r.Refresh(context.Background())

	if first == second {
		t.Fatal("Refresh reused the previous snapshot")
	}
	if second.Seq != first.Seq+1 {
		t.Errorf("seq = %d, want %d", second.Seq, first.Seq+1)
	}
	if first.Donors.Summary.Counts != firstDonors {
		t.Error("earlier snapshot changed after refresh")
	}
}

func TestCancelledRefreshKeepsSnapshot(t *testing.T) {
	srv := newSheetServer(t, nil)
	defer srv.Close()
	r := NewRefresher(newLoader(srv.sources()), time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if snap := r.Refresh(ctx); snap != nil {
		t.Fatalf("cancelled first refresh stored %+v", snap.States())
	}

	live := r.Refresh(context.Background())
	updates, unsubscribe := r.Subscribe()
	defer unsubscribe()

	ctx, cancel = context.WithCancel(context.Background())
	cancel()
	got := r.Refresh(ctx)
	if got != live || r.Current() != live {
		t.Fatalf("cancelled refresh replaced the snapshot: %+v", r.Current().States())
	}
	want := map[string]State{"funding": StateLive, "donors": StateLive, "pledges": StateLive}
	if diff := cmp.Diff(want, r.Current().States()); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}
	if len(r.Current().Donors.Donors) != 3 {
		t.Errorf("donors = %d, want 3", len(r.Current().Donors.Donors))
	}
	select {
	case snap := <-updates:
		t.Errorf("cancelled refresh published seq %d", snap.Seq)
	default:
	}
}
