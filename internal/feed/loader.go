package feed

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gkj-pamulang/panitia/internal/fetch"
	"github.com/gkj-pamulang/panitia/internal/model"
	"github.com/gkj-pamulang/panitia/internal/pipeline"
	"github.com/gkj-pamulang/panitia/internal/sheet"
	"github.com/gkj-pamulang/panitia/internal/static"
)

// Sources are the published sheets. An empty URL disables the fetch.
type Sources struct {
	Income          fetch.Source
	Donors          fetch.Source
	Pledges         fetch.Source
	PledgeSearchURL string
}

// Loader fetches, maps and aggregates every view.
type Loader struct {
	client  *fetch.Client
	sources Sources
	mapper  sheet.Mapper
	log     *zap.Logger
	now     func() time.Time
	dataset atomic.Pointer[static.Dataset]
}

// NewLoader creates a Loader. A nil dataset uses the bundled one.
func NewLoader(client *fetch.Client, src Sources, mapper sheet.Mapper, ds *static.Dataset, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	if ds == nil {
		ds = static.Default()
	}
	l := &Loader{
		client:  client,
		sources: src,
		mapper:  mapper,
		log:     log,
		now:     time.Now,
	}
	l.dataset.Store(ds)
	return l
}

// Dataset returns the static dataset currently in use.
func (l *Loader) Dataset() *static.Dataset {
	return l.dataset.Load()
}

// SetDataset swaps the static dataset used by later loads.
func (l *Loader) SetDataset(ds *static.Dataset) {
	if ds != nil {
		l.dataset.Store(ds)
	}
}

// Load fetches the three views concurrently. It never fails: fetch
// problems are recorded in each view's Meta.
func (l *Loader) Load(ctx context.Context) *Snapshot {
	snap := &Snapshot{LoadedAt: l.now()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Funding = l.loadFunding(gctx)
		return nil
	})
	g.Go(func() error {
		snap.Donors = l.loadDonors(gctx)
		return nil
	})
	g.Go(func() error {
		snap.Pledges = l.loadPledges(gctx, l.sources.Pledges.URL, "")
		return nil
	})
	_ = g.Wait()

	return snap
}

func (l *Loader) meta(resp *fetch.Response) Meta {
	m := Meta{State: StateLive, FetchedAt: l.now()}
	if resp != nil {
		m.FetchID = resp.ID
		m.FetchedAt = resp.FetchedAt
	}
	return m
}

func (l *Loader) failed(view string, state State, err error) Meta {
	l.log.Warn("live data unavailable",
		zap.String("view", view),
		zap.String("state", string(state)),
		zap.Error(err),
	)
	return Meta{State: state, Err: err.Error(), FetchedAt: l.now()}
}

func (l *Loader) loadFunding(ctx context.Context) FundingView {
	ds := l.Dataset()
	staticView := func(m Meta) FundingView {
		return FundingView{
			Meta:    m,
			Income:  ds.Income,
			Summary: pipeline.SummarizeFunding(ds.Costs, ds.Income),
		}
	}

	src := l.sources.Income
	src.Schema = schemaOr(src.Schema, sheet.IncomeSchema)
	if src.URL == "" {
		return staticView(Meta{State: StateStatic, FetchedAt: l.now()})
	}

	rows, resp, err := l.client.Rows(ctx, src, "")
	if err != nil {
		return staticView(l.failed("funding", StateFallback, err))
	}
	res, err := l.mapper.Income(src.Schema, rows)
	if err == nil && len(res.Records) == 0 {
		err = sheet.ErrEmpty
	}
	if err != nil {
		return staticView(l.failed("funding", StateFallback, err))
	}

	m := l.meta(resp)
	m.Dropped, m.Short = res.Dropped, res.Short
	return FundingView{
		Meta:    m,
		Income:  res.Records,
		Summary: pipeline.SummarizeFunding(ds.Costs, res.Records),
	}
}

func (l *Loader) loadDonors(ctx context.Context) DonorView {
	src := l.sources.Donors
	src.Schema = schemaOr(src.Schema, sheet.DonorSchema)
	if src.URL == "" {
		return DonorView{Meta: Meta{State: StateStatic, FetchedAt: l.now()}}
	}

	rows, resp, err := l.client.Rows(ctx, src, "")
	if err != nil {
		return DonorView{Meta: l.failed("donors", StateFailed, err)}
	}
	res, err := l.mapper.Donors(src.Schema, rows)
	if err == nil && len(res.Records) == 0 {
		err = sheet.ErrEmpty
	}
	if err != nil {
		return DonorView{Meta: l.failed("donors", StateFailed, err)}
	}

	m := l.meta(resp)
	m.Dropped, m.Short = res.Dropped, res.Short
	return DonorView{
		Meta:    m,
		Donors:  res.Records,
		Summary: pipeline.SummarizeDonors(res.Records),
	}
}

func (l *Loader) loadPledges(ctx context.Context, url, query string) PledgeView {
	if url == "" {
		return PledgeView{Meta: Meta{State: StateStatic, FetchedAt: l.now()}, Query: query}
	}

	src := l.sources.Pledges
	src.URL = url
	src.Schema = schemaOr(src.Schema, sheet.PledgeSchema)
	rows, resp, err := l.client.Rows(ctx, src, query)
	if err != nil {
		return PledgeView{Meta: l.failed("pledges", StateFailed, err), Query: query}
	}
	res, err := l.mapper.Pledges(src.Schema, rows)
	if err == nil && len(res.Records) == 0 && query == "" {
		err = sheet.ErrEmpty
	}
	if err != nil {
		return PledgeView{Meta: l.failed("pledges", StateFailed, err), Query: query}
	}

	m := l.meta(resp)
	m.Dropped, m.Short = res.Dropped, res.Short
	return PledgeView{
		Meta:    m,
		Query:   query,
		Pledges: res.Records,
		Summary: pipeline.SummarizePledges(res.Records),
	}
}

// schemaOr returns s, or def when s is the zero Schema.
func schemaOr(s, def sheet.Schema) sheet.Schema {
	if s.Name == "" && len(s.Columns) == 0 {
		return def
	}
	return s
}

// SearchPledges filters the pledge list by name. With a search endpoint
// configured the filter runs server-side; otherwise base is filtered
// locally. An empty query returns base unchanged.
func (l *Loader) SearchPledges(ctx context.Context, base PledgeView, query string) PledgeView {
	if query == "" {
		return base
	}
	if l.sources.PledgeSearchURL != "" {
		v := l.loadPledges(ctx, l.sources.PledgeSearchURL, query)
		if v.State == StateLive || ctx.Err() != nil {
			return v
		}
		l.log.Info("server-side search failed, filtering locally", zap.String("query", query))
	}
	return filterLocal(base, query)
}

func filterLocal(base PledgeView, query string) PledgeView {
	matched := pipeline.FilterPledgesByName(base.Pledges, query)
	v := base
	v.Query = query
	v.Pledges = matched
	v.Summary = pipeline.SummarizePledges(matched)
	return v
}

// StaticTotals is the funding summary of the static dataset alone.
func (l *Loader) StaticTotals() model.FundingSummary {
	ds := l.Dataset()
	return pipeline.SummarizeFunding(ds.Costs, ds.Income)
}
