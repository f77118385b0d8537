// Package fetch reads published spreadsheet exports over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gkj-pamulang/panitia/internal/sheet"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodySize    = 4 << 20 // 4 MB
	userAgent      = "panitia/1.0"

	// Query parameters understood by the published sheets.
	paramCacheBust = "t"
	paramSearch    = "col1"
)

var (
	// ErrTransport indicates the request never produced a response.
	ErrTransport = errors.New("fetch: transport failure")
	// ErrStatus indicates a non-2xx response.
	ErrStatus = errors.New("fetch: unexpected status")
)

// StatusError carries the HTTP status of a failed fetch.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: unexpected status %d from %s", e.Code, e.URL)
}

// Unwrap makes errors.Is(err, ErrStatus) hold.
func (e *StatusError) Unwrap() error { return ErrStatus }

// Client performs one cache-busted GET per call. It never retries.
type Client struct {
	http    *http.Client
	timeout time.Duration
	now     func() time.Time
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithClock overrides the clock used for the cache-busting parameter.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a Client with a 10s timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{},
		timeout: defaultTimeout,
		now:     time.Now,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Request names an endpoint and an optional server-side name filter.
type Request struct {
	URL   string
	Query string
}

// Response is a successful fetch.
type Response struct {
	ID        string
	URL       string
	Body      []byte
	FetchedAt time.Time
	Elapsed   time.Duration
}

// BuildURL appends the cache-busting timestamp and, when query is not
// empty, the search parameter to raw.
func BuildURL(raw, query string, now time.Time) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("fetch: invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("fetch: unsupported url scheme %q", u.Scheme)
	}
	q := u.Query()
	if query != "" {
		q.Set(paramSearch, query)
	}
	q.Set(paramCacheBust, strconv.FormatInt(now.UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Fetch performs the GET and returns the body of a 2xx response.
func (c *Client) Fetch(ctx context.Context, r Request) (*Response, error) {
	start := c.now()
	target, err := BuildURL(r.URL, r.Query, start)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: creating request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, */*")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cache-Control", "no-cache")

	id := uuid.NewString()
	log := c.log.With(zap.String("fetch_id", id), zap.String("url", r.URL))

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("fetch failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("fetch rejected", zap.Int("status", resp.StatusCode))
		return nil, &StatusError{URL: r.URL, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		log.Warn("reading body failed", zap.Error(err))
		return nil, fmt.Errorf("%w: reading response: %w", ErrTransport, err)
	}
	if len(body) > maxBodySize {
		log.Warn("response too large", zap.Int("limit", maxBodySize))
		return nil, fmt.Errorf("%w: response body exceeds %d bytes", ErrTransport, maxBodySize)
	}

	elapsed := c.now().Sub(start)
	log.Debug("fetched",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", elapsed),
	)

	return &Response{
		ID:        id,
		URL:       target,
		Body:      body,
		FetchedAt: start,
		Elapsed:   elapsed,
	}, nil
}

// Source is a published sheet: where it lives, how it is exported and
// which schema its rows follow.
type Source struct {
	URL    string
	Format sheet.Format
	Schema sheet.Schema
}

// Rows fetches a source and decodes it into data rows (headers removed).
// A sheet without data rows is reported as sheet.ErrEmpty.
func (c *Client) Rows(ctx context.Context, src Source, query string) ([][]string, *Response, error) {
	resp, err := c.Fetch(ctx, Request{URL: src.URL, Query: query})
	if err != nil {
		return nil, nil, err
	}
	rows, err := sheet.Decode(src.Format, resp.Body, src.Schema)
	if err != nil {
		return nil, resp, err
	}
	if len(rows) == 0 {
		return nil, resp, fmt.Errorf("%s: %w", src.Schema.Name, sheet.ErrEmpty)
	}
	return rows, resp, nil
}
