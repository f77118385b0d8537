package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gkj-pamulang/panitia/internal/sheet"
)

var fixedNow = time.UnixMilli(1730000000123)

func newTestClient(opts ...Option) *Client {
	return NewClient(append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)...)
}

func TestBuildURL(t *testing.T) {
	got, err := BuildURL("https://docs.example.com/pub?gid=0&output=csv", "budi", fixedNow)
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "1730000000123", q.Get("t"))
	assert.Equal(t, "budi", q.Get("col1"))
	assert.Equal(t, "csv", q.Get("output"))
	assert.Equal(t, "0", q.Get("gid"))

	got, err = BuildURL("https://example.com/s", "", fixedNow)
	require.NoError(t, err)
	assert.NotContains(t, got, "col1")

	_, err = BuildURL("ftp://example.com/x", "", fixedNow)
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("A,100,100,online\nB,200,50,kartu\n"))
	}))
	defer srv.Close()

	c := newTestClient()
	resp, err := c.Fetch(context.Background(), Request{URL: srv.URL, Query: "B"})
	require.NoError(t, err)
	assert.Equal(t, "1730000000123", gotQuery.Get("t"))
	assert.Equal(t, "B", gotQuery.Get("col1"))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, fixedNow, resp.FetchedAt)
	assert.Contains(t, string(resp.Body), "kartu")
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient().Fetch(context.Background(), Request{URL: srv.URL})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := newTestClient().Fetch(context.Background(), Request{URL: srv.URL})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.False(t, errors.Is(err, ErrStatus))
}

func TestFetchBodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := maxBodySize
		if r.URL.Query().Get("col1") == "big" {
			n++
		}
		_, _ = w.Write([]byte(strings.Repeat("x", n)))
	}))
	defer srv.Close()

	c := newTestClient()
	resp, err := c.Fetch(context.Background(), Request{URL: srv.URL})
	require.NoError(t, err)
	assert.Len(t, resp.Body, maxBodySize)

	_, err = c.Fetch(context.Background(), Request{URL: srv.URL, Query: "big"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport), "oversized body should be a transport error, got %v", err)
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := newTestClient(WithTimeout(50*time.Millisecond)).Fetch(context.Background(), Request{URL: srv.URL})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func serveBody(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRows(t *testing.T) {
	c := newTestClient()

	empty := serveBody(t, "Nama,Wilayah,Status\n")
	src := Source{URL: empty.URL, Format: sheet.FormatCSV, Schema: sheet.DonorSchema}
	_, _, err := c.Rows(context.Background(), src, "")
	assert.True(t, errors.Is(err, sheet.ErrEmpty), "header-only sheet should be empty, got %v", err)

	full := serveBody(t, "Nama,Wilayah,Status\nJane Doe,\"West, Side\",LUNAS\n")
	src.URL = full.URL
	rows, resp, err := c.Rows(context.Background(), src, "")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, [][]string{{"Jane Doe", "West, Side", "LUNAS"}}, rows)
}
