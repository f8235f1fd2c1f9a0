package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/search"
)

// fakeSearcher scripts the candidate lookup.
type fakeSearcher struct {
	items    []search.Item
	err      error
	gotQuery string
	called   bool
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]search.Item, error) {
	f.called = true
	f.gotQuery = query
	return f.items, f.err
}

func TestSearchHandler(t *testing.T) {
	searcher := &fakeSearcher{items: []search.Item{
		{Title: "株式会社サンプル", Link: "https://sample.example.com", Snippet: "企業概要。"},
	}}
	s := newTestServer(t, nil, nil, nil)
	s.searcher = searcher

	rr := doJSON(t, s.Handler(), http.MethodGet, "/api/search?q=%E3%82%B5%E3%83%B3%E3%83%97%E3%83%AB", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "サンプル", searcher.gotQuery)

	var body struct {
		Items []search.Item `json:"items"`
	}
	decodeBody(t, rr, &body)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "https://sample.example.com", body.Items[0].Link)
}

func TestSearchHandlerRequiresQuery(t *testing.T) {
	searcher := &fakeSearcher{}
	s := newTestServer(t, nil, nil, nil)
	s.searcher = searcher

	for _, target := range []string{"/api/search", "/api/search?q=", "/api/search?q=%20%20"} {
		rr := doJSON(t, s.Handler(), http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
	}
	assert.False(t, searcher.called)
}

func TestSearchHandlerUnconfigured(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)

	rr := doJSON(t, s.Handler(), http.MethodGet, "/api/search?q=sample", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestSearchHandlerUpstreamFailure(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)
	s.searcher = &fakeSearcher{err: assert.AnError}

	rr := doJSON(t, s.Handler(), http.MethodGet, "/api/search?q=sample", "", "")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}
