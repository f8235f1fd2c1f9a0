package crawl

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScorePath(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		depth int
		want  int
	}{
		{"company keyword", "/company", 1, 90},
		{"about keyword", "/about-us", 1, 90},
		{"japanese company keyword", "/会社概要", 1, 90},
		{"recruit keyword", "/recruit", 1, 80},
		{"service keyword", "/service/cloud", 1, 70},
		{"news keyword", "/news/2026", 1, 60},
		{"no keyword", "/contact", 1, 40},
		{"depth two decay", "/company/history", 2, 80},
		{"career outranks service at same depth", "/career", 1, 80},
		{"base score at depth zero", "/misc", 0, 50},
		{"floor at zero", "/misc", 9, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scorePath(tt.path, tt.depth))
		})
	}
}

func TestScorePathFirstGroupWins(t *testing.T) {
	// A path matching both the company and news groups takes the higher
	// company score.
	assert.Equal(t, 100, scorePath("/company/news", 0))
}

func TestCandidateQueueOrdering(t *testing.T) {
	mustURL := func(p string) *url.URL {
		u, err := url.Parse("https://example.com" + p)
		require.NoError(t, err)
		return u
	}

	var q candidateQueue
	q.push(mustURL("/contact"), 1) // 40
	q.push(mustURL("/news"), 1)    // 60
	q.push(mustURL("/company"), 1) // 90
	q.push(mustURL("/recruit"), 1) // 80

	var order []string
	for {
		cand, ok := q.pop()
		if !ok {
			break
		}
		order = append(order, cand.url.Path)
	}
	assert.Equal(t, []string{"/company", "/recruit", "/news", "/contact"}, order)
}

func TestCandidateQueueTieBreakIsDiscoveryOrder(t *testing.T) {
	mustURL := func(p string) *url.URL {
		u, err := url.Parse("https://example.com" + p)
		require.NoError(t, err)
		return u
	}

	var q candidateQueue
	q.push(mustURL("/about"), 1)   // 90, discovered first
	q.push(mustURL("/company"), 1) // 90, discovered second

	first, ok := q.pop()
	require.True(t, ok)
	assert.Equal(t, "/about", first.url.Path)

	second, ok := q.pop()
	require.True(t, ok)
	assert.Equal(t, "/company", second.url.Path)
}
