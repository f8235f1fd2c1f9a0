package crawl

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	html := `<html><head>
		<style>body { color: red; }</style>
		<script>var x = 1;</script>
	</head><body>
		<h1>株式会社サンプル</h1>
		<p>私たちは	クラウドサービスを
		提供しています。</p>
		<noscript>JavaScriptを有効にしてください</noscript>
	</body></html>`

	text := ExtractText(html)
	assert.Equal(t, "株式会社サンプル 私たちは クラウドサービスを 提供しています。", text)
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "JavaScript")
}

func TestExtractTextWithoutBody(t *testing.T) {
	assert.Equal(t, "plain fragment", ExtractText("plain   fragment"))
}

func TestExtractSameOriginLinks(t *testing.T) {
	base, err := url.Parse("https://example.com/start")
	require.NoError(t, err)

	html := `<body>
		<a href="/company">会社概要</a>
		<a href="about">About</a>
		<a href="/company#team">Team</a>
		<a href="https://example.com/news">News</a>
		<a href="https://other.example.org/leak">External</a>
		<a href="mailto:info@example.com">Mail</a>
	</body>`

	links := ExtractSameOriginLinks(html, base)
	var paths []string
	for _, l := range links {
		assert.Equal(t, "example.com", l.Host)
		assert.Empty(t, l.Fragment)
		paths = append(paths, l.Path)
	}
	// Relative "about" resolves against /start, fragments are dropped and
	// /company appears once.
	assert.Equal(t, []string{"/company", "/about", "/news"}, paths)
}

func TestIsPDFLink(t *testing.T) {
	mustURL := func(s string) *url.URL {
		u, err := url.Parse(s)
		require.NoError(t, err)
		return u
	}
	assert.True(t, isPDFLink(mustURL("https://example.com/ir/report.pdf")))
	assert.True(t, isPDFLink(mustURL("https://example.com/ir/REPORT.PDF")))
	assert.False(t, isPDFLink(mustURL("https://example.com/ir/report.pdf.html")))
	assert.False(t, isPDFLink(mustURL("https://example.com/pdf-guide")))
}
