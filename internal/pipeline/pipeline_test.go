package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/crawl"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/pdftext"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/types"
)

type stubCrawler struct {
	result *crawl.Result
}

func (c *stubCrawler) Crawl(_ context.Context, _ string) *crawl.Result {
	return c.result
}

type stubGenerator struct {
	gotText  string
	gotFocus types.OutputFocus
	resp     *types.GenerateResponse
	err      error
}

func (g *stubGenerator) Generate(_ context.Context, structuredText string, focus types.OutputFocus) (*types.GenerateResponse, error) {
	g.gotText = structuredText
	g.gotFocus = focus
	return g.resp, g.err
}

func okResponse() *types.GenerateResponse {
	return &types.GenerateResponse{
		SummaryBusiness:    "要約。",
		HypothesisSegments: types.HypothesisSegments{"a", "b", "c", "d", "e"},
		LetterDraft:        "手紙。",
	}
}

func TestRunStructurizesCrawledText(t *testing.T) {
	gen := &stubGenerator{resp: okResponse()}
	p := New(&stubCrawler{result: &crawl.Result{Text: "クラウド事業を展開しています。"}}, gen, nil, zap.NewNop())

	resp, err := p.Run(context.Background(), "https://example.com", types.FocusLetter)
	require.NoError(t, err)
	assert.Equal(t, "要約。", resp.SummaryBusiness)
	assert.True(t, strings.HasPrefix(gen.gotText, "## 本文\n\n"), gen.gotText)
	assert.Equal(t, types.FocusLetter, gen.gotFocus)
}

func TestRunCrawlFailureCarriesReason(t *testing.T) {
	for _, reason := range []crawl.Reason{crawl.ReasonForbidden, crawl.ReasonEmpty} {
		p := New(&stubCrawler{result: &crawl.Result{Reason: reason}}, &stubGenerator{}, nil, zap.NewNop())

		_, err := p.Run(context.Background(), "https://example.com", "")
		var crawlErr *CrawlError
		require.ErrorAs(t, err, &crawlErr, string(reason))
		assert.Equal(t, reason, crawlErr.Reason)
	}
}

func TestRunAppendsPDFText(t *testing.T) {
	gen := &stubGenerator{resp: okResponse()}
	extract := func(_ context.Context, urls []string, _ *pdftext.Options) string {
		require.Equal(t, []string{"https://example.com/ir.pdf"}, urls)
		return "IR資料の本文。"
	}
	p := New(&stubCrawler{result: &crawl.Result{
		Text:    "本文テキスト。",
		PDFURLs: []string{"https://example.com/ir.pdf"},
	}}, gen, extract, zap.NewNop())

	_, err := p.Run(context.Background(), "https://example.com", "")
	require.NoError(t, err)
	assert.Contains(t, gen.gotText, "\n\n## IR情報\n\nIR資料の本文。")
	assert.True(t, strings.HasPrefix(gen.gotText, "## 本文"), gen.gotText)
}

func TestRunEmptyPDFTextIsIgnored(t *testing.T) {
	gen := &stubGenerator{resp: okResponse()}
	extract := func(_ context.Context, _ []string, _ *pdftext.Options) string { return "" }
	p := New(&stubCrawler{result: &crawl.Result{
		Text:    "本文テキスト。",
		PDFURLs: []string{"https://example.com/ir.pdf"},
	}}, gen, extract, zap.NewNop())

	_, err := p.Run(context.Background(), "https://example.com", "")
	require.NoError(t, err)
	assert.NotContains(t, gen.gotText, "IR情報")
}

func TestRunNilExtractorSkipsAugmentation(t *testing.T) {
	gen := &stubGenerator{resp: okResponse()}
	p := New(&stubCrawler{result: &crawl.Result{
		Text:    "本文テキスト。",
		PDFURLs: []string{"https://example.com/ir.pdf"},
	}}, gen, nil, zap.NewNop())

	_, err := p.Run(context.Background(), "https://example.com", "")
	require.NoError(t, err)
	assert.NotContains(t, gen.gotText, "IR情報")
}
