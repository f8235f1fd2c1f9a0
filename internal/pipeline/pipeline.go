// Package pipeline wires the per-request work chain:
// crawl → best-effort PDF augmentation → structurize → generation.
// Stages run strictly sequentially; each consumes the previous stage's
// completed output.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/crawl"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/pdftext"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/structurizer"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/types"
)

// Crawler is the page-acquisition stage.
type Crawler interface {
	Crawl(ctx context.Context, url string) *crawl.Result
}

// Generator is the three-stage LLM pipeline.
type Generator interface {
	Generate(ctx context.Context, structuredText string, focus types.OutputFocus) (*types.GenerateResponse, error)
}

// PDFExtractor turns auxiliary document URLs into text under budgets.
type PDFExtractor func(ctx context.Context, urls []string, opts *pdftext.Options) string

// CrawlError is a failed acquisition, carrying the crawl's failure variant so
// the handler can distinguish forbidden from empty.
type CrawlError struct {
	Reason crawl.Reason
}

func (e *CrawlError) Error() string {
	return fmt.Sprintf("crawl failed: %s", e.Reason)
}

// Pipeline executes the work chain for one request.
type Pipeline struct {
	crawler    Crawler
	generator  Generator
	extractPDF PDFExtractor
	logger     *zap.Logger
}

// New builds a Pipeline. extractPDF may be nil to disable augmentation.
func New(crawler Crawler, generator Generator, extractPDF PDFExtractor, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		crawler:    crawler,
		generator:  generator,
		extractPDF: extractPDF,
		logger:     logger,
	}
}

// Run executes the chain for url. PDF augmentation is best-effort: an empty
// or failed extraction never fails the request, the generation simply runs on
// HTML-only text.
func (p *Pipeline) Run(ctx context.Context, url string, focus types.OutputFocus) (*types.GenerateResponse, error) {
	crawled := p.crawler.Crawl(ctx, url)
	if !crawled.Success() {
		return nil, &CrawlError{Reason: crawled.Reason}
	}

	structured := structurizer.Structure(crawled.Text)

	if p.extractPDF != nil && len(crawled.PDFURLs) > 0 {
		pdfText := p.extractPDF(ctx, crawled.PDFURLs, pdftext.DefaultOptions())
		if pdfText != "" {
			structured = structured + "\n\n## IR情報\n\n" + pdfText
		} else {
			p.logger.Info("IR PDF extraction yielded no text, continuing with HTML only",
				zap.Int("pdf_urls", len(crawled.PDFURLs)))
		}
	}

	return p.generator.Generate(ctx, structured, focus)
}
