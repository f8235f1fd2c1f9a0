// Package pdftext downloads IR documents and extracts their text under page
// and character budgets. Extraction is strictly best-effort: URLs that fail
// to download or parse are skipped, and partial or empty results are valid.
package pdftext

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/fetch"
)

const (
	// DefaultMaxPagesPerDoc bounds how many pages of one document are parsed.
	DefaultMaxPagesPerDoc = 20
	// DefaultMaxCharsTotal bounds the combined text of all documents.
	DefaultMaxCharsTotal = 200_000
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Options configures an extraction pass.
type Options struct {
	MaxPagesPerDoc int
	MaxCharsTotal  int
	FetchOptions   *fetch.Options
}

// DefaultOptions returns the standard budgets.
func DefaultOptions() *Options {
	return &Options{
		MaxPagesPerDoc: DefaultMaxPagesPerDoc,
		MaxCharsTotal:  DefaultMaxCharsTotal,
	}
}

// Extract fetches each URL in order and appends its normalized text up to the
// remaining character budget, stopping early once the budget is exhausted.
// It never returns an error.
func Extract(ctx context.Context, urls []string, opts *Options) string {
	if opts == nil {
		opts = DefaultOptions()
	}
	maxPages := opts.MaxPagesPerDoc
	if maxPages <= 0 {
		maxPages = DefaultMaxPagesPerDoc
	}
	maxChars := opts.MaxCharsTotal
	if maxChars <= 0 {
		maxChars = DefaultMaxCharsTotal
	}

	var texts []string
	total := 0

	for _, u := range urls {
		if ctx.Err() != nil || total >= maxChars {
			break
		}

		result, err := fetch.URL(ctx, u, opts.FetchOptions)
		if err != nil {
			continue
		}

		text := parseDocument(result.Body, maxPages)
		normalized := strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
		if normalized == "" {
			continue
		}

		remaining := maxChars - total
		if runes := []rune(normalized); len(runes) > remaining {
			normalized = string(runes[:remaining])
		}
		texts = append(texts, normalized)
		total += len([]rune(normalized))
	}

	return strings.Join(texts, "\n\n")
}

// parseDocument extracts plain text from up to maxPages pages of a PDF.
// Any parse failure yields an empty string; documents are opaque binaries and
// broken ones are simply skipped.
func parseDocument(data []byte, maxPages int) (text string) {
	defer func() {
		// The underlying parser panics on some malformed files.
		if r := recover(); r != nil {
			text = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	pages := reader.NumPage()
	if pages > maxPages {
		pages = maxPages
	}

	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return sb.String()
}
