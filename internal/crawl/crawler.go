// Package crawl implements the bounded, priority-driven site crawler that
// turns a company URL into a plain-text corpus plus a small set of IR PDF
// links.
package crawl

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/fetch"
)

const (
	// MaxPages bounds one crawl session, start page included.
	MaxPages = 8
	// MaxDepth bounds link distance from the start page (0=start, 1-hop, 2-hop).
	MaxDepth = 2
	// MinTextLength is the character floor below which a crawl is "empty".
	MinTextLength = 50
	// MaxCombinedTextLength caps the joined text of all pages; overflow is
	// truncated, never an error.
	MaxCombinedTextLength = 300_000
	// MaxPDFLinks caps the auxiliary PDF set harvested during the crawl.
	MaxPDFLinks = 2
	// DefaultDelay is the politeness pause between same-site requests.
	DefaultDelay = 500 * time.Millisecond
)

// Reason classifies a failed crawl.
type Reason string

const (
	// ReasonForbidden covers invalid schemes, robots denial, unreachable or
	// non-2xx start pages, and any unexpected internal failure.
	ReasonForbidden Reason = "forbidden"
	// ReasonEmpty means the start page was reachable but yielded less text
	// than the floor.
	ReasonEmpty Reason = "empty"
)

// Result is the outcome of one crawl session: either extracted text plus any
// harvested PDF links, or a failure reason. Crawl never panics and never
// returns an error; every failure path resolves to a Reason.
type Result struct {
	Text    string
	PDFURLs []string
	Reason  Reason
}

// Success reports whether the crawl produced usable text.
func (r *Result) Success() bool {
	return r.Reason == ""
}

// Crawler fetches pages breadth-first under the session budget, prioritizing
// links by path keywords and harvesting same-origin PDF links along the way.
type Crawler struct {
	fetchOpts  *fetch.Options
	delay      time.Duration
	useBrowser bool
	logger     *zap.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithFetchOptions overrides the HTTP fetch options (used by tests).
func WithFetchOptions(opts *fetch.Options) Option {
	return func(c *Crawler) { c.fetchOpts = opts }
}

// WithDelay overrides the politeness delay (used by tests).
func WithDelay(d time.Duration) Option {
	return func(c *Crawler) { c.delay = d }
}

// WithBrowserFallback enables a one-shot headless re-render of the start page
// when the static fetch extracts less text than the floor.
func WithBrowserFallback(enabled bool) Option {
	return func(c *Crawler) { c.useBrowser = enabled }
}

// New builds a Crawler with the default budget.
func New(logger *zap.Logger, opts ...Option) *Crawler {
	c := &Crawler{
		fetchOpts: fetch.DefaultOptions(),
		delay:     DefaultDelay,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Crawl runs one session starting at rawURL. All failures, including
// panics anywhere below, resolve to the forbidden variant; only a reachable
// start page with below-floor text yields the empty variant.
func (c *Crawler) Crawl(ctx context.Context, rawURL string) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("crawl panicked", zap.String("url", rawURL), zap.Any("panic", r))
			result = &Result{Reason: ReasonForbidden}
		}
	}()
	return c.crawl(ctx, rawURL)
}

func (c *Crawler) crawl(ctx context.Context, rawURL string) *Result {
	start, err := url.Parse(rawURL)
	if err != nil || (start.Scheme != "http" && start.Scheme != "https") {
		return &Result{Reason: ReasonForbidden}
	}

	origin := start.Scheme + "://" + start.Host
	robots := FetchRobotsPolicy(ctx, origin, c.fetchOpts)
	if !robots.Allowed(start.Path) {
		return &Result{Reason: ReasonForbidden}
	}

	first, err := fetch.URL(ctx, start.String(), c.fetchOpts)
	if err != nil {
		return &Result{Reason: ReasonForbidden}
	}

	html := string(first.Body)
	text := ExtractText(html)
	if len([]rune(text)) < MinTextLength && c.useBrowser {
		if rendered, berr := fetch.WithBrowser(ctx, start.String(), fetch.DefaultBrowserTimeout); berr == nil {
			html = rendered
			text = ExtractText(rendered)
		} else {
			c.logger.Warn("browser fallback failed", zap.String("url", start.String()), zap.Error(berr))
		}
	}
	if len([]rune(text)) < MinTextLength {
		return &Result{Reason: ReasonEmpty}
	}

	texts := []string{text}
	visited := map[string]bool{start.Path: true}
	pages := 1

	var queue candidateQueue
	var pdfURLs []string
	pdfSeen := make(map[string]bool)

	harvest := func(links []*url.URL, depth int) {
		for _, link := range links {
			if isPDFLink(link) {
				if len(pdfURLs) < MaxPDFLinks && !pdfSeen[link.Path] && robots.Allowed(link.Path) {
					pdfSeen[link.Path] = true
					pdfURLs = append(pdfURLs, link.String())
				}
				continue
			}
			if depth > MaxDepth || visited[link.Path] || !robots.Allowed(link.Path) {
				continue
			}
			queue.push(link, depth)
		}
	}

	harvest(ExtractSameOriginLinks(html, start), 1)

	for pages < MaxPages {
		if ctx.Err() != nil {
			break
		}
		cand, ok := queue.pop()
		if !ok {
			break
		}
		if visited[cand.url.Path] {
			continue
		}
		visited[cand.url.Path] = true
		pages++

		c.sleep(ctx)

		res, err := fetch.URL(ctx, cand.url.String(), c.fetchOpts)
		if err != nil {
			c.logger.Debug("page fetch skipped", zap.String("url", cand.url.String()), zap.Error(err))
			continue
		}
		pageHTML := string(res.Body)
		if pageText := ExtractText(pageHTML); pageText != "" {
			texts = append(texts, pageText)
		}
		if cand.depth < MaxDepth {
			harvest(ExtractSameOriginLinks(pageHTML, cand.url), cand.depth+1)
		}
	}

	combined := strings.Join(texts, "\n\n")
	if runes := []rune(combined); len(runes) > MaxCombinedTextLength {
		combined = string(runes[:MaxCombinedTextLength])
	}

	return &Result{Text: combined, PDFURLs: pdfURLs}
}

// sleep waits the politeness delay, returning early on cancellation.
func (c *Crawler) sleep(ctx context.Context) {
	if c.delay <= 0 {
		return
	}
	t := time.NewTimer(c.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
