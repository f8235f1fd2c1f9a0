package crawl

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ExtractText strips script/style/noscript content from raw page markup and
// returns the body text (whole-document text if there is no body) with all
// whitespace runs collapsed to single spaces.
func ExtractText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	doc.Find("script, style, noscript").Remove()

	var raw string
	if body := doc.Find("body"); body.Length() > 0 {
		raw = body.Text()
	} else {
		raw = doc.Text()
	}

	return strings.TrimSpace(whitespaceRun.ReplaceAllString(raw, " "))
}

// ExtractSameOriginLinks collects a[href] targets resolved against base,
// keeping only links on the same origin. Fragments are dropped and links are
// deduplicated by path, preserving document order.
func ExtractSameOriginLinks(html string, base *url.URL) []*url.URL {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []*url.URL

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		abs.Fragment = ""
		if abs.Scheme != base.Scheme || abs.Host != base.Host {
			return
		}
		if seen[abs.Path] {
			return
		}
		seen[abs.Path] = true
		links = append(links, abs)
	})

	return links
}

// isPDFLink reports whether u points at a PDF by path suffix.
func isPDFLink(u *url.URL) bool {
	return strings.HasSuffix(strings.ToLower(u.Path), ".pdf")
}
