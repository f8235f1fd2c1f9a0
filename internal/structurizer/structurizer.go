// Package structurizer partitions crawled text into labeled sections by
// heading heuristics. It is a pure text partition: no network, no
// interpretation, content is never dropped or reordered.
package structurizer

import (
	"regexp"
	"strings"
)

// DefaultLabel is the bucket for content before the first detected heading.
const DefaultLabel = "本文"

// maxHeadingLength is the longest line still considered a heading candidate.
const maxHeadingLength = 80

// sectionPattern maps a section label to the heading keywords that open it.
// Patterns are checked in this priority order.
type sectionPattern struct {
	label    string
	keywords []string
}

var sectionPatterns = []sectionPattern{
	{"会社概要", []string{"会社概要", "企業情報", "私たちについて", "About", "Corporate"}},
	{"事業内容", []string{"事業内容", "サービス", "ソリューション", "Business", "Service", "Product"}},
	{"採用情報", []string{"採用", "キャリア", "Recruit", "Careers", "Job"}},
	{"ニュース・お知らせ", []string{"ニュース", "お知らせ", "プレス", "News", "Press"}},
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	leadingHashes = regexp.MustCompile(`^#+\s*`)
)

type section struct {
	label   string
	content string
}

// Structure scans text line by line and groups it into "## <label>" sections.
// A line of at most 80 characters matching a heading keyword starts a new
// section; everything else accumulates under the current label, which defaults
// to 本文. When no heading is ever detected the whole input becomes a single
// 本文 section.
func Structure(text string) string {
	trimmed := strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	if trimmed == "" {
		return ""
	}

	var sections []section
	currentLabel := DefaultLabel
	var currentLines []string

	flush := func() {
		if len(currentLines) == 0 {
			return
		}
		content := strings.TrimSpace(whitespaceRun.ReplaceAllString(strings.Join(currentLines, "\n"), " "))
		if content != "" {
			sections = append(sections, section{label: currentLabel, content: content})
		}
		currentLines = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))

		if label, ok := matchHeading(line); ok {
			flush()
			currentLabel = label
			// A heading line may carry trailing content after the markers.
			if rest := strings.TrimSpace(leadingHashes.ReplaceAllString(line, "")); rest != "" {
				currentLines = append(currentLines, rest)
			}
			continue
		}
		currentLines = append(currentLines, line)
	}
	flush()

	if len(sections) == 0 {
		return "## " + DefaultLabel + "\n\n" + trimmed
	}

	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, "## "+s.label+"\n\n"+s.content)
	}
	return strings.Join(parts, "\n\n")
}

// matchHeading reports whether line opens a new section and with which label.
func matchHeading(line string) (string, bool) {
	if line == "" || len([]rune(line)) > maxHeadingLength {
		return "", false
	}
	for _, p := range sectionPatterns {
		for _, kw := range p.keywords {
			if strings.Contains(line, kw) {
				return p.label, true
			}
		}
	}
	return "", false
}
