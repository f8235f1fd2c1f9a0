package llm

import (
	"regexp"
	"strings"
)

var (
	fenceOpen  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	fenceClose = regexp.MustCompile("\\s*```$")
)

// StripCodeFence removes an optional markdown code-fence wrapper around a
// structured response.
func StripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = fenceOpen.ReplaceAllString(trimmed, "")
	trimmed = fenceClose.ReplaceAllString(trimmed, "")
	return strings.TrimSpace(trimmed)
}

// SanitizeJSON repairs the two malformations the generation service is known
// to produce, without touching anything else:
//
//   - literal newlines inside quoted string values (invalid JSON) are
//     replaced with spaces, tracked by a small quoted/escaped state machine;
//   - a truncated final "}" is restored when the payload ends with "]".
//
// Running it on already-valid JSON is a no-op.
func SanitizeJSON(raw string) string {
	trimmed := StripCodeFence(raw)

	var sb strings.Builder
	sb.Grow(len(trimmed))
	inString := false
	escaped := false

	for _, r := range trimmed {
		if escaped {
			escaped = false
			sb.WriteRune(r)
			continue
		}
		switch {
		case r == '\\':
			escaped = true
			sb.WriteRune(r)
		case r == '"':
			inString = !inString
			sb.WriteRune(r)
		case inString && r == '\n':
			sb.WriteRune(' ')
		default:
			sb.WriteRune(r)
		}
	}

	repaired := strings.TrimSpace(sb.String())
	if !strings.HasSuffix(repaired, "}") && strings.HasSuffix(repaired, "]") {
		repaired += "}"
	}
	return repaired
}
