package crawl

import (
	"context"
	"regexp"
	"strings"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/fetch"
)

// agentToken is the User-agent token this tool answers to in robots.txt,
// alongside the wildcard.
const agentToken = "hypoframe"

var (
	userAgentLine = regexp.MustCompile(`(?i)^User-agent:\s*(.*)`)
	disallowLine  = regexp.MustCompile(`(?i)^Disallow:\s*(\S*)`)
)

// RobotsPolicy is the set of disallowed path prefixes for one origin.
// An unresolved policy (robots.txt missing, unreachable or unparseable)
// restricts nothing: availability is preferred over strict compliance, and
// changing that default would change observable crawl behavior.
type RobotsPolicy struct {
	resolved   bool
	disallowed []string
}

// Resolved reports whether a robots.txt was successfully fetched and parsed.
func (p *RobotsPolicy) Resolved() bool {
	return p != nil && p.resolved
}

// Allowed reports whether path may be fetched under this policy.
// Matching is prefix-based: a path is blocked when it equals a rule or starts
// with the rule plus "/". A bare "Disallow: /" blocks the entire origin.
func (p *RobotsPolicy) Allowed(path string) bool {
	if !p.Resolved() {
		return true
	}
	for _, rule := range p.disallowed {
		if rule == "/" {
			return false
		}
		if path == rule || strings.HasPrefix(path, rule+"/") {
			return false
		}
	}
	return true
}

// FetchRobotsPolicy retrieves and parses {origin}/robots.txt. It never fails:
// any fetch or read problem yields an unresolved policy.
func FetchRobotsPolicy(ctx context.Context, origin string, opts *fetch.Options) *RobotsPolicy {
	result, err := fetch.URL(ctx, origin+"/robots.txt", opts)
	if err != nil {
		return &RobotsPolicy{}
	}
	return &RobotsPolicy{
		resolved:   true,
		disallowed: parseDisallowRules(string(result.Body)),
	}
}

// parseDisallowRules scans robots.txt line by line. A User-agent line opens a
// block; Disallow rules are collected only from blocks addressed to "*" or to
// this tool's own token (case-insensitive).
func parseDisallowRules(text string) []string {
	var rules []string
	inRelevantBlock := false

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))

		if m := userAgentLine.FindStringSubmatch(line); m != nil {
			agent := strings.ToLower(strings.TrimSpace(m[1]))
			inRelevantBlock = agent == "*" || agent == agentToken
			continue
		}
		if !inRelevantBlock {
			continue
		}
		if m := disallowLine.FindStringSubmatch(line); m != nil {
			if rule := strings.TrimSpace(m[1]); rule != "" {
				rules = append(rules, rule)
			}
		}
	}

	return rules
}
