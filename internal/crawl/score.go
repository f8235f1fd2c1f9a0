package crawl

import (
	"net/url"
	"sort"
	"strings"
)

// keywordGroup is one path-relevance bucket. Groups are checked in priority
// order; the first matching group decides the base score.
type keywordGroup struct {
	score    int
	keywords []string
}

// keywordGroups in descending importance: company/about, recruiting,
// service/product, news.
var keywordGroups = []keywordGroup{
	{100, []string{"company", "about", "corporate", "profile", "会社", "企業"}},
	{90, []string{"recruit", "career", "saiyo", "採用"}},
	{80, []string{"service", "product", "solution", "business", "事業", "サービス"}},
	{70, []string{"news", "press", "topics", "ニュース", "お知らせ"}},
}

// baseScore applies when no keyword group matches the path.
const baseScore = 50

// depthPenalty is subtracted per hop from the start page.
const depthPenalty = 10

// candidate is a page queued for fetching.
type candidate struct {
	url   *url.URL
	depth int
	score int
	order int // discovery order, the tie-break for equal scores
}

// scorePath ranks a path for fetch priority: the best matching keyword group
// score (at least the base score), decayed by depth and floored at zero.
func scorePath(path string, depth int) int {
	lower := strings.ToLower(path)
	score := baseScore
	for _, g := range keywordGroups {
		matched := false
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				matched = true
				break
			}
		}
		if matched {
			if g.score > score {
				score = g.score
			}
			break
		}
	}
	score -= depthPenalty * depth
	if score < 0 {
		score = 0
	}
	return score
}

// candidateQueue orders fetch candidates by score descending, then by
// discovery order. Sort-on-every-insert is fine at a budget of eight pages;
// the tie-break must stay exactly stable for reproducibility.
type candidateQueue struct {
	items []candidate
	next  int // running discovery counter
}

// push enqueues u at the given depth and re-sorts the queue.
func (q *candidateQueue) push(u *url.URL, depth int) {
	q.items = append(q.items, candidate{
		url:   u,
		depth: depth,
		score: scorePath(u.Path, depth),
		order: q.next,
	})
	q.next++
	sort.SliceStable(q.items, func(i, j int) bool {
		if q.items[i].score != q.items[j].score {
			return q.items[i].score > q.items[j].score
		}
		return q.items[i].order < q.items[j].order
	})
}

// pop removes and returns the highest-scoring candidate.
func (q *candidateQueue) pop() (candidate, bool) {
	if len(q.items) == 0 {
		return candidate{}, false
	}
	top := q.items[0]
	q.items = q.items[1:]
	return top, true
}
