// Package search looks up company candidates via the Google Custom Search API.
package search

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// resultCount is the number of candidates requested per query (API max 10).
const resultCount = 10

// Item is one company candidate.
type Item struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Client queries one Custom Search engine.
type Client struct {
	cx         string
	clientOpts []option.ClientOption
}

// NewClient creates a Client for the given API key and search engine ID.
// Extra options, such as an endpoint override for tests, are passed through
// to the API client.
func NewClient(apiKey, cx string, opts ...option.ClientOption) *Client {
	return &Client{
		cx:         cx,
		clientOpts: append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...),
	}
}

// Search returns up to ten candidates for a free-text query. Results without
// a link are dropped.
func (c *Client) Search(ctx context.Context, query string) ([]Item, error) {
	svc, err := customsearch.NewService(ctx, c.clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}

	res, err := svc.Cse.List().Q(query).Cx(c.cx).Num(resultCount).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	items := make([]Item, 0, len(res.Items))
	for _, it := range res.Items {
		if it.Link == "" {
			continue
		}
		items = append(items, Item{Title: it.Title, Link: it.Link, Snippet: it.Snippet})
	}
	return items, nil
}
