package items

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

// FeedFetcher reads items from an RSS, Atom or JSON Feed document.
type FeedFetcher struct {
	url    string
	parser *gofeed.Parser
	log    *zap.Logger
}

func NewFeedFetcher(url string, timeout time.Duration, log *zap.Logger) *FeedFetcher {
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: timeout}
	return &FeedFetcher{url: url, parser: p, log: log}
}

func (f *FeedFetcher) Fetch(ctx context.Context) ([]Item, error) {
	feed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, fmt.Errorf("%w: %w", ErrFetch, &StatusError{Code: httpErr.StatusCode, Status: httpErr.Status})
		}
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	all := fromFeed(feed)
	f.log.Debug("fetched feed items", zap.String("url", f.url), zap.Int("count", len(all)))
	return all, nil
}

func fromFeed(feed *gofeed.Feed) []Item {
	seen := make(map[int64]bool, len(feed.Items))
	out := make([]Item, 0, len(feed.Items))
	for _, e := range feed.Items {
		key := e.GUID
		if key == "" {
			key = e.Link
		}
		if key == "" {
			key = e.Title
		}
		id := itemID(key)
		if seen[id] {
			continue
		}
		seen[id] = true

		body := e.Description
		if body == "" {
			body = e.Content
		}
		var category string
		if len(e.Categories) > 0 {
			category = e.Categories[0]
		}
		out = append(out, Item{
			ID:       id,
			Title:    e.Title,
			Body:     stripHTML(body),
			Category: category,
		})
	}
	return out
}

// itemID derives a stable positive id from a feed entry key.
func itemID(key string) int64 {
	h := sha256.Sum256([]byte(key))
	return int64(binary.BigEndian.Uint64(h[:8]) >> 1)
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
