package items

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/muderick/searchfav/internal/config"
	"go.uber.org/zap"
)

// Fetcher reads the full, unfiltered item collection.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Item, error)
}

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return "status " + e.Status
	}
	return fmt.Sprintf("status %d", e.Code)
}

// ErrFetch prefixes every fetch failure shown to the user.
var ErrFetch = errors.New("failed to fetch search results")

type HTTPFetcher struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func NewHTTPFetcher(url string, timeout time.Duration, log *zap.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %w", ErrFetch, &StatusError{Code: resp.StatusCode, Status: resp.Status})
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrFetch, err)
	}
	all, err := Decode(data, f.log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	f.log.Debug("fetched items", zap.String("url", f.url), zap.Int("count", len(all)))
	return all, nil
}

// NewFetcher builds the fetcher for the configured endpoint format.
func NewFetcher(cfg *config.Config, log *zap.Logger) Fetcher {
	if cfg.Endpoint.Format == config.FormatFeed {
		return NewFeedFetcher(cfg.ItemsURL(), cfg.TimeoutDuration(), log)
	}
	return NewHTTPFetcher(cfg.ItemsURL(), cfg.TimeoutDuration(), log)
}
