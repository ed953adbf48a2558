// Package search turns settled query terms into result sets: one unfiltered
// fetch per term, filtered locally, with only the newest request allowed to
// land.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/muderick/searchfav/internal/items"
	"go.uber.org/zap"
)

// State is the single live search state.
type State struct {
	Term    string
	Results []items.Item
	Loading bool
	Err     string
}

// Request tags a fetch with the term and sequence number it was issued for.
type Request struct {
	Seq  uint64
	Term string
}

// Result is what a Request resolved to.
type Result struct {
	Seq   uint64
	Term  string
	Items []items.Item
	Err   error
}

// Controller owns State. Settle and Commit must be called from one goroutine
// (the UI event loop); Run is safe to call from anywhere.
type Controller struct {
	fetcher items.Fetcher
	timeout time.Duration
	log     *zap.Logger

	state State
	seq   uint64
}

func NewController(fetcher items.Fetcher, timeout time.Duration, log *zap.Logger) *Controller {
	return &Controller{fetcher: fetcher, timeout: timeout, log: log}
}

func (c *Controller) State() State {
	return c.state
}

// Seq is the sequence number of the latest request.
func (c *Controller) Seq() uint64 {
	return c.seq
}

// Settle records a debounced term. An empty term clears the results with no
// request; anything else starts a new request and marks older ones stale.
func (c *Controller) Settle(term string) (Request, bool) {
	c.seq++
	c.state = State{Term: term}

	if term == "" {
		c.log.Debug("search cleared")
		return Request{}, false
	}

	c.state.Loading = true
	c.log.Debug("search dispatched", zap.String("term", term), zap.Uint64("seq", c.seq))
	return Request{Seq: c.seq, Term: term}, true
}

// Run fetches the collection and filters it for req.Term. It does not touch
// the controller's state.
func (c *Controller) Run(ctx context.Context, req Request) (res Result) {
	res = Result{Seq: req.Seq, Term: req.Term}
	defer func() {
		if r := recover(); r != nil {
			res.Items = nil
			res.Err = fmt.Errorf("%w: %v", items.ErrFetch, r)
		}
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	all, err := c.fetcher.Fetch(ctx)
	if err != nil {
		res.Err = err
		return res
	}
	res.Items = items.Filter(all, req.Term)
	return res
}

// Commit applies res if it answers the latest request and reports whether it
// did. Stale results leave the state untouched.
func (c *Controller) Commit(res Result) bool {
	if res.Seq != c.seq {
		c.log.Debug("discarding stale result",
			zap.String("term", res.Term),
			zap.Uint64("seq", res.Seq),
			zap.Uint64("latest", c.seq))
		return false
	}

	c.state.Loading = false
	if res.Err != nil {
		c.log.Warn("search failed", zap.String("term", res.Term), zap.Error(res.Err))
		c.state.Results = nil
		c.state.Err = res.Err.Error()
		return true
	}
	c.state.Results = res.Items
	c.state.Err = ""
	c.log.Debug("search committed", zap.String("term", res.Term), zap.Int("results", len(res.Items)))
	return true
}
