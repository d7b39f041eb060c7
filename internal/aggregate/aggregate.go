// Package aggregate fans one dashboard request out to several independent
// upstream fetches and merges the outcomes into a single result that is
// always total: a sub-fetch that fails is replaced by its deterministic
// fallback dataset and tagged, never propagated as an error.
//
// The aggregator is stateless between calls. Caching and refresh policy
// belong to the caller.
package aggregate

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source tags where a sub-fetch's data came from. It is part of the result
// contract: callers must always be able to tell live data from degraded data.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// FetchFunc loads one sub-fetch's data from an upstream service.
type FetchFunc func(ctx context.Context) (any, error)

// FallbackFunc produces the deterministic substitute dataset for a failed
// sub-fetch. It must return data of the same shape as the remote fetch so
// rendering code only branches on source, never on presence.
type FallbackFunc func() any

// SubFetch is one named unit of work within an aggregation request.
type SubFetch struct {
	Name string
	// Timeout bounds this sub-fetch beyond the remote adapter's own timeout.
	// Zero means the adapter's timeout is the only bound.
	Timeout  time.Duration
	Fetch    FetchFunc
	Fallback FallbackFunc
}

// Entry is the outcome of one sub-fetch.
type Entry struct {
	Data   any
	Source Source
}

// Result maps sub-fetch name to outcome. Every requested sub-fetch has
// exactly one entry.
type Result map[string]Entry

// Degraded reports whether any entry was served from fallback data.
func (r Result) Degraded() bool {
	for _, e := range r {
		if e.Source == SourceFallback {
			return true
		}
	}
	return false
}

// Aggregator runs aggregation requests. It holds no per-request state and is
// safe for concurrent use.
type Aggregator struct {
	lg *zap.Logger
}

// New creates an Aggregator. lg may be nil.
func New(lg *zap.Logger) *Aggregator {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Aggregator{lg: lg}
}

// Aggregate runs all sub-fetches concurrently and waits for every one of
// them (it joins, it does not race). It never returns an error: a
// maximally-degraded result with every entry served from fallback is a valid
// return value.
func (a *Aggregator) Aggregate(ctx context.Context, subs []SubFetch) Result {
	out := make(Result, len(subs))
	entries := make([]Entry, len(subs))

	var g errgroup.Group
	for i, sub := range subs {
		g.Go(func() error {
			entries[i] = a.runOne(ctx, sub)
			return nil
		})
	}
	_ = g.Wait()

	for i, sub := range subs {
		out[sub.Name] = entries[i]
	}
	return out
}

// runOne executes a single sub-fetch, substituting the fallback on any
// error or panic.
func (a *Aggregator) runOne(ctx context.Context, sub SubFetch) (entry Entry) {
	lg := a.lg.With(zap.String("sub_fetch", sub.Name))

	// A panicking fetch degrades exactly like a failing one; dashboards
	// must render no matter what an upstream client does.
	defer func() {
		if rec := recover(); rec != nil {
			lg.Error("sub-fetch panicked, serving fallback", zap.Any("panic", rec))
			entry = Entry{Data: sub.Fallback(), Source: SourceFallback}
		}
	}()

	fetchCtx := ctx
	if sub.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, sub.Timeout)
		defer cancel()
	}

	data, err := sub.Fetch(fetchCtx)
	if err != nil {
		lg.Warn("sub-fetch failed, serving fallback", zap.Error(err))
		return Entry{Data: sub.Fallback(), Source: SourceFallback}
	}
	return Entry{Data: data, Source: SourceRemote}
}

// Named is a convenience for building a SubFetch without a custom timeout.
func Named(name string, fetch FetchFunc, fallback FallbackFunc) SubFetch {
	if fetch == nil {
		fetch = func(context.Context) (any, error) {
			return nil, errors.New("no fetch configured")
		}
	}
	return SubFetch{Name: name, Fetch: fetch, Fallback: fallback}
}
