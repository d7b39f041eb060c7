package aggregate

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticFetch(data any) FetchFunc {
	return func(context.Context) (any, error) { return data, nil }
}

func failingFetch(err error) FetchFunc {
	return func(context.Context) (any, error) { return nil, err }
}

func staticFallback(data any) FallbackFunc {
	return func() any { return data }
}

func TestAggregate_AllRemote(t *testing.T) {
	a := New(nil)

	res := a.Aggregate(context.Background(), []SubFetch{
		Named("users", staticFetch(12), staticFallback(0)),
		Named("orders", staticFetch("live"), staticFallback("synthetic")),
	})

	require.Len(t, res, 2)
	assert.Equal(t, Entry{Data: 12, Source: SourceRemote}, res["users"])
	assert.Equal(t, Entry{Data: "live", Source: SourceRemote}, res["orders"])
	assert.False(t, res.Degraded())
}

func TestAggregate_PartialFailureIsIndependent(t *testing.T) {
	a := New(nil)

	res := a.Aggregate(context.Background(), []SubFetch{
		Named("users", staticFetch("live-users"), staticFallback("fake-users")),
		Named("orders", failingFetch(errors.New("order service down")), staticFallback("fake-orders")),
	})

	assert.Equal(t, SourceRemote, res["users"].Source)
	assert.Equal(t, "live-users", res["users"].Data)
	assert.Equal(t, SourceFallback, res["orders"].Source)
	assert.Equal(t, "fake-orders", res["orders"].Data)
	assert.True(t, res.Degraded())
}

func TestAggregate_AllFallbackIsValidResult(t *testing.T) {
	a := New(nil)
	down := errors.New("unreachable")

	subs := make([]SubFetch, 0, 5)
	for _, name := range []string{"users", "restaurants", "orders", "payments", "notifications"} {
		subs = append(subs, Named(name, failingFetch(down), staticFallback(name+"-fallback")))
	}

	res := a.Aggregate(context.Background(), subs)

	require.Len(t, res, 5)
	for name, entry := range res {
		assert.Equal(t, SourceFallback, entry.Source)
		assert.Equal(t, name+"-fallback", entry.Data)
	}
	assert.True(t, res.Degraded())
}

func TestAggregate_PanicDegradesToFallback(t *testing.T) {
	a := New(nil)

	res := a.Aggregate(context.Background(), []SubFetch{
		Named("stats", func(context.Context) (any, error) { panic("boom") }, staticFallback("safe")),
	})

	assert.Equal(t, Entry{Data: "safe", Source: SourceFallback}, res["stats"])
}

func TestAggregate_SubFetchesRunConcurrently(t *testing.T) {
	a := New(nil)

	// Each fetch blocks until the other has started. If the aggregator ran
	// them sequentially this would deadlock until the timeout fires.
	first := make(chan struct{})
	second := make(chan struct{})

	res := a.Aggregate(context.Background(), []SubFetch{
		{
			Name:    "a",
			Timeout: 2 * time.Second,
			Fetch: func(ctx context.Context) (any, error) {
				close(first)
				select {
				case <-second:
					return "a-done", nil
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			},
			Fallback: staticFallback("a-fallback"),
		},
		{
			Name:    "b",
			Timeout: 2 * time.Second,
			Fetch: func(ctx context.Context) (any, error) {
				close(second)
				select {
				case <-first:
					return "b-done", nil
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			},
			Fallback: staticFallback("b-fallback"),
		},
	})

	assert.Equal(t, SourceRemote, res["a"].Source)
	assert.Equal(t, SourceRemote, res["b"].Source)
}

func TestAggregate_TimeoutFallsBack(t *testing.T) {
	a := New(nil)

	res := a.Aggregate(context.Background(), []SubFetch{
		{
			Name:    "slow",
			Timeout: 10 * time.Millisecond,
			Fetch: func(ctx context.Context) (any, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
			Fallback: staticFallback("degraded"),
		},
	})

	assert.Equal(t, Entry{Data: "degraded", Source: SourceFallback}, res["slow"])
}

func TestAggregate_HoldsNoStateBetweenCalls(t *testing.T) {
	a := New(nil)
	sub := []SubFetch{Named("x", failingFetch(errors.New("down")), staticFallback(1))}

	first := a.Aggregate(context.Background(), sub)
	second := a.Aggregate(context.Background(), []SubFetch{Named("x", staticFetch(2), staticFallback(1))})

	assert.Equal(t, SourceFallback, first["x"].Source)
	assert.Equal(t, SourceRemote, second["x"].Source)
}
