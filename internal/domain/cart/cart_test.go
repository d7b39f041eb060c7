package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockMirror struct {
	mu        sync.Mutex
	pushes    []Snapshot
	pushErr   error
	fetchSnap *Snapshot
	fetchErr  error
}

func (m *mockMirror) Push(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushes = append(m.pushes, snap)
	return m.pushErr
}

func (m *mockMirror) Fetch(_ context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchSnap, m.fetchErr
}

func (m *mockMirror) pushCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pushes)
}

func (m *mockMirror) lastPush() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pushes[len(m.pushes)-1]
}

// --- Helpers ---

func line(id string, price string, qty int, restaurant string) Line {
	return Line{
		ItemID:         id,
		Name:           "item " + id,
		UnitPrice:      decimal.RequireFromString(price),
		Quantity:       qty,
		RestaurantID:   restaurant,
		RestaurantName: "restaurant " + restaurant,
	}
}

// --- Tests ---

func TestAddItem_AccumulatesQuantity(t *testing.T) {
	ctx := context.Background()
	c := New(nil, nil)

	require.NoError(t, c.AddItem(ctx, line("A", "10", 1, "R1")))
	require.NoError(t, c.AddItem(ctx, line("A", "10", 2, "R1")))

	snap := c.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "A", snap.Lines[0].ItemID)
	assert.Equal(t, 3, snap.Lines[0].Quantity)
	assert.Equal(t, 3, snap.ItemCount)
	assert.True(t, decimal.RequireFromString("30").Equal(snap.Subtotal))
}

func TestAddItem_PreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	c := New(nil, nil)

	require.NoError(t, c.AddItem(ctx, line("pizza", "12.50", 1, "R1")))
	require.NoError(t, c.AddItem(ctx, line("cola", "2.25", 2, "R1")))
	require.NoError(t, c.AddItem(ctx, line("fries", "4.00", 1, "R1")))
	// Accumulating into an earlier line must not reorder it.
	require.NoError(t, c.AddItem(ctx, line("pizza", "12.50", 1, "R1")))

	snap := c.Snapshot()
	require.Len(t, snap.Lines, 3)
	assert.Equal(t, "pizza", snap.Lines[0].ItemID)
	assert.Equal(t, "cola", snap.Lines[1].ItemID)
	assert.Equal(t, "fries", snap.Lines[2].ItemID)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
}

func TestAddItem_CrossRestaurantConflict(t *testing.T) {
	ctx := context.Background()
	c := New(nil, nil)
	require.NoError(t, c.AddItem(ctx, line("A", "10", 1, "R1")))
	before := c.Snapshot()

	err := c.AddItem(ctx, line("B", "5", 1, "R2"))

	var crossErr *CrossRestaurantError
	require.ErrorAs(t, err, &crossErr)
	assert.Equal(t, "R1", crossErr.ActiveRestaurantID)
	assert.Equal(t, "R2", crossErr.AttemptedRestaurantID)

	after := c.Snapshot()
	assert.Equal(t, before.Lines, after.Lines)
	assert.Equal(t, before.ItemCount, after.ItemCount)
	assert.True(t, before.Subtotal.Equal(after.Subtotal))
	assert.Equal(t, "R1", after.RestaurantID)
}

func TestAddItem_Validation(t *testing.T) {
	ctx := context.Background()
	c := New(nil, nil)

	assert.ErrorIs(t, c.AddItem(ctx, line("", "10", 1, "R1")), ErrEmptyItemID)
	assert.ErrorIs(t, c.AddItem(ctx, line("A", "10", 0, "R1")), ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddItem(ctx, line("A", "-1", 1, "R1")), ErrNegativePrice)
	assert.True(t, c.Snapshot().Empty())
}

func TestSetQuantity_UpdatesAndRecomputes(t *testing.T) {
	ctx := context.Background()
	c := New(nil, nil)
	require.NoError(t, c.AddItem(ctx, line("A", "10", 1, "R1")))
	require.NoError(t, c.AddItem(ctx, line("B", "3", 2, "R1")))

	c.SetQuantity(ctx, "A", 5)

	snap := c.Snapshot()
	assert.Equal(t, 5, snap.Lines[0].Quantity)
	assert.Equal(t, 7, snap.ItemCount)
	assert.True(t, decimal.RequireFromString("56").Equal(snap.Subtotal))
}

func TestSetQuantity_ZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	c := New(nil, nil)
	require.NoError(t, c.AddItem(ctx, line("A", "10", 2, "R1")))
	require.NoError(t, c.AddItem(ctx, line("B", "5", 1, "R1")))

	c.SetQuantity(ctx, "A", 0)

	snap := c.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "B", snap.Lines[0].ItemID)
	assert.Equal(t, "R1", snap.RestaurantID)

	// Removing an already-absent id is an idempotent no-op.
	c.SetQuantity(ctx, "A", 0)
	assert.Len(t, c.Snapshot().Lines, 1)
}

func TestSetQuantity_RemovingLastLineResetsRestaurant(t *testing.T) {
	ctx := context.Background()
	c := New(nil, nil)
	require.NoError(t, c.AddItem(ctx, line("A", "10", 2, "R1")))

	c.SetQuantity(ctx, "A", -1)

	snap := c.Snapshot()
	assert.True(t, snap.Empty())
	assert.Empty(t, snap.RestaurantID)
	assert.Equal(t, 0, snap.ItemCount)
	assert.True(t, decimal.Zero.Equal(snap.Subtotal))
}

func TestSetQuantity_UnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	mirror := &mockMirror{}
	c := New(mirror, nil)
	require.NoError(t, c.AddItem(ctx, line("A", "10", 1, "R1")))
	c.Wait()
	pushed := mirror.pushCount()

	c.SetQuantity(ctx, "ghost", 4)
	c.Wait()

	assert.Len(t, c.Snapshot().Lines, 1)
	// A no-op must not schedule a mirror push either.
	assert.Equal(t, pushed, mirror.pushCount())
}

func TestRemoveItem_RoundTripRestoresState(t *testing.T) {
	ctx := context.Background()
	c := New(nil, nil)
	before := c.Snapshot()

	require.NoError(t, c.AddItem(ctx, line("A", "10", 1, "R1")))
	c.RemoveItem(ctx, "A")

	after := c.Snapshot()
	assert.Equal(t, len(before.Lines), len(after.Lines))
	assert.Equal(t, before.ItemCount, after.ItemCount)
	assert.True(t, before.Subtotal.Equal(after.Subtotal))
	assert.Equal(t, before.RestaurantID, after.RestaurantID)
}

func TestClear_ResetsEverything(t *testing.T) {
	ctx := context.Background()
	c := New(nil, nil)
	require.NoError(t, c.AddItem(ctx, line("A", "10", 3, "R1")))
	require.NoError(t, c.AddItem(ctx, line("B", "5", 1, "R1")))

	c.Clear(ctx)

	snap := c.Snapshot()
	assert.True(t, snap.Empty())
	assert.Equal(t, 0, snap.ItemCount)
	assert.True(t, decimal.Zero.Equal(snap.Subtotal))
	assert.Empty(t, snap.RestaurantID)

	// A cleared cart accepts any restaurant again.
	require.NoError(t, c.AddItem(ctx, line("C", "7", 1, "R2")))
	assert.Equal(t, "R2", c.Snapshot().RestaurantID)
}

func TestDerivedTotals_ManyAdds(t *testing.T) {
	ctx := context.Background()
	c := New(nil, nil)

	require.NoError(t, c.AddItem(ctx, line("A", "2.50", 2, "R1")))
	require.NoError(t, c.AddItem(ctx, line("B", "1.25", 4, "R1")))
	require.NoError(t, c.AddItem(ctx, line("A", "2.50", 1, "R1")))
	require.NoError(t, c.AddItem(ctx, line("C", "0.99", 10, "R1")))

	snap := c.Snapshot()
	assert.Equal(t, 17, snap.ItemCount)
	// 3*2.50 + 4*1.25 + 10*0.99 = 22.40
	assert.True(t, decimal.RequireFromString("22.40").Equal(snap.Subtotal))
}

func TestSync_PushesFullSnapshot(t *testing.T) {
	ctx := context.Background()
	mirror := &mockMirror{}
	c := New(mirror, nil)

	require.NoError(t, c.AddItem(ctx, line("A", "10", 1, "R1")))
	c.Wait()

	require.GreaterOrEqual(t, mirror.pushCount(), 1)
	snap := mirror.lastPush()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "A", snap.Lines[0].ItemID)
	assert.Equal(t, "R1", snap.RestaurantID)
	assert.Equal(t, SyncIdle, c.Snapshot().SyncStatus)
}

func TestSync_FailureSetsStatusButCartStaysUsable(t *testing.T) {
	ctx := context.Background()
	mirror := &mockMirror{pushErr: errors.New("order service down")}
	c := New(mirror, nil)

	require.NoError(t, c.AddItem(ctx, line("A", "10", 1, "R1")))
	c.Wait()
	assert.Equal(t, SyncFailed, c.Snapshot().SyncStatus)

	// Local mutations keep working while the mirror is down.
	require.NoError(t, c.AddItem(ctx, line("B", "5", 2, "R1")))
	c.Wait()
	snap := c.Snapshot()
	assert.Len(t, snap.Lines, 2)
	assert.Equal(t, SyncFailed, snap.SyncStatus)
}

func TestSync_RecoversToIdle(t *testing.T) {
	ctx := context.Background()
	mirror := &mockMirror{pushErr: errors.New("transient")}
	c := New(mirror, nil)

	require.NoError(t, c.AddItem(ctx, line("A", "10", 1, "R1")))
	c.Wait()
	require.Equal(t, SyncFailed, c.Snapshot().SyncStatus)

	mirror.mu.Lock()
	mirror.pushErr = nil
	mirror.mu.Unlock()

	c.SetQuantity(ctx, "A", 2)
	c.Wait()
	assert.Equal(t, SyncIdle, c.Snapshot().SyncStatus)
}

func TestHydrate_RecomputesAndDropsInvalidLines(t *testing.T) {
	c := New(nil, nil)

	c.Hydrate(Snapshot{
		Lines: []Line{
			line("A", "10", 2, "R1"),
			{ItemID: "zeroed", UnitPrice: decimal.NewFromInt(4), Quantity: 0, RestaurantID: "R1"},
			{UnitPrice: decimal.NewFromInt(1), Quantity: 1, RestaurantID: "R1"},
			line("B", "5", 1, "R1"),
		},
		// Bogus remote totals must be ignored in favour of local recompute.
		Subtotal:  decimal.RequireFromString("999"),
		ItemCount: 42,
	})

	snap := c.Snapshot()
	require.Len(t, snap.Lines, 2)
	assert.Equal(t, 3, snap.ItemCount)
	assert.True(t, decimal.RequireFromString("25").Equal(snap.Subtotal))
	assert.Equal(t, "R1", snap.RestaurantID)
}

func TestStore_GetCreatesAndHydrates(t *testing.T) {
	ctx := context.Background()
	remote := Snapshot{Lines: []Line{line("A", "10", 2, "R1")}}
	mirror := &mockMirror{fetchSnap: &remote}
	store := NewStore(mirror, nil)

	c := store.Get(ctx, "sess-1")
	snap := c.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.ItemCount)

	// Same session returns the same cart, without re-hydrating.
	again := store.Get(ctx, "sess-1")
	assert.Same(t, c, again)
}

func TestStore_HydrateFailureStartsEmpty(t *testing.T) {
	ctx := context.Background()
	mirror := &mockMirror{fetchErr: errors.New("unreachable")}
	store := NewStore(mirror, nil)

	c := store.Get(ctx, "sess-1")
	assert.True(t, c.Snapshot().Empty())
}

func TestStore_DropForgetsSession(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil, nil)

	c := store.Get(ctx, "sess-1")
	require.NoError(t, c.AddItem(ctx, line("A", "10", 1, "R1")))

	store.Drop("sess-1")
	fresh := store.Get(ctx, "sess-1")
	assert.True(t, fresh.Snapshot().Empty())
}
