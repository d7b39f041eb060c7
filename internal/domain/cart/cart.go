// Package cart implements the in-memory shopping cart state machine.
//
// Local state is the source of truth: every mutation applies synchronously
// and atomically, then schedules a best-effort full-snapshot push to the
// remote mirror. Mirror failures never block or fail a mutation; they only
// surface through the cart's sync status.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Validation errors for incoming lines.
var (
	ErrEmptyItemID     = errors.New("cart: item id is required")
	ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")
	ErrNegativePrice   = errors.New("cart: unit price must not be negative")
)

// CrossRestaurantError is returned when a line from a different restaurant is
// added to a non-empty cart. The caller must clear the cart first; the cart
// itself is left untouched.
type CrossRestaurantError struct {
	ActiveRestaurantID    string
	AttemptedRestaurantID string
}

func (e *CrossRestaurantError) Error() string {
	return fmt.Sprintf("cart holds items from restaurant %s, cannot add items from %s",
		e.ActiveRestaurantID, e.AttemptedRestaurantID)
}

// Line is one orderable menu item within the cart.
type Line struct {
	ItemID         string
	Name           string
	UnitPrice      decimal.Decimal
	Quantity       int
	RestaurantID   string
	RestaurantName string
}

// SyncStatus reflects the outcome of the most recently settled mirror push.
// It is informational only and never blocks local mutation.
type SyncStatus uint8

const (
	SyncIdle SyncStatus = iota
	Syncing
	SyncFailed
)

func (s SyncStatus) String() string {
	switch s {
	case SyncIdle:
		return "idle"
	case Syncing:
		return "syncing"
	case SyncFailed:
		return "sync_failed"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status as its string form.
func (s SyncStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes the string form. Unknown strings decode as SyncIdle.
func (s *SyncStatus) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case `"syncing"`:
		*s = Syncing
	case `"sync_failed"`:
		*s = SyncFailed
	default:
		*s = SyncIdle
	}
	return nil
}

// Snapshot is an immutable copy of the cart state at one point in time.
// Mutating the cart after taking a snapshot does not affect it.
type Snapshot struct {
	Lines        []Line
	Subtotal     decimal.Decimal
	ItemCount    int
	RestaurantID string
	SyncStatus   SyncStatus
}

// Empty reports whether the snapshot holds no lines.
func (s Snapshot) Empty() bool {
	return len(s.Lines) == 0
}

// Mirror is the remote store the cart state is shadowed to. Each push
// transmits the full current snapshot, so a later push supersedes an earlier
// one regardless of arrival order.
type Mirror interface {
	Push(ctx context.Context, snap Snapshot) error
	Fetch(ctx context.Context) (*Snapshot, error)
}

// Cart is the state machine for one session's shopping cart. All exported
// methods are safe for concurrent use; mutations are serialized by the cart's
// own mutex so two mutations can never interleave.
type Cart struct {
	mu         sync.Mutex
	lines      []Line
	index      map[string]int
	subtotal   decimal.Decimal
	itemCount  int
	restaurant string
	syncStatus SyncStatus

	mirror Mirror
	lg     *zap.Logger
	syncs  sync.WaitGroup
}

// New creates an empty cart. mirror may be nil, in which case the cart is
// purely local.
func New(mirror Mirror, lg *zap.Logger) *Cart {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Cart{
		index:    make(map[string]int),
		subtotal: decimal.Zero,
		mirror:   mirror,
		lg:       lg,
	}
}

// AddItem appends a line or, when the item is already present, accumulates
// its quantity. Adding an item from a different restaurant than the current
// non-empty cart fails with CrossRestaurantError before any state changes.
func (c *Cart) AddItem(ctx context.Context, line Line) error {
	if line.ItemID == "" {
		return ErrEmptyItemID
	}
	if line.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if line.UnitPrice.IsNegative() {
		return ErrNegativePrice
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) > 0 && line.RestaurantID != c.restaurant {
		return &CrossRestaurantError{
			ActiveRestaurantID:    c.restaurant,
			AttemptedRestaurantID: line.RestaurantID,
		}
	}

	if i, ok := c.index[line.ItemID]; ok {
		c.lines[i].Quantity += line.Quantity
	} else {
		c.index[line.ItemID] = len(c.lines)
		c.lines = append(c.lines, line)
	}
	c.restaurant = line.RestaurantID

	c.recompute()
	c.scheduleSync(ctx)
	return nil
}

// SetQuantity updates the quantity of an existing line. A quantity of zero or
// less removes the line entirely; zero-quantity lines never appear in the
// cart. An unknown item id is a silent no-op: callers create lines with
// AddItem, never with SetQuantity.
func (c *Cart) SetQuantity(ctx context.Context, itemID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[itemID]
	if !ok {
		return
	}

	if quantity <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		c.reindex()
		if len(c.lines) == 0 {
			c.restaurant = ""
		}
	} else {
		c.lines[i].Quantity = quantity
	}

	c.recompute()
	c.scheduleSync(ctx)
}

// RemoveItem removes the line for itemID. Equivalent to SetQuantity(itemID, 0).
func (c *Cart) RemoveItem(ctx context.Context, itemID string) {
	c.SetQuantity(ctx, itemID, 0)
}

// Clear unconditionally resets the cart to its empty state.
func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reset()
	c.scheduleSync(ctx)
}

// ClearLocal resets the cart without scheduling a mirror push. Used after
// checkout, where the order service has already consumed the cart remotely.
func (c *Cart) ClearLocal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// Snapshot returns a deep copy of the current state.
func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Hydrate replaces the cart state with a remote snapshot, typically at
// session start. Totals are recomputed locally rather than trusted from the
// wire, and zero-quantity lines are dropped.
func (c *Cart) Hydrate(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reset()
	for _, line := range snap.Lines {
		if line.ItemID == "" || line.Quantity < 1 {
			continue
		}
		if _, ok := c.index[line.ItemID]; ok {
			continue
		}
		c.index[line.ItemID] = len(c.lines)
		c.lines = append(c.lines, line)
		c.restaurant = line.RestaurantID
	}
	c.recompute()
}

// Wait blocks until every scheduled mirror push has settled. Primarily for
// tests and graceful shutdown; normal operation never waits on syncs.
func (c *Cart) Wait() {
	c.syncs.Wait()
}

func (c *Cart) snapshotLocked() Snapshot {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return Snapshot{
		Lines:        lines,
		Subtotal:     c.subtotal,
		ItemCount:    c.itemCount,
		RestaurantID: c.restaurant,
		SyncStatus:   c.syncStatus,
	}
}

func (c *Cart) reset() {
	c.lines = nil
	c.index = make(map[string]int)
	c.restaurant = ""
	c.recompute()
}

// recompute derives subtotal and item count from the lines. Always a full
// recomputation: incremental patching drifts.
func (c *Cart) recompute() {
	subtotal := decimal.Zero
	count := 0
	for _, line := range c.lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		count += line.Quantity
	}
	c.subtotal = subtotal
	c.itemCount = count
}

func (c *Cart) reindex() {
	for k := range c.index {
		delete(c.index, k)
	}
	for i, line := range c.lines {
		c.index[line.ItemID] = i
	}
}

// scheduleSync fires a background full-snapshot push to the mirror. The
// caller must hold c.mu. Pushes are not ordered: a later snapshot supersedes
// an earlier one on the remote side, and syncStatus reflects the most
// recently settled push.
func (c *Cart) scheduleSync(ctx context.Context) {
	if c.mirror == nil {
		return
	}

	c.syncStatus = Syncing
	snap := c.snapshotLocked()

	// Detached from the request's cancellation but keeps its values, so the
	// push still carries the session token after the HTTP request finishes.
	pushCtx := context.WithoutCancel(ctx)

	c.syncs.Add(1)
	go func() {
		defer c.syncs.Done()

		err := c.mirror.Push(pushCtx, snap)

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.syncStatus = SyncFailed
			c.lg.Warn("cart mirror push failed", zap.Error(err))
			return
		}
		c.syncStatus = SyncIdle
	}()
}
