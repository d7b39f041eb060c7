package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Store holds one Cart per session. Carts live for the process lifetime only;
// durable state is whatever the mirror has last received.
type Store struct {
	mirror Mirror
	lg     *zap.Logger

	mu    sync.Mutex
	carts map[string]*Cart
}

// NewStore creates a session cart registry backed by the given mirror.
func NewStore(mirror Mirror, lg *zap.Logger) *Store {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Store{
		mirror: mirror,
		lg:     lg,
		carts:  make(map[string]*Cart),
	}
}

// Get returns the cart for the session, creating it on first access. A new
// cart is hydrated best-effort from the mirror; when the mirror is down the
// session simply starts with an empty cart.
func (s *Store) Get(ctx context.Context, sessionID string) *Cart {
	s.mu.Lock()
	c, ok := s.carts[sessionID]
	if !ok {
		c = New(s.mirror, s.lg)
		s.carts[sessionID] = c
	}
	s.mu.Unlock()

	if !ok && s.mirror != nil {
		snap, err := s.mirror.Fetch(ctx)
		switch {
		case err != nil:
			s.lg.Debug("cart hydrate skipped", zap.String("session", sessionID), zap.Error(err))
		case snap != nil && !snap.Empty():
			c.Hydrate(*snap)
		}
	}
	return c
}

// Drop removes a session's cart from the registry.
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

// Wait blocks until every cart's scheduled mirror pushes have settled.
func (s *Store) Wait() {
	s.mu.Lock()
	carts := make([]*Cart, 0, len(s.carts))
	for _, c := range s.carts {
		carts = append(carts, c)
	}
	s.mu.Unlock()

	for _, c := range carts {
		c.Wait()
	}
}
