// Package health provides liveness and readiness probes for the gateway.
//
// The gateway stays ready while its upstream services are down: it degrades to
// fallback data instead of refusing traffic. Upstream reachability checks are
// therefore informational. They run in the background and their state appears
// in the /readyz body, but only the process's own lifecycle (init, drain)
// flips readiness off. Liveness checks gate /livez with consecutive-failure
// and consecutive-success thresholds so a single blip does not flap the probe.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc probes one component. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

const (
	defaultFailureThreshold = 3
	defaultSuccessThreshold = 1
)

// probe is one registered check plus its runtime state. run is invoked from a
// single goroutine; passing and lastErr are read concurrently by the HTTP
// handlers.
type probe struct {
	name    string
	timeout time.Duration
	fn      CheckFunc

	passing atomic.Bool
	lastErr atomic.Pointer[error]

	fails int
	oks   int
}

func newProbe(name string, timeout time.Duration, fn CheckFunc) *probe {
	p := &probe{name: name, timeout: timeout, fn: fn}
	p.passing.Store(true)
	return p
}

func (p *probe) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.fn(ctx)
	p.lastErr.Store(&err)

	if err != nil {
		p.oks = 0
		if p.fails++; p.fails >= defaultFailureThreshold {
			p.passing.Store(false)
		}
		return
	}
	p.fails = 0
	if p.oks++; p.oks >= defaultSuccessThreshold {
		p.passing.Store(true)
	}
}

func (p *probe) state() (string, bool) {
	if p.passing.Load() {
		return "up", true
	}
	if errp := p.lastErr.Load(); errp != nil && *errp != nil {
		return "down: " + (*errp).Error(), false
	}
	return "down", false
}

// Health tracks the gateway's probe state.
type Health struct {
	ready atomic.Bool

	mu        sync.RWMutex
	liveness  []*probe
	upstreams []*probe
	cancel    context.CancelFunc
}

// New creates a Health starting in the not-ready state. Call SetReady(true)
// once wiring is complete and SetReady(false) when draining.
func New() *Health {
	return &Health{}
}

// AddLivenessCheck registers a process-health check. A failing liveness
// check turns /livez into a 503.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.liveness = append(h.liveness, newProbe(name, timeout, fn))
}

// AddUpstreamCheck registers a reachability check for a backend service. Its
// state is reported in the /readyz body but never fails the probe: a down
// upstream degrades responses, it does not stop the gateway serving them.
func (h *Health) AddUpstreamCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.upstreams = append(h.upstreams, newProbe(name, timeout, fn))
}

// Start runs every registered probe in its own goroutine at the given
// interval until Stop is called or ctx ends.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	probes := make([]*probe, 0, len(h.liveness)+len(h.upstreams))
	probes = append(probes, h.liveness...)
	probes = append(probes, h.upstreams...)
	h.mu.Unlock()

	for _, p := range probes {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			p.run(ctx)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					p.run(ctx)
				}
			}
		}()
	}
}

// Stop cancels the probe goroutines. Safe to call more than once.
func (h *Health) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// SetReady flips the readiness gate.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the gateway accepts traffic.
func (h *Health) IsReady() bool {
	return h.ready.Load()
}

type statusBody struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Upstreams map[string]string `json:"upstreams,omitempty"`
}

// LiveEndpoint serves /livez: 200 while every liveness check passes, 503
// with per-check detail otherwise.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	probes := make([]*probe, len(h.liveness))
	copy(probes, h.liveness)
	h.mu.RUnlock()

	body := statusBody{Status: "ok"}
	code := http.StatusOK
	for _, p := range probes {
		if detail, ok := p.state(); !ok {
			if body.Checks == nil {
				body.Checks = make(map[string]string)
			}
			body.Checks[p.name] = detail
			body.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
	}
	writeStatus(w, code, body)
}

// ReadyEndpoint serves /readyz. The response carries every upstream's
// reachability, but the status code reflects only the readiness gate:
// a degraded gateway still takes traffic.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	probes := make([]*probe, len(h.upstreams))
	copy(probes, h.upstreams)
	h.mu.RUnlock()

	body := statusBody{Status: "ok", Upstreams: make(map[string]string, len(probes))}
	for _, p := range probes {
		detail, ok := p.state()
		body.Upstreams[p.name] = detail
		if !ok {
			body.Status = "degraded"
		}
	}

	code := http.StatusOK
	if !h.ready.Load() {
		body.Status = "not ready"
		code = http.StatusServiceUnavailable
	}
	writeStatus(w, code, body)
}

func writeStatus(w http.ResponseWriter, code int, body statusBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
