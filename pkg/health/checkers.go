package health

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck flags a goroutine leak. Useful as a liveness check for
// a gateway whose cart syncs and aggregations all spawn short-lived
// goroutines that must not pile up.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(context.Context) error {
		if n := runtime.NumGoroutine(); n > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", n, threshold)
		}
		return nil
	}
}

// Pinger is anything that can probe a remote dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck adapts a Pinger into a CheckFunc for upstream reachability
// reporting.
func PingCheck(p Pinger) CheckFunc {
	return p.Ping
}
