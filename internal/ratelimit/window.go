// Package ratelimit guards the public signup endpoint with a fixed-window
// per-IP limit. Redis backs the window when configured so limits hold across
// restarts; otherwise an in-process window is used. Limiter errors fail open:
// a broken limiter must never block registrations.
package ratelimit

import (
	"context"
	"time"
)

// WindowStore counts hits per key within a fixed window. Incr returns the
// count including the current hit; the first hit of a window starts it.
type WindowStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}
