package usage

import (
	"context"
	"time"
)

// Store persists usage counters.
//
// Get returns the current counter. For windowed features a counter whose
// window has elapsed is reset to zero as part of the read. Increment adds
// one in a single upsert; for windowed features LastReset is refreshed only
// when the count moves off zero.
type Store interface {
	Get(ctx context.Context, userID string, feature Feature, window time.Duration) (Counter, error)
	Increment(ctx context.Context, userID string, feature Feature, windowed bool) (Counter, error)
}

func windowExpired(c Counter, window time.Duration, now time.Time) bool {
	if window <= 0 {
		return false
	}
	if c.LastReset == nil {
		return c.Count > 0
	}
	return now.Sub(*c.LastReset) >= window
}
