// Package cache stores normalized month timings behind a small Store
// interface with file and Redis backends.
package cache

import (
	"context"
	"fmt"
	"time"

	"ramadan-taqwim/internal/timings"
)

// TTL is the freshness threshold for cached month data.
const TTL = 24 * time.Hour

// Key builds the deterministic cache key for one month of timings.
// Every parameter that affects prayer times participates, so a method or
// school change never serves another configuration's data.
func Key(city string, method, school, year, month int) string {
	return fmt.Sprintf("aladhan:%s:%d:%d:%d:%d", city, method, school, year, month)
}

// Store persists MonthTimings by cache key. Load returns nil on a miss or
// an unreadable entry -- cache failures are never fatal to callers.
type Store interface {
	LoadMonth(ctx context.Context, key string) *timings.MonthTimings
	SaveMonth(ctx context.Context, mt *timings.MonthTimings) error
	Close() error
}

// Fresh reports whether a cached month is still within the TTL at the
// given instant.
func Fresh(mt *timings.MonthTimings, now time.Time) bool {
	if mt == nil {
		return false
	}
	return now.Sub(mt.FetchedAt) < TTL
}
