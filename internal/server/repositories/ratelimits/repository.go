// Package ratelimits persists fixed-window attempt counters.
package ratelimits

import (
	"context"
	"time"

	"github.com/dmitrijs2005/secureportal/internal/server/models"
)

// Repository is the persistence contract for rate-limit counters.
type Repository interface {
	// Increment atomically bumps the counter for (sourceKey, action), creating
	// it with attempts=1 when absent and resetting it to a fresh window when
	// window_start is at or before cutoff. It returns the post-increment
	// counter state. Last-writer-wins under concurrency is acceptable; the
	// limiter is a coarse defense, not exact accounting.
	Increment(ctx context.Context, sourceKey, action string, now, cutoff time.Time) (*models.RateLimitCounter, error)
	Delete(ctx context.Context, sourceKey, action string) error
}
