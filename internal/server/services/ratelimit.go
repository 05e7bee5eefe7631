package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/secureportal/internal/logging"
	"github.com/dmitrijs2005/secureportal/internal/server/repositories/repomanager"
)

// LimitStatus is the outcome of one rate-limit check.
type LimitStatus struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RateLimitService applies a fixed-window attempt limit per (source, action)
// pair. The window is anchored to the first attempt; when it elapses the
// next attempt starts a fresh window.
//
// The limiter fails open: if the counter store is unreachable the attempt is
// allowed and the failure is logged. Availability of authentication wins
// over throttling here.
type RateLimitService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

// NewRateLimitService constructs a RateLimitService.
func NewRateLimitService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *RateLimitService {
	return &RateLimitService{db: db, repomanager: m, logger: logger, now: time.Now}
}

// CheckLimit counts the current attempt and reports whether it is within the
// limit. The attempt is counted even when the outcome is a denial, so a
// client hammering the endpoint keeps its window anchored.
func (s *RateLimitService) CheckLimit(ctx context.Context, sourceKey, action string, maxAttempts int, window time.Duration) *LimitStatus {
	now := s.now()
	repo := s.repomanager.RateLimits(s.db)

	counter, err := repo.Increment(ctx, sourceKey, action, now, now.Add(-window))
	if err != nil {
		s.logger.Warn(ctx, "rate limit check failed, allowing attempt", "action", action, "error", err)
		return &LimitStatus{Allowed: true, Remaining: maxAttempts, ResetAt: now.Add(window)}
	}

	remaining := maxAttempts - counter.Attempts
	if remaining < 0 {
		remaining = 0
	}
	return &LimitStatus{
		Allowed:   counter.Attempts <= maxAttempts,
		Remaining: remaining,
		ResetAt:   counter.WindowStart.Add(window),
	}
}

// ResetLimit clears the counter for (sourceKey, action), typically after a
// successful attempt. Failures are logged and ignored.
func (s *RateLimitService) ResetLimit(ctx context.Context, sourceKey, action string) {
	repo := s.repomanager.RateLimits(s.db)
	if err := repo.Delete(ctx, sourceKey, action); err != nil {
		s.logger.Warn(ctx, "rate limit reset failed", "action", action, "error", err)
	}
}
