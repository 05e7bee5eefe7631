package models

import "time"

// RateLimitCounter tracks attempts for one (source, action) pair inside a
// fixed window anchored to the first attempt.
type RateLimitCounter struct {
	SourceKey     string
	Action        string
	Attempts      int
	WindowStart   time.Time
	LastAttemptAt time.Time
}
