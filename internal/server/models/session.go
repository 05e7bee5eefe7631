package models

import "time"

// Session is a server-issued authentication context. SessionID and Token are
// two independently generated 256-bit secrets; both must match the stored row
// for the session to be valid. Multiple concurrent sessions per identity are
// permitted.
//
// CSRFToken is created lazily on first use and lives as long as the session.
type Session struct {
	ID        string
	SessionID string
	Token     string
	OwnerID   string
	CSRFToken string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session lifetime has elapsed at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
