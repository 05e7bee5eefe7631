// Package models defines the persistent entities of the data protection core.
package models

import "time"

// Identity is an authenticated actor of the portal.
//
// IsRoot marks the single distinguished identity whose role can never change
// and who alone may change other identities' roles. It is set once at
// provisioning time and is immutable afterwards.
//
// IntegrityTag is a hex-encoded HMAC-SHA256 over "username|email|name",
// computed once at creation. Profile fields are create-time-only for
// integrity purposes, so the tag is never recomputed on update.
type Identity struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	Name         string
	Role         string
	IsRoot       bool
	IntegrityTag string
	CreatedAt    time.Time
}
