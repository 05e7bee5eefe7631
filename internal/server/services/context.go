// Package services contains the business logic of the data protection core:
// authentication and sessions, CSRF guarding, rate limiting, protected record
// handling, identity administration, and audit logging.
package services

import (
	"github.com/dmitrijs2005/secureportal/internal/server/models"
)

// RequestMeta carries caller-side request attributes that the core records
// for auditing and rate limiting. It is threaded explicitly; the core keeps
// no ambient request state.
type RequestMeta struct {
	SourceAddr string
	UserAgent  string
}

// Caller bundles the authenticated session, the identity it belongs to, and
// the request metadata for one operation.
type Caller struct {
	Session  *models.Session
	Identity *models.Identity
	Meta     RequestMeta
}

// CSRFCandidate holds the anti-forgery token as submitted by the client.
// The form value takes precedence over the header when both are present.
type CSRFCandidate struct {
	FormValue   string
	HeaderValue string
}

// Value returns the token value to check, preferring the form field.
func (c CSRFCandidate) Value() string {
	if c.FormValue != "" {
		return c.FormValue
	}
	return c.HeaderValue
}
