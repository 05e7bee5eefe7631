// Package sessions persists server-issued sessions and their secrets.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/secureportal/internal/server/models"
)

// Repository is the persistence contract for sessions.
type Repository interface {
	Create(ctx context.Context, session *models.Session) (*models.Session, error)
	// Find matches both secrets; a row is returned even when expired so the
	// caller can distinguish expiry from absence.
	Find(ctx context.Context, sessionID, token string) (*models.Session, error)
	UpdateCSRFToken(ctx context.Context, id, csrfToken string) error
	Delete(ctx context.Context, id string) error
}
