// Package auditlog persists security-relevant events append-only.
package auditlog

import (
	"context"

	"github.com/dmitrijs2005/secureportal/internal/server/models"
)

// Filter narrows audit-log listings. Zero values mean "no filter".
type Filter struct {
	ActorID string
	Kind    models.EventKind
}

// Repository is the persistence contract for audit events. There is no
// update or delete: the log is append-only by design.
type Repository interface {
	Create(ctx context.Context, event *models.AuditEvent) error
	List(ctx context.Context, filter Filter, limit, offset int) ([]*models.AuditEvent, int, error)
}
