// Package records persists protected operational records.
package records

import (
	"context"

	"github.com/dmitrijs2005/secureportal/internal/server/models"
)

// Repository is the persistence contract for records.
type Repository interface {
	Create(ctx context.Context, record *models.Record) (*models.Record, error)
	List(ctx context.Context) ([]*models.Record, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Record, error)
}
