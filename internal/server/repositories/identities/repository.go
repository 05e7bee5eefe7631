// Package identities persists portal identities.
package identities

import (
	"context"

	"github.com/dmitrijs2005/secureportal/internal/server/models"
)

// Repository is the persistence contract for identities.
type Repository interface {
	Create(ctx context.Context, identity *models.Identity) (*models.Identity, error)
	GetByUsername(ctx context.Context, username string) (*models.Identity, error)
	GetByID(ctx context.Context, id string) (*models.Identity, error)
	List(ctx context.Context) ([]*models.Identity, error)
	UpdateRole(ctx context.Context, id string, role string) error
	Delete(ctx context.Context, id string) error
}
