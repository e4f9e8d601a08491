// Package products declares the repository contract for products.
// Soft-deleted products are invisible to every read.
package products

import (
	"context"
	"time"

	"github.com/dmitrijs2005/issuetracker/internal/server/models"
	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts p. A duplicate name yields common.ErrConflict.
	Create(ctx context.Context, p *models.Product) error
	List(ctx context.Context) ([]*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
}
