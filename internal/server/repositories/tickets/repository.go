// Package tickets declares the repository contract for tickets.
// Soft-deleted tickets are invisible to every read.
package tickets

import (
	"context"
	"time"

	"github.com/dmitrijs2005/issuetracker/internal/server/models"
	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, t *models.Ticket) error
	List(ctx context.Context) ([]*models.Ticket, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	// Update overwrites status, type and description.
	Update(ctx context.Context, t *models.Ticket) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
}
