// Package tokens declares the server-side repository contract for opaque
// bearer tokens. Tokens are never physically deleted.
package tokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/issuetracker/internal/server/models"
	"github.com/google/uuid"
)

// Repository defines operations for issuing, retrieving, and revoking tokens.
type Repository interface {
	// Create stores a freshly issued token.
	Create(ctx context.Context, t *models.Token) error

	// Get returns the token with id, in any state, or common.ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*models.Token, error)

	// Revoke moves an active token to the revoked state, stamping at.
	// It returns common.ErrNotFound when no active token with id exists.
	Revoke(ctx context.Context, id uuid.UUID, at time.Time) (*models.Token, error)
}
