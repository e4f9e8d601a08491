// Package credentials declares the server-side repository contract for
// user credentials: email, password hash and permission vector.
package credentials

import (
	"context"

	"github.com/dmitrijs2005/issuetracker/internal/server/models"
	"github.com/dmitrijs2005/issuetracker/internal/server/permissions"
	"github.com/google/uuid"
)

// Repository defines persistence operations for credentials.
type Repository interface {
	// Create inserts c. A duplicate email yields common.ErrConflict.
	Create(ctx context.Context, c *models.Credential) error

	// GetByEmail returns the credential registered with email or
	// common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.Credential, error)

	// GetByID returns the credential with id or common.ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Credential, error)

	// UpdatePermissions overwrites the whole vector in one statement and
	// returns the stored credential.
	UpdatePermissions(ctx context.Context, id uuid.UUID, v permissions.Vector) (*models.Credential, error)
}
