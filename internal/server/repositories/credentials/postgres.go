package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/issuetracker/internal/common"
	"github.com/dmitrijs2005/issuetracker/internal/dbx"
	"github.com/dmitrijs2005/issuetracker/internal/server/models"
	"github.com/dmitrijs2005/issuetracker/internal/server/permissions"
	"github.com/google/uuid"
)

// PostgresRepository implements Repository over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const credentialColumns = `id, email, password_hash, permissions::text, created_at`

func (r *PostgresRepository) Create(ctx context.Context, c *models.Credential) error {
	query :=
		`INSERT INTO credentials (id, email, password_hash, permissions, created_at)
		 VALUES ($1, $2, $3, $4::bit(4), $5)
		 `

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Email, c.PasswordHash, c.Permissions.String(), c.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %w", common.ErrConflict, common.ErrEmailAlreadyRegistered)
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials
		 WHERE email = $1
		 `
	return scanCredential(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials
		 WHERE id = $1
		 `
	return scanCredential(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) UpdatePermissions(ctx context.Context, id uuid.UUID, v permissions.Vector) (*models.Credential, error) {
	query :=
		`UPDATE credentials SET permissions = $2::bit(4)
		 WHERE id = $1
		 RETURNING ` + credentialColumns

	return scanCredential(r.db.QueryRowContext(ctx, query, id, v.String()))
}

func scanCredential(row *sql.Row) (*models.Credential, error) {
	var (
		c    models.Credential
		bits string
	)
	err := row.Scan(&c.ID, &c.Email, &c.PasswordHash, &bits, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	c.Permissions, err = permissions.ParseVector(bits)
	if err != nil {
		return nil, fmt.Errorf("stored permissions %q: %w", bits, err)
	}
	return &c, nil
}
