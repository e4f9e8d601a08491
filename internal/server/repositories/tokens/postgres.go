package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/issuetracker/internal/common"
	"github.com/dmitrijs2005/issuetracker/internal/dbx"
	"github.com/dmitrijs2005/issuetracker/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements Repository over a dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const tokenColumns = `id, credential_id, kind, expire_after_seconds, state, revoked_at, created_at`

// Create inserts t. ExpireAfter is stored in whole seconds.
func (r *PostgresRepository) Create(ctx context.Context, t *models.Token) error {
	query := `
		INSERT INTO tokens (id, credential_id, kind, expire_after_seconds, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.CredentialID, string(t.Kind), int64(t.ExpireAfter/time.Second), string(t.State), t.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*models.Token, error) {
	query := `SELECT ` + tokenColumns + `
		FROM tokens
		WHERE id = $1
	`
	return scanToken(r.db.QueryRowContext(ctx, query, id))
}

// Revoke only matches active rows, so concurrent revocations stamp
// revoked_at exactly once.
func (r *PostgresRepository) Revoke(ctx context.Context, id uuid.UUID, at time.Time) (*models.Token, error) {
	query := `
		UPDATE tokens SET state = 'revoked', revoked_at = $2
		WHERE id = $1 AND state = 'active'
		RETURNING ` + tokenColumns

	return scanToken(r.db.QueryRowContext(ctx, query, id, at))
}

func scanToken(row *sql.Row) (*models.Token, error) {
	var (
		t         models.Token
		kind      string
		state     string
		seconds   int64
		revokedAt sql.NullTime
	)
	err := row.Scan(&t.ID, &t.CredentialID, &kind, &seconds, &state, &revokedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	t.Kind = models.TokenKind(kind)
	t.State = models.TokenState(state)
	t.ExpireAfter = time.Duration(seconds) * time.Second
	if revokedAt.Valid {
		ts := revokedAt.Time
		t.RevokedAt = &ts
	}
	return &t, nil
}
