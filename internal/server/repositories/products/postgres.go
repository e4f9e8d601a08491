package products

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

// PostgresRepository implements product storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const productColumns = `id, name, type, owner_email, deleted, deleted_at, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (id, name, type, owner_email, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, string(p.Type), p.OwnerEmail, p.CreatedAt)
	if err != nil {
		return wrapWriteErr(err)
	}
	return nil
}

// List returns all non-deleted products, oldest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE deleted = FALSE
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}
	defer rows.Close()

	var result []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE id = $1 AND deleted = FALSE
	`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Update overwrites the mutable fields of a non-deleted product.
func (r *PostgresRepository) Update(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products SET name = $2, type = $3, owner_email = $4
		WHERE id = $1 AND deleted = FALSE
	`
	res, err := r.db.ExecContext(ctx, query, p.ID, p.Name, string(p.Type), p.OwnerEmail)
	if err != nil {
		return wrapWriteErr(err)
	}
	return expectOneRow(res)
}

// SoftDelete marks the product deleted. Deleting twice yields common.ErrNotFound.
func (r *PostgresRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE products SET deleted = TRUE, deleted_at = COALESCE(deleted_at, $2)
		WHERE id = $1 AND deleted = FALSE
	`
	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func scanProduct(row scanner) (*models.Product, error) {
	var (
		p         models.Product
		typ       string
		deletedAt sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.Name, &typ, &p.OwnerEmail, &p.Deleted, &deletedAt, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	p.Type = models.ProductType(typ)
	if deletedAt.Valid {
		t := deletedAt.Time
		p.DeletedAt = &t
	}
	return &p, nil
}

func wrapWriteErr(err error) error {
	if dbx.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %w", common.ErrConflict, common.ErrNameAlreadyTaken)
	}
	return fmt.Errorf("db error: %w", err)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
