package tickets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/issuetracker/internal/common"
	"github.com/dmitrijs2005/issuetracker/internal/dbx"
	"github.com/dmitrijs2005/issuetracker/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements ticket storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const ticketColumns = `id, credential_id, product_id, status, type, description, deleted, deleted_at, created_at`

// description is the JSONB document stored in tickets.description.
type description struct {
	Description string `json:"description"`
}

func encodeDescription(s string) ([]byte, error) {
	return json.Marshal(description{Description: s})
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.Ticket) error {
	desc, err := encodeDescription(t.Description)
	if err != nil {
		return fmt.Errorf("encode description: %w", err)
	}

	query := `
		INSERT INTO tickets (id, credential_id, product_id, status, type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		t.ID, t.CredentialID, t.ProductID, string(t.Status), string(t.Type), desc, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// List returns all non-deleted tickets, oldest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets
		WHERE deleted = FALSE
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select tickets: %w", err)
	}
	defer rows.Close()

	var result []*models.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets
		WHERE id = $1 AND deleted = FALSE
	`
	t, err := scanTicket(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *PostgresRepository) Update(ctx context.Context, t *models.Ticket) error {
	desc, err := encodeDescription(t.Description)
	if err != nil {
		return fmt.Errorf("encode description: %w", err)
	}

	query := `
		UPDATE tickets SET status = $2, type = $3, description = $4
		WHERE id = $1 AND deleted = FALSE
	`
	res, err := r.db.ExecContext(ctx, query, t.ID, string(t.Status), string(t.Type), desc)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE tickets SET deleted = TRUE, deleted_at = COALESCE(deleted_at, $2)
		WHERE id = $1 AND deleted = FALSE
	`
	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func scanTicket(row interface{ Scan(...any) error }) (*models.Ticket, error) {
	var (
		t         models.Ticket
		status    string
		typ       string
		raw       []byte
		deletedAt sql.NullTime
	)
	err := row.Scan(&t.ID, &t.CredentialID, &t.ProductID, &status, &typ, &raw, &t.Deleted, &deletedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	var d description
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode description: %w", err)
	}

	t.Status = models.TicketStatus(status)
	t.Type = models.TicketType(typ)
	t.Description = d.Description
	if deletedAt.Valid {
		ts := deletedAt.Time
		t.DeletedAt = &ts
	}
	return &t, nil
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
