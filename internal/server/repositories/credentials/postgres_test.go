package credentials

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/issuetracker/internal/common"
	"github.com/dmitrijs2005/issuetracker/internal/server/models"
	"github.com/dmitrijs2005/issuetracker/internal/server/permissions"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var (
	credID  = uuid.MustParse("0b7e2a8c-3a0f-4b55-9a55-5a1a3c2e7d01")
	created = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	columns = []string{"id", "email", "password_hash", "permissions", "created_at"}
)

const insertQ = `(?s)^INSERT\s+INTO\s+credentials\s*\(id,\s*email,\s*password_hash,\s*permissions,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4::bit\(4\),\s*\$5\)\s*$`

func newCredential() *models.Credential {
	return &models.Credential{
		Entity:       models.Entity{ID: credID, CreatedAt: created},
		Email:        "a@b.com",
		PasswordHash: []byte("hash"),
		Permissions:  permissions.Default,
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).
		WithArgs(credID.String(), "a@b.com", []byte("hash"), "1010", created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), newCredential()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "credentials_email_key"})

	err := repo.Create(context.Background(), newCredential())
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.ErrorIs(t, err, common.ErrEmailAlreadyRegistered)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), newCredential())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	assert.NotErrorIs(t, err, common.ErrConflict)
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*permissions::text,\s*created_at\s+FROM\s+credentials\s+WHERE\s+email\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(credID.String(), "a@b.com", []byte("hash"), "1010", created))

	got, err := repo.GetByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, credID, got.ID)
	assert.Equal(t, "a@b.com", got.Email)
	assert.Equal(t, permissions.Default, got.Permissions)
	assert.Equal(t, created, got.CreatedAt)
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+credentials`).
		WithArgs("ghost@b.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@b.com")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestGetByID_CorruptPermissions(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+credentials\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(credID.String()).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(credID.String(), "a@b.com", []byte("hash"), "10", created))

	_, err := repo.GetByID(context.Background(), credID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stored permissions")
}

func TestUpdatePermissions_ReturnsStoredRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+credentials\s+SET\s+permissions\s*=\s*\$2::bit\(4\)\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+id,\s*email,\s*password_hash,\s*permissions::text,\s*created_at$`
	mock.ExpectQuery(q).
		WithArgs(credID.String(), "0110").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(credID.String(), "a@b.com", []byte("hash"), "0110", created))

	v, err := permissions.ParseVector("0110")
	require.NoError(t, err)

	got, err := repo.UpdatePermissions(context.Background(), credID, v)
	require.NoError(t, err)
	assert.Equal(t, "0110", got.Permissions.String())
	assert.True(t, got.Permissions.Has(permissions.Edit))
	assert.False(t, got.Permissions.Has(permissions.Create))
}

func TestUpdatePermissions_UnknownID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE\s+credentials`).WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdatePermissions(context.Background(), credID, permissions.Default)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
