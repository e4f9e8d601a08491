// Package memory provides an in-process RepositoryManager and Transactor.
// Transactions are serialized and roll back by restoring a snapshot, so
// tests observe the same all-or-nothing behaviour as PostgreSQL.
package memory

import (
	"context"
	"database/sql"
	"maps"
	"sync"

	"github.com/dmitrijs2005/issuetracker/internal/dbx"
	"github.com/dmitrijs2005/issuetracker/internal/server/models"
	"github.com/dmitrijs2005/issuetracker/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/issuetracker/internal/server/repositories/products"
	"github.com/dmitrijs2005/issuetracker/internal/server/repositories/tickets"
	"github.com/dmitrijs2005/issuetracker/internal/server/repositories/tokens"
	"github.com/google/uuid"
)

// Store holds every table. The zero value is not usable; call NewStore.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data tables
}

type tables struct {
	credentials map[uuid.UUID]models.Credential
	tokens      map[uuid.UUID]models.Token
	products    map[uuid.UUID]models.Product
	tickets     map[uuid.UUID]models.Ticket
}

func (t tables) clone() tables {
	return tables{
		credentials: maps.Clone(t.credentials),
		tokens:      maps.Clone(t.tokens),
		products:    maps.Clone(t.products),
		tickets:     maps.Clone(t.tickets),
	}
}

func NewStore() *Store {
	return &Store{data: tables{
		credentials: map[uuid.UUID]models.Credential{},
		tokens:      map[uuid.UUID]models.Token{},
		products:    map[uuid.UUID]models.Product{},
		tickets:     map[uuid.UUID]models.Ticket{},
	}}
}

// Counts is the number of stored rows per table, deleted rows included.
type Counts struct {
	Credentials int
	Tokens      int
	Products    int
	Tickets     int
}

func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counts{
		Credentials: len(s.data.credentials),
		Tokens:      len(s.data.tokens),
		Products:    len(s.data.products),
		Tickets:     len(s.data.tickets),
	}
}

// Transactor implements dbx.Transactor over a Store.
type Transactor struct {
	s *Store
}

// WithTx runs fn exclusively and restores the pre-transaction state when
// fn fails or panics.
func (t *Transactor) WithTx(ctx context.Context, fn dbx.TxFunc) (err error) {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	t.s.mu.Lock()
	snapshot := t.s.data.clone()
	t.s.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			t.s.restore(snapshot)
			panic(p)
		}
		if err != nil {
			t.s.restore(snapshot)
		}
	}()

	return fn(ctx, nil)
}

// Conn returns nil; memory repositories ignore their handle.
func (t *Transactor) Conn() dbx.DBTX { return nil }

func (s *Store) restore(snapshot tables) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = snapshot
}

// RepositoryManager implements repomanager.RepositoryManager over a Store.
type RepositoryManager struct {
	s *Store
}

// New returns a fresh store with its manager and transactor.
func New() (*Store, *RepositoryManager, *Transactor) {
	s := NewStore()
	return s, &RepositoryManager{s: s}, &Transactor{s: s}
}

func (m *RepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *RepositoryManager) Credentials(dbx.DBTX) credentials.Repository {
	return credentialRepo{m.s}
}

func (m *RepositoryManager) Tokens(dbx.DBTX) tokens.Repository {
	return tokenRepo{m.s}
}

func (m *RepositoryManager) Products(dbx.DBTX) products.Repository {
	return productRepo{m.s}
}

func (m *RepositoryManager) Tickets(dbx.DBTX) tickets.Repository {
	return ticketRepo{m.s}
}
