package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/issuetracker/internal/clock"
	"github.com/dmitrijs2005/issuetracker/internal/dbx"
	"github.com/dmitrijs2005/issuetracker/internal/logging"
	"github.com/dmitrijs2005/issuetracker/internal/server/config"
	"github.com/dmitrijs2005/issuetracker/internal/server/models"
	"github.com/dmitrijs2005/issuetracker/internal/server/password"
	"github.com/dmitrijs2005/issuetracker/internal/server/permissions"
	"github.com/dmitrijs2005/issuetracker/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/issuetracker/internal/server/repositories/memory"
	"github.com/dmitrijs2005/issuetracker/internal/server/repositories/tokens"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeRepoManager wraps the in-memory manager to count writes and inject
// token store failures.
type fakeRepoManager struct {
	*memory.RepositoryManager

	mu           sync.Mutex
	tokenErr     error
	tokenWrites  int
	permsUpdates int
}

func (m *fakeRepoManager) Tokens(db dbx.DBTX) tokens.Repository {
	return &countingTokens{Repository: m.RepositoryManager.Tokens(db), m: m}
}

func (m *fakeRepoManager) Credentials(db dbx.DBTX) credentials.Repository {
	return &countingCredentials{Repository: m.RepositoryManager.Credentials(db), m: m}
}

type countingTokens struct {
	tokens.Repository
	m *fakeRepoManager
}

func (r *countingTokens) Create(ctx context.Context, t *models.Token) error {
	r.m.mu.Lock()
	err := r.m.tokenErr
	if err == nil {
		r.m.tokenWrites++
	}
	r.m.mu.Unlock()
	if err != nil {
		return err
	}
	return r.Repository.Create(ctx, t)
}

type countingCredentials struct {
	credentials.Repository
	m *fakeRepoManager
}

func (r *countingCredentials) UpdatePermissions(ctx context.Context, id uuid.UUID, v permissions.Vector) (*models.Credential, error) {
	r.m.mu.Lock()
	r.m.permsUpdates++
	r.m.mu.Unlock()
	return r.Repository.UpdatePermissions(ctx, id, v)
}

// countingTx delegates to another Transactor and counts outcomes.
type countingTx struct {
	dbx.Transactor
	commits   int
	rollbacks int
}

func (c *countingTx) WithTx(ctx context.Context, fn dbx.TxFunc) error {
	err := c.Transactor.WithTx(ctx, fn)
	if err != nil {
		c.rollbacks++
	} else {
		c.commits++
	}
	return err
}

// --- fixture ---

type fixture struct {
	store       *memory.Store
	repos       *fakeRepoManager
	tx          *countingTx
	clock       *clock.FakeClock
	tokens      *TokenService
	credentials *CredentialService
	authorizer  *Authorizer
	products    *ProductService
	tickets     *TicketService
}

// newFixtureWithTx uses tx for transaction scopes; nil means the in-memory
// transactor.
func newFixtureWithTx(t *testing.T, tx dbx.Transactor) *fixture {
	t.Helper()

	hasher, err := password.NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)

	store, mem, memTx := memory.New()
	if tx == nil {
		tx = memTx
	}
	counting := &countingTx{Transactor: tx}
	rm := &fakeRepoManager{RepositoryManager: mem}
	clk := clock.Fake(t0)
	cfg := &config.Config{TokenValidityDuration: 24 * time.Hour}
	log := logging.Nop{}

	tokenSvc := NewTokenService(counting, rm, clk, cfg)
	return &fixture{
		store:       store,
		repos:       rm,
		tx:          counting,
		clock:       clk,
		tokens:      tokenSvc,
		credentials: NewCredentialService(counting, rm, hasher, tokenSvc, clk, log),
		authorizer:  NewAuthorizer(counting, rm, tokenSvc, log),
		products:    NewProductService(counting, rm, clk),
		tickets:     NewTicketService(counting, rm, clk),
	}
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithTx(t, nil)
}

func (f *fixture) signup(t *testing.T, email string) *Session {
	t.Helper()
	s, err := f.credentials.Signup(context.Background(), email, "secret1")
	require.NoError(t, err)
	return s
}

func (f *fixture) storedCredential(t *testing.T, id uuid.UUID) *models.Credential {
	t.Helper()
	c, err := f.repos.RepositoryManager.Credentials(nil).GetByID(context.Background(), id)
	require.NoError(t, err)
	return c
}

func bearer(tok *models.Token) string {
	return "Bearer " + tok.ID.String()
}
