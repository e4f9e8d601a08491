package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/issuetracker/internal/common"
	"github.com/dmitrijs2005/issuetracker/internal/server/models"
	"github.com/dmitrijs2005/issuetracker/internal/server/permissions"
	"github.com/google/uuid"
)

type credentialRepo struct{ s *Store }

func (r credentialRepo) Create(_ context.Context, c *models.Credential) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.credentials {
		if existing.Email == c.Email {
			return fmt.Errorf("%w: %w", common.ErrConflict, common.ErrEmailAlreadyRegistered)
		}
	}
	r.s.data.credentials[c.ID] = *c
	return nil
}

func (r credentialRepo) GetByEmail(_ context.Context, email string) (*models.Credential, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.data.credentials {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r credentialRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Credential, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.data.credentials[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &c, nil
}

func (r credentialRepo) UpdatePermissions(_ context.Context, id uuid.UUID, v permissions.Vector) (*models.Credential, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.data.credentials[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c.Permissions = v
	r.s.data.credentials[id] = c
	return &c, nil
}

type tokenRepo struct{ s *Store }

func (r tokenRepo) Create(_ context.Context, t *models.Token) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *t
	// stored in whole seconds, like expire_after_seconds
	stored.ExpireAfter = t.ExpireAfter.Truncate(time.Second)
	r.s.data.tokens[t.ID] = stored
	return nil
}

func (r tokenRepo) Get(_ context.Context, id uuid.UUID) (*models.Token, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.data.tokens[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &t, nil
}

func (r tokenRepo) Revoke(_ context.Context, id uuid.UUID, at time.Time) (*models.Token, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.data.tokens[id]
	if !ok || t.State != models.TokenActive {
		return nil, common.ErrNotFound
	}
	t.State = models.TokenRevoked
	t.RevokedAt = &at
	r.s.data.tokens[id] = t
	return &t, nil
}

type productRepo struct{ s *Store }

func (r productRepo) Create(_ context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTaken(p.ID, p.Name) {
		return fmt.Errorf("%w: %w", common.ErrConflict, common.ErrNameAlreadyTaken)
	}
	r.s.data.products[p.ID] = *p
	return nil
}

// nameTaken mirrors the unique constraint, which also covers deleted rows.
func (r productRepo) nameTaken(self uuid.UUID, name string) bool {
	for id, existing := range r.s.data.products {
		if id != self && existing.Name == name {
			return true
		}
	}
	return false
}

func (r productRepo) List(context.Context) ([]*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Product
	for _, p := range r.s.data.products {
		if !p.Deleted {
			out = append(out, &p)
		}
	}
	slices.SortFunc(out, func(a, b *models.Product) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (r productRepo) Get(_ context.Context, id uuid.UUID) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.products[id]
	if !ok || p.Deleted {
		return nil, common.ErrNotFound
	}
	return &p, nil
}

func (r productRepo) Update(_ context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.data.products[p.ID]
	if !ok || cur.Deleted {
		return common.ErrNotFound
	}
	if r.nameTaken(p.ID, p.Name) {
		return fmt.Errorf("%w: %w", common.ErrConflict, common.ErrNameAlreadyTaken)
	}
	cur.Name, cur.Type, cur.OwnerEmail = p.Name, p.Type, p.OwnerEmail
	r.s.data.products[p.ID] = cur
	return nil
}

func (r productRepo) SoftDelete(_ context.Context, id uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.products[id]
	if !ok || p.Deleted {
		return common.ErrNotFound
	}
	p.MarkDeleted(at)
	r.s.data.products[id] = p
	return nil
}

type ticketRepo struct{ s *Store }

func (r ticketRepo) Create(_ context.Context, t *models.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.tickets[t.ID] = *t
	return nil
}

func (r ticketRepo) List(context.Context) ([]*models.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Ticket
	for _, t := range r.s.data.tickets {
		if !t.Deleted {
			out = append(out, &t)
		}
	}
	slices.SortFunc(out, func(a, b *models.Ticket) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (r ticketRepo) Get(_ context.Context, id uuid.UUID) (*models.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.data.tickets[id]
	if !ok || t.Deleted {
		return nil, common.ErrNotFound
	}
	return &t, nil
}

func (r ticketRepo) Update(_ context.Context, t *models.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.data.tickets[t.ID]
	if !ok || cur.Deleted {
		return common.ErrNotFound
	}
	cur.Status, cur.Type, cur.Description = t.Status, t.Type, t.Description
	r.s.data.tickets[t.ID] = cur
	return nil
}

func (r ticketRepo) SoftDelete(_ context.Context, id uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.data.tickets[id]
	if !ok || t.Deleted {
		return common.ErrNotFound
	}
	t.MarkDeleted(at)
	r.s.data.tickets[id] = t
	return nil
}
