package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/issuetracker/internal/clock"
	"github.com/dmitrijs2005/issuetracker/internal/common"
	"github.com/dmitrijs2005/issuetracker/internal/dbx"
	"github.com/dmitrijs2005/issuetracker/internal/server/models"
	"github.com/dmitrijs2005/issuetracker/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	minProductName = 3
	maxProductName = 20
)

// ProductPatch carries the fields of a partial product update. Nil fields
// are left unchanged.
type ProductPatch struct {
	Name       *string
	Type       *string
	OwnerEmail *string
}

type ProductService struct {
	tx          dbx.Transactor
	repomanager repomanager.RepositoryManager
	clock       clock.Clock
}

func NewProductService(tx dbx.Transactor, m repomanager.RepositoryManager, clk clock.Clock) *ProductService {
	return &ProductService{tx: tx, repomanager: m, clock: clk}
}

func validateProduct(p *models.Product) error {
	if n := utf8.RuneCountInString(p.Name); n < minProductName || n > maxProductName {
		return invalidInput("invalid name, %d to %d characters required", minProductName, maxProductName)
	}
	if !p.Type.Valid() {
		return invalidInput("invalid type, must be one of health_care, banking or others")
	}
	if !validEmail(p.OwnerEmail) {
		return invalidInput("invalid owner's email")
	}
	return nil
}

// Create validates and stores a new product. Names are unique; an empty
// type means others.
func (s *ProductService) Create(ctx context.Context, name, typ, ownerEmail string) (*models.Product, error) {
	if typ == "" {
		typ = string(models.ProductOthers)
	}
	p := &models.Product{
		Entity:     models.NewEntity(s.clock.Now()),
		Name:       name,
		Type:       models.ProductType(typ),
		OwnerEmail: ownerEmail,
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.repomanager.Products(s.tx.Conn()).Create(ctx, p); err != nil {
		return nil, internalErr("create product", err)
	}
	return p, nil
}

// List returns all non-deleted products.
func (s *ProductService) List(ctx context.Context) ([]*models.Product, error) {
	items, err := s.repomanager.Products(s.tx.Conn()).List(ctx)
	if err != nil {
		return nil, internalErr("list products", err)
	}
	return items, nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.repomanager.Products(s.tx.Conn()).Get(ctx, id)
	if err != nil {
		return nil, internalErr("get product", err)
	}
	return p, nil
}

// Update applies patch to a non-deleted product and validates the result
// before writing.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, patch ProductPatch) (*models.Product, error) {
	var out *models.Product
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Products(tx)

		p, err := repo.Get(ctx, id)
		if err != nil {
			return internalErr("get product", err)
		}
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Type != nil {
			p.Type = models.ProductType(*patch.Type)
		}
		if patch.OwnerEmail != nil {
			p.OwnerEmail = *patch.OwnerEmail
		}
		if err := validateProduct(p); err != nil {
			return err
		}
		if err := repo.Update(ctx, p); err != nil {
			return internalErr("update product", err)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete soft-deletes the product; it disappears from every read.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repomanager.Products(s.tx.Conn()).SoftDelete(ctx, id, s.clock.Now()); err != nil {
		return internalErr("delete product", err)
	}
	return nil
}

// ParseUID parses a path or body identifier.
func ParseUID(what, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad %s format", common.ErrMalformedIdentifier, what)
	}
	return id, nil
}
