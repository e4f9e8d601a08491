package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/issuetracker/internal/clock"
	"github.com/dmitrijs2005/issuetracker/internal/common"
	"github.com/dmitrijs2005/issuetracker/internal/dbx"
	"github.com/dmitrijs2005/issuetracker/internal/server/models"
	"github.com/dmitrijs2005/issuetracker/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// NewTicket is the input for TicketService.Create.
type NewTicket struct {
	ProductID   uuid.UUID
	Status      string
	Type        string
	Description string
}

// TicketPatch carries the fields of a partial ticket update.
type TicketPatch struct {
	Status      *string
	Type        *string
	Description *string
}

type TicketService struct {
	tx          dbx.Transactor
	repomanager repomanager.RepositoryManager
	clock       clock.Clock
}

func NewTicketService(tx dbx.Transactor, m repomanager.RepositoryManager, clk clock.Clock) *TicketService {
	return &TicketService{tx: tx, repomanager: m, clock: clk}
}

func validateTicket(t *models.Ticket) error {
	if !t.Type.Valid() {
		return invalidInput("invalid type for ticket, must be one of bug, enhancement or feature")
	}
	if !t.Status.Valid() {
		return invalidInput("invalid status for ticket, must be one of select_dev, in_progress or done")
	}
	if t.Description == "" {
		return invalidInput("please provide description for the ticket")
	}
	return nil
}

// Create files a ticket by author against an existing, non-deleted product.
// Status defaults to select_dev and type to bug.
func (s *TicketService) Create(ctx context.Context, author uuid.UUID, in NewTicket) (*models.Ticket, error) {
	if in.Status == "" {
		in.Status = string(models.StatusSelectedForDev)
	}
	if in.Type == "" {
		in.Type = string(models.TicketBug)
	}
	t := &models.Ticket{
		Entity:       models.NewEntity(s.clock.Now()),
		CredentialID: author,
		ProductID:    in.ProductID,
		Status:       models.TicketStatus(in.Status),
		Type:         models.TicketType(in.Type),
		Description:  in.Description,
	}
	if err := validateTicket(t); err != nil {
		return nil, err
	}
	if in.ProductID == uuid.Nil {
		return nil, invalidInput("please provide product uid for which ticket to be created")
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Products(tx).Get(ctx, in.ProductID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("%w: no product found for %s", common.ErrNotFound, in.ProductID)
			}
			return internalErr("get product", err)
		}
		if err := s.repomanager.Tickets(tx).Create(ctx, t); err != nil {
			return internalErr("create ticket", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns all non-deleted tickets.
func (s *TicketService) List(ctx context.Context) ([]*models.Ticket, error) {
	items, err := s.repomanager.Tickets(s.tx.Conn()).List(ctx)
	if err != nil {
		return nil, internalErr("list tickets", err)
	}
	return items, nil
}

func (s *TicketService) Get(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	t, err := s.repomanager.Tickets(s.tx.Conn()).Get(ctx, id)
	if err != nil {
		return nil, internalErr("get ticket", err)
	}
	return t, nil
}

func (s *TicketService) Update(ctx context.Context, id uuid.UUID, patch TicketPatch) (*models.Ticket, error) {
	var out *models.Ticket
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tickets(tx)

		t, err := repo.Get(ctx, id)
		if err != nil {
			return internalErr("get ticket", err)
		}
		if patch.Status != nil {
			t.Status = models.TicketStatus(*patch.Status)
		}
		if patch.Type != nil {
			t.Type = models.TicketType(*patch.Type)
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if err := validateTicket(t); err != nil {
			return err
		}
		if err := repo.Update(ctx, t); err != nil {
			return internalErr("update ticket", err)
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *TicketService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repomanager.Tickets(s.tx.Conn()).SoftDelete(ctx, id, s.clock.Now()); err != nil {
		return internalErr("delete ticket", err)
	}
	return nil
}
