package rest

import (
	"time"

	"github.com/dmitrijs2005/issuetracker/internal/server/models"
	"github.com/google/uuid"
)

type userView struct {
	UID       uuid.UUID `json:"uid"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionView struct {
	Token uuid.UUID `json:"token"`
	User  userView  `json:"user"`
}

type signOutView struct {
	UID       uuid.UUID  `json:"uid"`
	RevokedAt *time.Time `json:"revoked_at"`
}

type credentialView struct {
	UID         uuid.UUID `json:"uid"`
	CreatedAt   time.Time `json:"created_at"`
	Email       string    `json:"email"`
	Permissions []int     `json:"permissions"`
}

func newCredentialView(c *models.Credential) credentialView {
	bits := c.Permissions.Ints()
	return credentialView{
		UID:         c.ID,
		CreatedAt:   c.CreatedAt,
		Email:       c.Email,
		Permissions: bits[:],
	}
}

type productView struct {
	UID       uuid.UUID `json:"uid"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Email     string    `json:"email"`
}

func newProductView(p *models.Product) productView {
	return productView{
		UID:       p.ID,
		CreatedAt: p.CreatedAt,
		Name:      p.Name,
		Type:      string(p.Type),
		Email:     p.OwnerEmail,
	}
}

type descriptionView struct {
	Description string `json:"description"`
}

type ticketView struct {
	UID         uuid.UUID       `json:"uid"`
	CreatedAt   time.Time       `json:"created_at"`
	Description descriptionView `json:"description"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	ProductUID  uuid.UUID       `json:"product_uid"`
}

func newTicketView(t *models.Ticket) ticketView {
	return ticketView{
		UID:         t.ID,
		CreatedAt:   t.CreatedAt,
		Description: descriptionView{Description: t.Description},
		Type:        string(t.Type),
		Status:      string(t.Status),
		ProductUID:  t.ProductID,
	}
}

func mapViews[T any, V any](items []T, view func(T) V) []V {
	out := make([]V, 0, len(items))
	for _, it := range items {
		out = append(out, view(it))
	}
	return out
}
