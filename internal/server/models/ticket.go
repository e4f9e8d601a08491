package models

import "github.com/google/uuid"

type TicketType string

const (
	TicketEnhancement TicketType = "enhancement"
	TicketBug         TicketType = "bug"
	TicketFeature     TicketType = "feature"
)

func (t TicketType) Valid() bool {
	switch t {
	case TicketEnhancement, TicketBug, TicketFeature:
		return true
	}
	return false
}

type TicketStatus string

const (
	StatusSelectedForDev TicketStatus = "select_dev"
	StatusInProgress     TicketStatus = "in_progress"
	StatusDone           TicketStatus = "done"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case StatusSelectedForDev, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Ticket is an issue filed against a product by a credential.
type Ticket struct {
	Entity
	SoftDelete
	CredentialID uuid.UUID
	ProductID    uuid.UUID
	Status       TicketStatus
	Type         TicketType
	Description  string
}
