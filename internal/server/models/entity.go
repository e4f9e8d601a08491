// Package models defines server-side data models persisted in the database.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Entity carries the identity and creation time shared by every record.
// Both are assigned once, at creation.
type Entity struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

// NewEntity assigns a random identity stamped at now, truncated to the
// microsecond precision of timestamptz.
func NewEntity(now time.Time) Entity {
	return Entity{ID: uuid.New(), CreatedAt: now.UTC().Truncate(time.Microsecond)}
}

// SoftDelete marks a record inactive instead of removing it.
type SoftDelete struct {
	Deleted   bool
	DeletedAt *time.Time
}

// MarkDeleted flags the record. DeletedAt keeps the first deletion time.
func (s *SoftDelete) MarkDeleted(now time.Time) {
	s.Deleted = true
	if s.DeletedAt == nil {
		t := now
		s.DeletedAt = &t
	}
}
