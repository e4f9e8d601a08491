package models

import (
	"time"

	"github.com/google/uuid"
)

// TokenKind tags what a token may be used for.
type TokenKind string

const (
	KindAuthentication TokenKind = "auth_token"
	KindPasswordReset  TokenKind = "password_reset"
)

// TokenState only ever moves from active to revoked.
type TokenState string

const (
	TokenActive  TokenState = "active"
	TokenRevoked TokenState = "revoked"
)

// DefaultTokenLifetime applies when no lifetime is configured.
const DefaultTokenLifetime = 24 * time.Hour

// Token is an opaque, time-boxed, revocable bearer credential. Its ID is
// the bearer value handed to the client.
type Token struct {
	Entity
	CredentialID uuid.UUID
	Kind         TokenKind
	ExpireAfter  time.Duration
	State        TokenState
	RevokedAt    *time.Time
}

// ExpiresAt is the first instant at which the token is no longer valid.
func (t *Token) ExpiresAt() time.Time {
	return t.CreatedAt.Add(t.ExpireAfter)
}

// Revoked reports whether the token has been revoked.
func (t *Token) Revoked() bool {
	return t.State == TokenRevoked
}

// ValidAt reports whether the token can authenticate a request at now.
func (t *Token) ValidAt(now time.Time) bool {
	return !t.Revoked() && now.Before(t.ExpiresAt())
}
