package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/issuetracker/internal/clock"
	"github.com/dmitrijs2005/issuetracker/internal/common"
	"github.com/dmitrijs2005/issuetracker/internal/dbx"
	"github.com/dmitrijs2005/issuetracker/internal/server/config"
	"github.com/dmitrijs2005/issuetracker/internal/server/models"
	"github.com/dmitrijs2005/issuetracker/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TokenService issues, resolves, validates and revokes opaque bearer tokens.
// Validity is never cached: every check reads the stored state.
type TokenService struct {
	tx          dbx.Transactor
	repomanager repomanager.RepositoryManager
	clock       clock.Clock
	lifetime    time.Duration
}

// NewTokenService constructs a TokenService. Lifetimes are stored in whole
// seconds; anything shorter than a second falls back to the default.
func NewTokenService(tx dbx.Transactor, m repomanager.RepositoryManager, clk clock.Clock, cfg *config.Config) *TokenService {
	lifetime := cfg.TokenValidityDuration.Truncate(time.Second)
	if lifetime < time.Second {
		lifetime = models.DefaultTokenLifetime
	}
	return &TokenService{
		tx:          tx,
		repomanager: m,
		clock:       clk,
		lifetime:    lifetime,
	}
}

// Lifetime returns the ExpireAfter given to newly issued tokens.
func (s *TokenService) Lifetime() time.Duration { return s.lifetime }

// Issue creates a new active token for ownerID using db, so callers can
// issue inside their own transaction.
func (s *TokenService) Issue(ctx context.Context, db dbx.DBTX, ownerID uuid.UUID, kind models.TokenKind) (*models.Token, error) {
	tok := &models.Token{
		Entity:       models.NewEntity(s.clock.Now()),
		CredentialID: ownerID,
		Kind:         kind,
		ExpireAfter:  s.lifetime,
		State:        models.TokenActive,
	}
	if err := s.repomanager.Tokens(db).Create(ctx, tok); err != nil {
		return nil, internalErr("issue token", err)
	}
	return tok, nil
}

// ParseTokenID parses a bearer value. Anything that is not a UUID is a
// common.ErrMalformedIdentifier.
func ParseTokenID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: token is not a valid uuid", common.ErrMalformedIdentifier)
	}
	return id, nil
}

// Resolve looks up the stored token for a raw bearer value, in any state.
func (s *TokenService) Resolve(ctx context.Context, raw string) (*models.Token, error) {
	id, err := ParseTokenID(raw)
	if err != nil {
		return nil, err
	}
	tok, err := s.repomanager.Tokens(s.tx.Conn()).Get(ctx, id)
	if err != nil {
		return nil, internalErr("resolve token", err)
	}
	return tok, nil
}

// IsValid reports whether tok is active and unexpired right now.
func (s *TokenService) IsValid(tok *models.Token) bool {
	return tok != nil && tok.ValidAt(s.clock.Now())
}

// Revoke invalidates the token immediately. Revoking an already revoked
// token returns it unchanged, keeping the first RevokedAt.
func (s *TokenService) Revoke(ctx context.Context, id uuid.UUID) (*models.Token, error) {
	var out *models.Token
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tokens(tx)

		tok, err := repo.Revoke(ctx, id, s.clock.Now())
		if errors.Is(err, common.ErrNotFound) {
			// either already revoked or unknown
			tok, err = repo.Get(ctx, id)
		}
		if err != nil {
			return internalErr("revoke token", err)
		}
		out = tok
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
