package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/issuetracker/internal/common"
	"github.com/dmitrijs2005/issuetracker/internal/dbx"
	"github.com/dmitrijs2005/issuetracker/internal/logging"
	"github.com/dmitrijs2005/issuetracker/internal/server/models"
	"github.com/dmitrijs2005/issuetracker/internal/server/permissions"
	"github.com/dmitrijs2005/issuetracker/internal/server/repositories/repomanager"
)

// AuthResult is the identity behind an authorized request.
type AuthResult struct {
	Credential *models.Credential
	Token      *models.Token
}

// Authorizer turns an Authorization header into an authenticated identity
// and, optionally, checks one permission bit.
type Authorizer struct {
	tx          dbx.Transactor
	repomanager repomanager.RepositoryManager
	tokens      *TokenService
	log         logging.Logger
}

func NewAuthorizer(tx dbx.Transactor, m repomanager.RepositoryManager, tokens *TokenService, log logging.Logger) *Authorizer {
	return &Authorizer{
		tx:          tx,
		repomanager: m,
		tokens:      tokens,
		log:         log.With("module", "authorizer"),
	}
}

// BearerToken extracts the token from "Bearer <token>". The scheme is
// case-sensitive.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != common.BearerScheme {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func forbidden(cause error) error {
	return fmt.Errorf("%w: %w", common.ErrForbidden, cause)
}

// Authorize validates the bearer token in header and, when required is
// non-nil, the matching permission bit. Clients only learn the error
// class; the precise reason is logged.
func (a *Authorizer) Authorize(ctx context.Context, header string, required *permissions.Action) (*AuthResult, error) {
	raw, ok := BearerToken(header)
	if !ok {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, common.ErrMissingToken)
	}

	tok, err := a.tokens.Resolve(ctx, raw)
	switch {
	case errors.Is(err, common.ErrNotFound):
		a.deny(ctx, "unknown token")
		return nil, forbidden(common.ErrTokenInvalid)
	case err != nil:
		return nil, err
	}

	switch {
	case tok.Kind != models.KindAuthentication:
		a.deny(ctx, "wrong token kind", "token_id", tok.ID, "kind", tok.Kind)
		return nil, forbidden(common.ErrTokenInvalid)
	case tok.Revoked():
		a.deny(ctx, "token revoked", "token_id", tok.ID)
		return nil, forbidden(common.ErrTokenInvalid)
	case !a.tokens.IsValid(tok):
		a.deny(ctx, "token expired", "token_id", tok.ID, "expired_at", tok.ExpiresAt())
		return nil, forbidden(common.ErrTokenInvalid)
	}

	cred, err := a.repomanager.Credentials(a.tx.Conn()).GetByID(ctx, tok.CredentialID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			a.deny(ctx, "token owner missing", "token_id", tok.ID)
			return nil, forbidden(common.ErrTokenInvalid)
		}
		return nil, internalErr("load credential", err)
	}

	if required != nil && !permissions.Can(cred, *required) {
		a.deny(ctx, "permission denied", "credential_id", cred.ID, "action", required.String(),
			"permissions", cred.Permissions.String())
		return nil, forbidden(common.ErrPermissionDenied)
	}

	return &AuthResult{Credential: cred, Token: tok}, nil
}

func (a *Authorizer) deny(ctx context.Context, reason string, args ...any) {
	a.log.Warn(ctx, "authorization denied", append([]any{"reason", reason}, args...)...)
}
