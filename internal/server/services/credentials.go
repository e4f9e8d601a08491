package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/issuetracker/internal/clock"
	"github.com/dmitrijs2005/issuetracker/internal/common"
	"github.com/dmitrijs2005/issuetracker/internal/dbx"
	"github.com/dmitrijs2005/issuetracker/internal/logging"
	"github.com/dmitrijs2005/issuetracker/internal/server/models"
	"github.com/dmitrijs2005/issuetracker/internal/server/password"
	"github.com/dmitrijs2005/issuetracker/internal/server/permissions"
	"github.com/dmitrijs2005/issuetracker/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	minPasswordLen = 6
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLen = 72
)

// Session is the outcome of a successful signup or login.
type Session struct {
	Credential *models.Credential
	Token      *models.Token
}

// CredentialService registers credentials, checks passwords, manages the
// permission vector, and opens sessions.
type CredentialService struct {
	tx          dbx.Transactor
	repomanager repomanager.RepositoryManager
	hasher      password.Hasher
	tokens      *TokenService
	clock       clock.Clock
	log         logging.Logger
}

func NewCredentialService(
	tx dbx.Transactor,
	m repomanager.RepositoryManager,
	hasher password.Hasher,
	tokens *TokenService,
	clk clock.Clock,
	log logging.Logger,
) *CredentialService {
	return &CredentialService{
		tx:          tx,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		clock:       clk,
		log:         log.With("module", "credentials"),
	}
}

func validateSignup(email, pw string) error {
	if !validEmail(email) {
		return invalidInput("invalid email")
	}
	if utf8.RuneCountInString(pw) < minPasswordLen {
		return invalidInput("invalid password, min %d characters required", minPasswordLen)
	}
	if len(pw) > maxPasswordLen {
		return invalidInput("invalid password, max %d bytes allowed", maxPasswordLen)
	}
	return nil
}

// Register stores a new credential with the default permission vector.
// The email must not be registered yet, whatever its deletion state.
func (s *CredentialService) Register(ctx context.Context, email, pw string) (*models.Credential, error) {
	return s.RegisterWithPermissions(ctx, email, pw, permissions.Default)
}

// RegisterWithPermissions is Register with an explicit initial vector,
// written by the same insert.
func (s *CredentialService) RegisterWithPermissions(ctx context.Context, email, pw string, v permissions.Vector) (*models.Credential, error) {
	if err := validateSignup(email, pw); err != nil {
		return nil, err
	}

	var cred *models.Credential
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		c, err := s.register(ctx, tx, email, pw, v)
		cred = c
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "credential registered", "credential_id", cred.ID)
	return cred, nil
}

// Signup registers the credential and issues its first authentication
// token in the same transaction.
func (s *CredentialService) Signup(ctx context.Context, email, pw string) (*Session, error) {
	if err := validateSignup(email, pw); err != nil {
		return nil, err
	}

	var session *Session
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		cred, err := s.register(ctx, tx, email, pw, permissions.Default)
		if err != nil {
			return err
		}
		tok, err := s.tokens.Issue(ctx, tx, cred.ID, models.KindAuthentication)
		if err != nil {
			return err
		}
		session = &Session{Credential: cred, Token: tok}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "signed up", "credential_id", session.Credential.ID)
	return session, nil
}

func (s *CredentialService) register(ctx context.Context, tx dbx.DBTX, email, pw string, v permissions.Vector) (*models.Credential, error) {
	repo := s.repomanager.Credentials(tx)

	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %w", common.ErrConflict, common.ErrEmailAlreadyRegistered)
	case !errors.Is(err, common.ErrNotFound):
		return nil, internalErr("lookup credential", err)
	}

	hash, err := s.hasher.Hash(pw)
	if err != nil {
		return nil, internalErr("hash password", err)
	}

	cred := &models.Credential{
		Entity:       models.NewEntity(s.clock.Now()),
		Email:        email,
		PasswordHash: hash,
		Permissions:  v,
	}
	if err := repo.Create(ctx, cred); err != nil {
		return nil, internalErr("create credential", err)
	}
	return cred, nil
}

// FindByEmail returns the credential or common.ErrNotFound.
func (s *CredentialService) FindByEmail(ctx context.Context, email string) (*models.Credential, error) {
	cred, err := s.repomanager.Credentials(s.tx.Conn()).GetByEmail(ctx, email)
	if err != nil {
		return nil, internalErr("find credential", err)
	}
	return cred, nil
}

// VerifyPassword reports whether candidate matches the stored hash.
func (s *CredentialService) VerifyPassword(cred *models.Credential, candidate string) bool {
	if cred == nil {
		return false
	}
	return s.hasher.Verify(candidate, cred.PasswordHash)
}

// Login checks the password and issues a fresh token. Unknown email and
// wrong password share common.ErrInvalidCredentials but keep distinct
// causes.
func (s *CredentialService) Login(ctx context.Context, email, pw string) (*Session, error) {
	if email == "" || pw == "" {
		return nil, invalidInput("email and password are required")
	}

	cred, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidCredentials, common.ErrUnknownEmail)
		}
		return nil, err
	}

	if !s.VerifyPassword(cred, pw) {
		s.log.Warn(ctx, "login rejected", "credential_id", cred.ID, "reason", common.ErrPasswordMismatch)
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidCredentials, common.ErrPasswordMismatch)
	}

	tok, err := s.tokens.Issue(ctx, s.tx.Conn(), cred.ID, models.KindAuthentication)
	if err != nil {
		return nil, err
	}
	return &Session{Credential: cred, Token: tok}, nil
}

// SetPermissions normalizes the requested 4-element vector and overwrites
// the stored one. Invalid input writes nothing.
func (s *CredentialService) SetPermissions(ctx context.Context, id uuid.UUID, requested []any) (*models.Credential, error) {
	v, err := permissions.Normalize(requested)
	if err != nil {
		return nil, err
	}
	return s.StorePermissions(ctx, id, v)
}

// StorePermissions overwrites the stored vector in a single statement.
// Concurrent writers resolve last-write-wins.
func (s *CredentialService) StorePermissions(ctx context.Context, id uuid.UUID, v permissions.Vector) (*models.Credential, error) {
	cred, err := s.repomanager.Credentials(s.tx.Conn()).UpdatePermissions(ctx, id, v)
	if err != nil {
		return nil, internalErr("update permissions", err)
	}
	s.log.Info(ctx, "permissions updated", "credential_id", id, "permissions", v.String())
	return cred, nil
}
