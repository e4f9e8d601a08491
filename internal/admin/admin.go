// Package admin implements the issuectl administration commands.
package admin

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/issuetracker/internal/logging"
	"github.com/dmitrijs2005/issuetracker/internal/server"
	"github.com/dmitrijs2005/issuetracker/internal/server/config"
	"github.com/dmitrijs2005/issuetracker/internal/server/rest"
	"golang.org/x/term"
)

// Env is an opened database with the services built over it.
type Env struct {
	Services rest.Services
	Close    func() error
}

// Opener connects to the database named by dsn.
type Opener func(ctx context.Context, dsn string) (*Env, error)

// OpenPostgres connects to Postgres, migrates it and builds the services.
func OpenPostgres(ctx context.Context, dsn string) (*Env, error) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	logger, err := logging.New(cfg.LogBackend, os.Stderr)
	if err != nil {
		return nil, err
	}

	db, m, err := server.OpenDatabase(ctx, dsn)
	if err != nil {
		return nil, err
	}

	svc, err := server.NewServices(db, m, cfg, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Env{Services: svc, Close: db.Close}, nil
}

// PasswordReader reads a password from the operator.
type PasswordReader func(in io.Reader, out io.Writer) (string, error)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// PromptPassword reads without echo when stdin is a terminal and falls back
// to a single line otherwise.
func PromptPassword(in io.Reader, out io.Writer) (string, error) {
	if _, err := fmt.Fprint(out, "Enter password: "); err != nil {
		return "", err
	}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pw, err := readPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		defer clear(pw)
		return string(pw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
