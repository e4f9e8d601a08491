// Package services contains the server-side business logic: credentials,
// bearer tokens, authorization, products and tickets. Every error returned
// from this package wraps exactly one class from internal/common.
package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/issuetracker/internal/common"
)

var errorClasses = []error{
	common.ErrInvalidInput,
	common.ErrConflict,
	common.ErrUnauthenticated,
	common.ErrMalformedIdentifier,
	common.ErrForbidden,
	common.ErrNotFound,
	common.ErrInvalidCredentials,
	common.ErrInternal,
}

// internalErr passes classified errors through and wraps everything else,
// typically driver failures, in common.ErrInternal.
func internalErr(op string, err error) error {
	for _, class := range errorClasses {
		if errors.Is(err, class) {
			return err
		}
	}
	return fmt.Errorf("%w: %s: %w", common.ErrInternal, op, err)
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// validEmail accepts a bare addr-spec such as "a@b.com". Display names and
// angle brackets are rejected.
func validEmail(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	_, domain, _ := strings.Cut(s, "@")
	return domain != "" && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
