package models

import (
	"github.com/dmitrijs2005/issuetracker/internal/server/permissions"
)

// Credential is a registered user's authentication identity.
type Credential struct {
	Entity
	Email        string
	PasswordHash []byte
	Permissions  permissions.Vector
}

// PermissionVector implements permissions.Holder. A nil credential has no
// permissions.
func (c *Credential) PermissionVector() permissions.Vector {
	if c == nil {
		return 0
	}
	return c.Permissions
}
