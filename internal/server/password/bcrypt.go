// Package password hashes and verifies credential passwords.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher is a salted one-way password hash with a constant-time verifier.
type Hasher interface {
	Hash(plaintext string) ([]byte, error)
	Verify(plaintext string, hash []byte) bool
}

// Bcrypt implements Hasher. Every Hash call draws a fresh salt, which is
// embedded in the 60-byte output.
type Bcrypt struct {
	cost int
}

// NewBcrypt validates cost against the bcrypt limits.
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be in [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	return &Bcrypt{cost: cost}, nil
}

func (b *Bcrypt) Hash(plaintext string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// Verify reports whether plaintext matches hash. A malformed hash is a
// mismatch, not an error.
func (b *Bcrypt) Verify(plaintext string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plaintext)) == nil
}

// Cost returns the configured work factor.
func (b *Bcrypt) Cost() int {
	return b.cost
}
