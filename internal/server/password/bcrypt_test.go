package password

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newHasher(t *testing.T) *Bcrypt {
	t.Helper()
	h, err := NewBcrypt(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}
	return h
}

func TestHashAndVerify(t *testing.T) {
	h := newHasher(t)

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if len(hash) != 60 {
		t.Fatalf("expected 60-byte bcrypt hash, got %d", len(hash))
	}
	if !strings.HasPrefix(string(hash), "$2a$04$") {
		t.Fatalf("unexpected hash prefix: %s", hash)
	}
	if !h.Verify("secret1", hash) {
		t.Fatal("expected password verification to succeed")
	}
	if h.Verify("secret2", hash) {
		t.Fatal("expected wrong password verification to fail")
	}
}

func TestHash_FreshSaltPerCall(t *testing.T) {
	h := newHasher(t)

	a, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	b, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	h := newHasher(t)
	if h.Verify("anything", []byte("not-a-bcrypt-hash")) {
		t.Fatal("malformed hash must not verify")
	}
	if h.Verify("anything", nil) {
		t.Fatal("nil hash must not verify")
	}
}

func TestNewBcrypt_RejectsBadCost(t *testing.T) {
	for _, cost := range []int{bcrypt.MinCost - 1, bcrypt.MaxCost + 1} {
		if _, err := NewBcrypt(cost); err == nil {
			t.Fatalf("expected error for cost %d", cost)
		}
	}
	h, err := NewBcrypt(bcrypt.DefaultCost)
	if err != nil || h.Cost() != bcrypt.DefaultCost {
		t.Fatalf("NewBcrypt(default) = %v, %v", h, err)
	}
}
