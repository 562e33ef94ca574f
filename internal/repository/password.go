package repository

import (
	"crypto/subtle"
	"fmt"

	"github.com/matthewhartstonge/argon2"
)

// PasswordComparer isolates how credential secrets are stored and checked.
// Encode runs once on insert; Matches runs on every verification.
type PasswordComparer interface {
	Encode(secret string) (string, error)
	Matches(stored, secret string) (bool, error)
}

// PlainComparer stores secrets verbatim and compares them byte for byte.
type PlainComparer struct{}

// Encode returns the secret unchanged
func (PlainComparer) Encode(secret string) (string, error) {
	return secret, nil
}

// Matches reports whether secret equals the stored value exactly
func (PlainComparer) Matches(stored, secret string) (bool, error) {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(secret)) == 1, nil
}

// Argon2Comparer stores salted argon2id hashes in encoded form.
type Argon2Comparer struct {
	config argon2.Config
}

// NewArgon2Comparer creates a comparer with the library's default parameters
func NewArgon2Comparer() *Argon2Comparer {
	return &Argon2Comparer{config: argon2.DefaultConfig()}
}

// Encode hashes the secret with a fresh salt
func (c *Argon2Comparer) Encode(secret string) (string, error) {
	encoded, err := c.config.HashEncoded([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(encoded), nil
}

// Matches verifies secret against an encoded hash
func (c *Argon2Comparer) Matches(stored, secret string) (bool, error) {
	ok, err := argon2.VerifyEncoded([]byte(secret), []byte(stored))
	if err != nil {
		return false, fmt.Errorf("verify secret: %w", err)
	}
	return ok, nil
}
