// Package credential hashes and verifies account passwords with bcrypt.
package credential

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned by Verify when the password does not match the hash.
var ErrMismatch = errors.New("credential: password mismatch")

// Hash returns the bcrypt hash of password at the default cost.
func Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("credential: empty password")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("credential: hash: %w", err)
	}
	return string(h), nil
}

// Verify checks password against a hash produced by Hash.
func Verify(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("credential: verify: %w", err)
	}
	return nil
}
