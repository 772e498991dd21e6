// Package password hashes and verifies secrets with bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	internal_errors "github.com/medina-starter/accounts/shared/errors"
)

// ErrMismatch is returned by Compare when the secret does not match the hash.
var ErrMismatch = errors.New("password mismatch")

// MaxBytes is the longest secret bcrypt accepts.
const MaxBytes = 72

type Bcrypt struct {
	cost int
}

// New returns a bcrypt hasher. A cost outside bcrypt's bounds falls back to
// bcrypt.DefaultCost.
func New(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), b.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", internal_errors.Wrap(internal_errors.KindBadRequest, "Password is too long", err)
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (b *Bcrypt) Compare(hash, secret string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	if err != nil {
		return fmt.Errorf("failed to compare password: %w", err)
	}
	return nil
}
