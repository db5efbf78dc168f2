package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/shelterstock/shelterstock/internal/shared"
)

// Hasher hashes and verifies account passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher builds a Hasher. Costs outside bcrypt's range fall back to the default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted digest of plaintext. Two calls never return the same digest.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", shared.Validationf("senha is required")
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", shared.Validationf("senha must be at most 72 bytes")
		}
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether digest was produced from plaintext. A malformed digest
// never matches.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
