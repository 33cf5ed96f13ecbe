package hash

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPassword marks passwords the hasher refuses to process.
var ErrInvalidPassword = errors.New("invalid password")

// bcrypt silently truncates longer inputs, so reject them instead.
const maxPasswordBytes = 72

// Hasher wraps bcrypt with a configurable cost.
type Hasher struct {
	cost int
}

// New returns a Hasher with the given bcrypt cost; values outside the
// supported range fall back to bcrypt.DefaultCost.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted one-way hash of the plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if strings.TrimSpace(plaintext) == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPassword)
	}
	if len(plaintext) > maxPasswordBytes {
		return "", fmt.Errorf("%w: longer than %d bytes", ErrInvalidPassword, maxPasswordBytes)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash. The comparison
// runs against the stored hash, never against a fresh hash of the input;
// malformed hashes simply fail the check.
func (h *Hasher) Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
