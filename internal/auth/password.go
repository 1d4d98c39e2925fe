package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// decoySaltAndDigest is a syntactically valid but unusable bcrypt salt+digest.
// Comparing against it runs the full key derivation, so a lookup miss costs
// the same as a wrong password on a real account.
const decoySaltAndDigest = "invalidusernameaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

// PasswordHasher hashes and verifies passwords with bcrypt at a fixed cost.
type PasswordHasher struct {
	cost  int
	decoy string
}

// NewPasswordHasher creates a hasher with the given cost factor. Costs
// outside bcrypt's supported range fall back to the default cost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{
		cost:  cost,
		decoy: fmt.Sprintf("$2a$%02d$%s", cost, decoySaltAndDigest),
	}
}

// Hash returns the salted bcrypt hash of plaintext. The output encodes the
// algorithm version, cost and salt, so verification is self-describing.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash.
func (h *PasswordHasher) Verify(plaintext, hashedValue string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedValue), []byte(plaintext)) == nil
}

// VerifyDecoy compares plaintext against the decoy hash and always reports
// failure. Callers invoke it when no account matched, so response timing
// does not reveal whether an email is registered.
func (h *PasswordHasher) VerifyDecoy(plaintext string) bool {
	_ = bcrypt.CompareHashAndPassword([]byte(h.decoy), []byte(plaintext))
	return false
}
