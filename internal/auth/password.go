package auth

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 10

// PasswordHasher is the one-way password transform. bcrypt embeds a per-call
// random salt in its output, so hashing the same plaintext twice yields
// different strings.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher builds a hasher with the default work factor.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcryptCost}
}

// Hash derives a salted hash from the plaintext password.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash. A wrong password
// is a false return, never an error.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
