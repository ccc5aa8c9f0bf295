// Package crypto implements the credential verifier used for user passwords.
package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptVerifier implements domain.CredentialVerifier with bcrypt.
type BcryptVerifier struct {
	cost int
}

// NewBcryptVerifier creates a verifier with the given bcrypt cost.
func NewBcryptVerifier(cost int) *BcryptVerifier {
	return &BcryptVerifier{cost: cost}
}

func (v *BcryptVerifier) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), v.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (v *BcryptVerifier) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
