package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor used in production. Cost 12 takes
// roughly 250ms per hash on current server hardware.
const defaultCost = 12

// maxPasswordBytes is bcrypt's input limit. Longer inputs are rejected
// instead of being silently truncated.
const maxPasswordBytes = 72

var (
	// ErrPasswordMismatch is returned by Verify when the password is wrong.
	ErrPasswordMismatch = errors.New("auth: invalid password")

	ErrPasswordTooLong = errors.New("auth: password must be 72 bytes or fewer")
)

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so the cost can be lowered in tests.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost (12).
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceWithCost creates a PasswordService with a custom cost.
// Tests in other packages pass bcrypt.MinCost (4) to keep them fast.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt. The result embeds
// the salt and cost and is stored as-is in users.hashed_password.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether plaintext matches a stored bcrypt hash.
//
// A wrong password yields ErrPasswordMismatch; a malformed hash yields a
// different error so callers can tell bad input from corrupt data.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
