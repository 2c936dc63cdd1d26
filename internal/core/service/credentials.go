package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/bookshelf/catalog-api/internal/core/domain"
	"github.com/bookshelf/catalog-api/internal/core/ports"
)

// PasswordHasher hashes passwords with bcrypt. Each hash carries its own
// random salt, so hashing the same password twice gives different strings.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using cost, or bcrypt.DefaultCost when
// cost is outside bcrypt's accepted range.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Cost returns the bcrypt work factor.
func (h *PasswordHasher) Cost() int {
	return h.cost
}

func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password must not exceed 72 bytes", domain.ErrInvalidInput)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. A malformed hash is a
// mismatch.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// CredentialVerifier checks a username/password pair against stored users.
type CredentialVerifier struct {
	users  ports.UserFinder
	hasher *PasswordHasher
}

func NewCredentialVerifier(users ports.UserFinder, hasher *PasswordHasher) *CredentialVerifier {
	return &CredentialVerifier{users: users, hasher: hasher}
}

// Authenticate returns the stored user when password matches, otherwise
// domain.ErrUserNotFound or domain.ErrBadCredentials.
func (v *CredentialVerifier) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := v.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !v.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrBadCredentials
	}
	return user, nil
}
