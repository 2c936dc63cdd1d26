package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookshelf/catalog-api/internal/core/domain"
	"github.com/bookshelf/catalog-api/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	users    ports.UserRepository
	hasher   *PasswordHasher
	verifier *CredentialVerifier
	codec    *TokenCodec
	log      zerolog.Logger
}

func NewAuthService(users ports.UserRepository, hasher *PasswordHasher, codec *TokenCodec, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		verifier: NewCredentialVerifier(users, hasher),
		codec:    codec,
		log:      log,
	}
}

// Register creates a user and returns a token for it.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return "", fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	_, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return "", domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return "", fmt.Errorf("register: %w", err)
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return "", err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	user, err := s.users.Save(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Country:      strings.TrimSpace(in.Country),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return "", err
	}

	s.log.Info().Str("username", user.Username).Str("role", user.Role.String()).Msg("user registered")
	return s.codec.Encode(user.Username, nil, 0)
}

// Login verifies credentials and returns a fresh token. No token is issued on
// any failure.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.verifier.Authenticate(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return "", err
	}
	return s.codec.Encode(user.Username, nil, 0)
}

// EnsureAdmin creates an administrator account unless username is taken. It
// reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, fmt.Errorf("seed admin: %w", err)
	}

	_, err = s.Register(ctx, ports.RegisterInput{
		Username:  username,
		Password:  password,
		FirstName: "super",
		LastName:  "user",
		Country:   "not defined",
		Role:      domain.RoleAdmin.String(),
	})
	if errors.Is(err, domain.ErrUserExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
