package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookshelf/catalog-api/internal/core/domain"
)

func TestIdentityResolver_Resolve(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()
	codec := newTestCodec(t, &now)
	repo := newStubUserRepo()
	_, _ = repo.Save(context.Background(), &domain.User{Username: "alice", Role: domain.RoleAdmin})

	resolver := NewIdentityResolver(codec, repo)
	token, _ := codec.Encode("alice", map[string]any{"role": "ROLE_USER"}, time.Hour)

	id, err := resolver.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// role comes from storage, not from the token's extra claims
	if id.Username != "alice" || id.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestIdentityResolver_Errors(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()
	codec := newTestCodec(t, &now)
	repo := newStubUserRepo()
	_, _ = repo.Save(context.Background(), &domain.User{Username: "alice", Role: domain.RoleUser})
	resolver := NewIdentityResolver(codec, repo)

	ghost, _ := codec.Encode("ghost", nil, time.Hour)
	noSubject, _ := codec.Encode("", nil, time.Hour)
	expired, _ := codec.Encode("alice", nil, time.Minute)

	other, _ := NewTokenCodec([]byte("ffffffffffffffffffffffffffffffff"), time.Hour)
	forged, _ := other.Encode("alice", nil, time.Hour)

	now = now.Add(5 * time.Minute)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "garbage", domain.ErrMalformedToken},
		{"forged", forged, domain.ErrInvalidSignature},
		{"missing subject", noSubject, domain.ErrMalformedToken},
		{"unknown user", ghost, domain.ErrUserNotFound},
		{"expired", expired, domain.ErrTokenExpired},
	}
	for _, tt := range tests {
		_, err := resolver.Resolve(context.Background(), tt.token)
		if !errors.Is(err, tt.want) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
}
