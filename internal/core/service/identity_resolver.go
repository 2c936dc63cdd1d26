package service

import (
	"context"
	"fmt"

	"github.com/bookshelf/catalog-api/internal/core/domain"
	"github.com/bookshelf/catalog-api/internal/core/ports"
)

// IdentityResolver maps a bearer token to the identity of a stored user.
// The role always comes from storage, never from the token.
type IdentityResolver struct {
	codec *TokenCodec
	users ports.UserFinder
}

func NewIdentityResolver(codec *TokenCodec, users ports.UserFinder) *IdentityResolver {
	return &IdentityResolver{codec: codec, users: users}
}

// Resolve fails with the codec's decode error, domain.ErrUserNotFound when
// the subject is unknown, or domain.ErrTokenExpired.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := r.codec.Decode(token)
	if err != nil {
		return domain.Identity{}, err
	}
	if claims.Subject == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing subject", domain.ErrMalformedToken)
	}

	user, err := r.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		return domain.Identity{}, err
	}

	if !r.codec.IsValidFor(token, user.Username) {
		return domain.Identity{}, domain.ErrTokenExpired
	}

	return domain.Identity{Username: user.Username, Role: user.Role}, nil
}
