package ports

import (
	"context"

	"github.com/bookshelf/catalog-api/internal/core/domain"
)

// RegisterInput carries a registration request. Role is optional.
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Country   string
	Role      string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// IdentityResolver turns a bearer token into the identity of a stored user.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (domain.Identity, error)
}
