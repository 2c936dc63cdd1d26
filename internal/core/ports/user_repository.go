package ports

import (
	"context"

	"github.com/bookshelf/catalog-api/internal/core/domain"
)

// UserFinder looks up a single user by username. It returns
// domain.ErrUserNotFound when no such user exists.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	UserFinder
	// Save inserts the user when ID is empty and updates it otherwise.
	// Inserting a taken username returns domain.ErrUserExists.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]*domain.User, error)
}

// UserCache drops cached identity data for a username after a mutation.
type UserCache interface {
	Invalidate(ctx context.Context, username string) error
}
