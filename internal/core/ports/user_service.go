package ports

import (
	"context"

	"github.com/bookshelf/catalog-api/internal/core/domain"
)

// UpdateUserInput holds optional profile changes; nil fields are left as is.
type UpdateUserInput struct {
	Username  *string
	Password  *string
	FirstName *string
	LastName  *string
	Country   *string
	Role      *string
}

type UserService interface {
	Profile(ctx context.Context, username string) (*domain.User, error)
	UpdateSelf(ctx context.Context, username string, input UpdateUserInput) (*domain.User, string, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateByAdmin(ctx context.Context, username string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, username string) error

	SetProfileImage(ctx context.Context, username string, image domain.ProfileImage) error
	ProfileImage(ctx context.Context, username string) (*domain.ProfileImage, error)
	DeleteProfileImage(ctx context.Context, username string) error
}
