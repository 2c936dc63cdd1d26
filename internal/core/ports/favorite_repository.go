package ports

import (
	"context"

	"github.com/bookshelf/catalog-api/internal/core/domain"
)

// FavoriteRepository defines persistence for per-user favorite books.
type FavoriteRepository interface {
	// ListByUser returns favorites newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Favorite, error)
	// Add returns domain.ErrFavoriteExists when the book is already present.
	Add(ctx context.Context, fav *domain.Favorite) (*domain.Favorite, error)
	// Remove returns domain.ErrFavoriteNotFound when nothing was deleted.
	Remove(ctx context.Context, userID, bookID string) error
	Exists(ctx context.Context, userID, bookID string) (bool, error)
	Count(ctx context.Context, userID string) (int64, error)
	DeleteByUser(ctx context.Context, userID string) error
}
