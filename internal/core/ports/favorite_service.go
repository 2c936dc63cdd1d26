package ports

import (
	"context"

	"github.com/bookshelf/catalog-api/internal/core/domain"
)

// AddFavoriteInput describes a book to bookmark.
type AddFavoriteInput struct {
	BookID      string
	BookTitle   string
	BookCoverID string
}

type FavoriteService interface {
	List(ctx context.Context, username string) ([]*domain.Favorite, error)
	Add(ctx context.Context, username string, input AddFavoriteInput) (*domain.Favorite, error)
	Remove(ctx context.Context, username, bookID string) error
	IsFavorite(ctx context.Context, username, bookID string) (bool, error)
	// Toggle adds the book when absent and removes it otherwise. It reports
	// whether the book is a favorite afterwards.
	Toggle(ctx context.Context, username string, input AddFavoriteInput) (bool, error)
	Count(ctx context.Context, username string) (int64, error)
}
