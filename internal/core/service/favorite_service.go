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

type favoriteService struct {
	users     ports.UserFinder
	favorites ports.FavoriteRepository
	log       zerolog.Logger
}

func NewFavoriteService(users ports.UserFinder, favorites ports.FavoriteRepository, log zerolog.Logger) ports.FavoriteService {
	return &favoriteService{users: users, favorites: favorites, log: log}
}

func (s *favoriteService) List(ctx context.Context, username string) ([]*domain.Favorite, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.favorites.ListByUser(ctx, user.ID)
}

func (s *favoriteService) Add(ctx context.Context, username string, in ports.AddFavoriteInput) (*domain.Favorite, error) {
	bookID := strings.TrimSpace(in.BookID)
	if bookID == "" {
		return nil, fmt.Errorf("%w: bookId is required", domain.ErrInvalidInput)
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	exists, err := s.favorites.Exists(ctx, user.ID, bookID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrFavoriteExists
	}

	fav, err := s.favorites.Add(ctx, &domain.Favorite{
		UserID:      user.ID,
		BookID:      bookID,
		BookTitle:   strings.TrimSpace(in.BookTitle),
		BookCoverID: strings.TrimSpace(in.BookCoverID),
		AddedAt:     time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("username", username).Str("book_id", bookID).Msg("favorite added")
	return fav, nil
}

func (s *favoriteService) Remove(ctx context.Context, username, bookID string) error {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.favorites.Remove(ctx, user.ID, strings.TrimSpace(bookID))
}

func (s *favoriteService) IsFavorite(ctx context.Context, username, bookID string) (bool, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return s.favorites.Exists(ctx, user.ID, strings.TrimSpace(bookID))
}

func (s *favoriteService) Toggle(ctx context.Context, username string, in ports.AddFavoriteInput) (bool, error) {
	err := s.Remove(ctx, username, in.BookID)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, domain.ErrFavoriteNotFound):
		return false, err
	}

	if _, err := s.Add(ctx, username, in); err != nil {
		return false, err
	}
	return true, nil
}

func (s *favoriteService) Count(ctx context.Context, username string) (int64, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return s.favorites.Count(ctx, user.ID)
}
