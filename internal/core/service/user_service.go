package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookshelf/catalog-api/internal/core/domain"
	"github.com/bookshelf/catalog-api/internal/core/ports"
)

type userService struct {
	users     ports.UserRepository
	favorites ports.FavoriteRepository
	cache     ports.UserCache
	hasher    *PasswordHasher
	codec     *TokenCodec
	log       zerolog.Logger
}

// NewUserService returns a UserService. cache may be nil.
func NewUserService(
	users ports.UserRepository,
	favorites ports.FavoriteRepository,
	cache ports.UserCache,
	hasher *PasswordHasher,
	codec *TokenCodec,
	log zerolog.Logger,
) ports.UserService {
	return &userService{
		users:     users,
		favorites: favorites,
		cache:     cache,
		hasher:    hasher,
		codec:     codec,
		log:       log,
	}
}

func (s *userService) Profile(ctx context.Context, username string) (*domain.User, error) {
	return s.users.FindByUsername(ctx, username)
}

// UpdateSelf applies a user's own profile changes. Role changes are ignored
// and the username cannot change. A new token is issued.
func (s *userService) UpdateSelf(ctx context.Context, username string, in ports.UpdateUserInput) (*domain.User, string, error) {
	in.Role = nil
	user, err := s.update(ctx, username, in)
	if err != nil {
		return nil, "", err
	}
	token, err := s.codec.Encode(user.Username, nil, 0)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) UpdateByAdmin(ctx context.Context, username string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.update(ctx, username, in)
}

func (s *userService) update(ctx context.Context, username string, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if in.Username != nil && strings.TrimSpace(*in.Username) != "" && strings.TrimSpace(*in.Username) != user.Username {
		return nil, fmt.Errorf("%w: username cannot be changed", domain.ErrInvalidInput)
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Country != nil {
		user.Country = strings.TrimSpace(*in.Country)
	}
	if in.Role != nil && strings.TrimSpace(*in.Role) != "" {
		role, err := domain.ParseRole(*in.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	return s.save(ctx, user)
}

// Delete removes the user and their favorites.
func (s *userService) Delete(ctx context.Context, username string) error {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.favorites.DeleteByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("delete favorites of %s: %w", username, err)
	}
	if err := s.users.Delete(ctx, user); err != nil {
		return err
	}
	s.invalidate(ctx, username)
	s.log.Info().Str("username", username).Msg("user deleted")
	return nil
}

func (s *userService) SetProfileImage(ctx context.Context, username string, img domain.ProfileImage) error {
	if len(img.Data) == 0 {
		return fmt.Errorf("%w: image is empty", domain.ErrInvalidInput)
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	user.ProfileImage = img.Data
	user.ProfileImageType = img.ContentType
	_, err = s.save(ctx, user)
	return err
}

func (s *userService) ProfileImage(ctx context.Context, username string) (*domain.ProfileImage, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !user.HasProfileImage() {
		return nil, domain.ErrImageNotFound
	}
	return &domain.ProfileImage{Data: user.ProfileImage, ContentType: user.ProfileImageType}, nil
}

func (s *userService) DeleteProfileImage(ctx context.Context, username string) error {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	user.ProfileImage = nil
	user.ProfileImageType = ""
	_, err = s.save(ctx, user)
	return err
}

func (s *userService) save(ctx context.Context, user *domain.User) (*domain.User, error) {
	user.UpdatedAt = time.Now().UTC()
	saved, err := s.users.Save(ctx, user)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, user.Username)
	return saved, nil
}

func (s *userService) invalidate(ctx context.Context, username string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("identity cache invalidation failed")
	}
}
