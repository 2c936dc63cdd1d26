package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/bookshelf/catalog-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   map[string]*domain.User
	nextID  int
	findErr error
	saves   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.saves++
	copy := cloneUser(user)
	if copy.ID == "" {
		if _, exists := r.users[copy.Username]; exists {
			return nil, domain.ErrUserExists
		}
		r.nextID++
		copy.ID = fmt.Sprintf("user-%d", r.nextID)
	}
	r.users[copy.Username] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) Delete(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.Username]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, user.Username)
	return nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type stubFavoriteRepo struct {
	favs   []*domain.Favorite
	nextID int
}

func (r *stubFavoriteRepo) ListByUser(_ context.Context, userID string) ([]*domain.Favorite, error) {
	var out []*domain.Favorite
	for _, f := range r.favs {
		if f.UserID == userID {
			clone := *f
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return out, nil
}

func (r *stubFavoriteRepo) Add(_ context.Context, fav *domain.Favorite) (*domain.Favorite, error) {
	for _, f := range r.favs {
		if f.UserID == fav.UserID && f.BookID == fav.BookID {
			return nil, domain.ErrFavoriteExists
		}
	}
	r.nextID++
	clone := *fav
	clone.ID = fmt.Sprintf("fav-%d", r.nextID)
	r.favs = append(r.favs, &clone)
	out := clone
	return &out, nil
}

func (r *stubFavoriteRepo) Remove(_ context.Context, userID, bookID string) error {
	for i, f := range r.favs {
		if f.UserID == userID && f.BookID == bookID {
			r.favs = append(r.favs[:i], r.favs[i+1:]...)
			return nil
		}
	}
	return domain.ErrFavoriteNotFound
}

func (r *stubFavoriteRepo) Exists(_ context.Context, userID, bookID string) (bool, error) {
	for _, f := range r.favs {
		if f.UserID == userID && f.BookID == bookID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubFavoriteRepo) Count(ctx context.Context, userID string) (int64, error) {
	list, _ := r.ListByUser(ctx, userID)
	return int64(len(list)), nil
}

func (r *stubFavoriteRepo) DeleteByUser(_ context.Context, userID string) error {
	kept := r.favs[:0]
	for _, f := range r.favs {
		if f.UserID != userID {
			kept = append(kept, f)
		}
	}
	r.favs = kept
	return nil
}

type stubUserCache struct {
	invalidated []string
	err         error
}

func (c *stubUserCache) Invalidate(_ context.Context, username string) error {
	c.invalidated = append(c.invalidated, username)
	return c.err
}
