package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookshelf/catalog-api/internal/core/domain"
)

type FavoriteRepository struct {
	coll *mongo.Collection
}

func NewFavoriteRepository(db *mongo.Database) *FavoriteRepository {
	return &FavoriteRepository{coll: db.Collection(favoritesCollection)}
}

type mongoFavorite struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	BookID      string    `bson:"book_id"`
	BookTitle   string    `bson:"book_title,omitempty"`
	BookCoverID string    `bson:"book_cover_id,omitempty"`
	AddedAt     time.Time `bson:"added_at"`
}

func toMongoFavorite(f *domain.Favorite) mongoFavorite {
	return mongoFavorite{
		ID:          f.ID,
		UserID:      f.UserID,
		BookID:      f.BookID,
		BookTitle:   f.BookTitle,
		BookCoverID: f.BookCoverID,
		AddedAt:     f.AddedAt.UTC(),
	}
}

func (mf mongoFavorite) toDomain() *domain.Favorite {
	return &domain.Favorite{
		ID:          mf.ID,
		UserID:      mf.UserID,
		BookID:      mf.BookID,
		BookTitle:   mf.BookTitle,
		BookCoverID: mf.BookCoverID,
		AddedAt:     mf.AddedAt.UTC(),
	}
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoFavorite
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	favs := make([]*domain.Favorite, 0, len(docs))
	for _, d := range docs {
		favs = append(favs, d.toDomain())
	}
	return favs, nil
}

func (r *FavoriteRepository) Add(ctx context.Context, fav *domain.Favorite) (*domain.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	out := *fav
	out.ID = uuid.NewString()
	if out.AddedAt.IsZero() {
		out.AddedAt = time.Now().UTC()
	}

	if _, err := r.coll.InsertOne(ctx, toMongoFavorite(&out)); err != nil {
		return nil, insertError(err, domain.ErrFavoriteExists, "favorite")
	}
	return &out, nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, bookID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"user_id": userID, "book_id": bookID})
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, bookID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"user_id": userID, "book_id": bookID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return n > 0, nil
}

func (r *FavoriteRepository) Count(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return n, nil
}

func (r *FavoriteRepository) DeleteByUser(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("delete favorites: %w", err)
	}
	return nil
}
