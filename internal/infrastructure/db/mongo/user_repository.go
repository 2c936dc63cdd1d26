package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookshelf/catalog-api/internal/core/domain"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID               string    `bson:"_id"`
	Username         string    `bson:"username"`
	PasswordHash     string    `bson:"password_hash"`
	FirstName        string    `bson:"first_name"`
	LastName         string    `bson:"last_name"`
	Country          string    `bson:"country"`
	Role             string    `bson:"role"`
	ProfileImage     []byte    `bson:"profile_image,omitempty"`
	ProfileImageType string    `bson:"profile_image_type,omitempty"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		ID:               u.ID,
		Username:         u.Username,
		PasswordHash:     u.PasswordHash,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Country:          u.Country,
		Role:             string(u.Role),
		ProfileImage:     u.ProfileImage,
		ProfileImageType: u.ProfileImageType,
		CreatedAt:        u.CreatedAt.UTC(),
		UpdatedAt:        u.UpdatedAt.UTC(),
	}
}

func (mu mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:               mu.ID,
		Username:         mu.Username,
		PasswordHash:     mu.PasswordHash,
		FirstName:        mu.FirstName,
		LastName:         mu.LastName,
		Country:          mu.Country,
		Role:             domain.Role(mu.Role),
		ProfileImage:     mu.ProfileImage,
		ProfileImageType: mu.ProfileImageType,
		CreatedAt:        mu.CreatedAt.UTC(),
		UpdatedAt:        mu.UpdatedAt.UTC(),
	}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// Save inserts the user when it has no ID yet and replaces it otherwise.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	out := *user
	if out.ID == "" {
		out.ID = uuid.NewString()
		now := time.Now().UTC()
		if out.CreatedAt.IsZero() {
			out.CreatedAt = now
		}
		if out.UpdatedAt.IsZero() {
			out.UpdatedAt = now
		}
		if _, err := r.coll.InsertOne(ctx, toMongoUser(&out)); err != nil {
			return nil, insertError(err, domain.ErrUserExists, "user")
		}
		return &out, nil
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": out.ID}, toMongoUser(&out))
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return &out, nil
}

func (r *UserRepository) Delete(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": user.ID})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	users := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, nil
}
