package mongo

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookshelf/catalog-api/internal/core/domain"
)

func TestInsertError(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}
	if err := insertError(dup, domain.ErrUserExists, "user"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("duplicate key should map to ErrUserExists, got %v", err)
	}
	if err := insertError(fmt.Errorf("wrapped: %w", dup), domain.ErrFavoriteExists, "favorite"); !errors.Is(err, domain.ErrFavoriteExists) {
		t.Fatalf("wrapped duplicate key should map to ErrFavoriteExists, got %v", err)
	}

	other := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 121, Message: "validation failed"}}}
	err := insertError(other, domain.ErrUserExists, "user")
	if errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("non-duplicate write error must not map to ErrUserExists")
	}
	if err.Error() != "insert user: "+other.Error() {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestUserMapping(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	u := &domain.User{
		ID:               "u-1",
		Username:         "alice",
		PasswordHash:     "$2a$10$hash",
		FirstName:        "Alice",
		LastName:         "Liddell",
		Country:          "UK",
		Role:             domain.RoleAdmin,
		ProfileImage:     []byte{0x89, 'P', 'N', 'G'},
		ProfileImageType: "image/png",
		CreatedAt:        created,
		UpdatedAt:        created.Add(time.Hour),
	}

	mu := toMongoUser(u)
	if mu.Role != string(domain.RoleAdmin) {
		t.Fatalf("role stored as %q", mu.Role)
	}
	if mu.CreatedAt.Location() != time.UTC {
		t.Fatalf("timestamps must be stored in UTC")
	}

	back := mu.toDomain()
	if back.Username != u.Username || back.Role != u.Role || back.ProfileImageType != u.ProfileImageType {
		t.Fatalf("round trip lost fields: %+v", back)
	}
	if string(back.ProfileImage) != string(u.ProfileImage) {
		t.Fatalf("profile image changed")
	}
	if !back.CreatedAt.Equal(u.CreatedAt) || !back.UpdatedAt.Equal(u.UpdatedAt) {
		t.Fatalf("timestamps changed: %v %v", back.CreatedAt, back.UpdatedAt)
	}
}

func TestTimestampsEncodeAsDates(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	raw, err := bson.Marshal(toMongoUser(&domain.User{ID: "u-1", Username: "bob", Role: domain.RoleUser, CreatedAt: now, UpdatedAt: now}))
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	for _, key := range []string{"created_at", "updated_at"} {
		if typ := bson.Raw(raw).Lookup(key).Type; typ != bsontype.DateTime {
			t.Fatalf("%s encoded as %v, want datetime", key, typ)
		}
	}

	raw, err = bson.Marshal(toMongoFavorite(&domain.Favorite{ID: "f-1", UserID: "u-1", BookID: "OL1W", AddedAt: now}))
	if err != nil {
		t.Fatalf("marshal favorite: %v", err)
	}
	if typ := bson.Raw(raw).Lookup("added_at").Type; typ != bsontype.DateTime {
		t.Fatalf("added_at encoded as %v, want datetime", typ)
	}
	if _, err := bson.Raw(raw).LookupErr("book_title"); err == nil {
		t.Fatalf("empty book title should be omitted")
	}
}

func TestFavoriteMapping(t *testing.T) {
	added := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	f := &domain.Favorite{ID: "f-1", UserID: "u-1", BookID: "OL45W", BookTitle: "Dune", BookCoverID: "123", AddedAt: added}

	back := toMongoFavorite(f).toDomain()
	if back.ID != f.ID || back.UserID != f.UserID || back.BookID != f.BookID || back.BookTitle != f.BookTitle || back.BookCoverID != f.BookCoverID {
		t.Fatalf("round trip changed favorite: %+v", back)
	}
	if !back.AddedAt.Equal(added) {
		t.Fatalf("added date changed: %v", back.AddedAt)
	}
}
