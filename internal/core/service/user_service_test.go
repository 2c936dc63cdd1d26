package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookshelf/catalog-api/internal/core/domain"
	"github.com/bookshelf/catalog-api/internal/core/ports"
)

type userFixture struct {
	svc    ports.UserService
	users  *stubUserRepo
	favs   *stubFavoriteRepo
	cache  *stubUserCache
	hasher *PasswordHasher
	codec  *TokenCodec
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	f := &userFixture{
		users:  newStubUserRepo(),
		favs:   &stubFavoriteRepo{},
		cache:  &stubUserCache{},
		hasher: NewPasswordHasher(bcrypt.MinCost),
		codec:  newTestCodec(t, nil),
	}
	f.svc = NewUserService(f.users, f.favs, f.cache, f.hasher, f.codec, zerolog.Nop())

	hash, _ := f.hasher.Hash("s3cret")
	_, _ = f.users.Save(context.Background(), &domain.User{
		Username:     "alice",
		PasswordHash: hash,
		FirstName:    "Alice",
		Role:         domain.RoleUser,
	})
	return f
}

func strPtr(s string) *string { return &s }

func TestUserService_UpdateSelf(t *testing.T) {
	f := newUserFixture(t)

	user, token, err := f.svc.UpdateSelf(context.Background(), "alice", ports.UpdateUserInput{
		FirstName: strPtr("Alicia"),
		Country:   strPtr("AR"),
		Role:      strPtr("ADMIN"),
	})
	if err != nil {
		t.Fatalf("UpdateSelf: %v", err)
	}
	if user.FirstName != "Alicia" || user.Country != "AR" {
		t.Fatalf("profile not updated: %+v", user)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("self update must not change role, got %s", user.Role)
	}
	if !f.codec.IsValidFor(token, "alice") {
		t.Fatalf("expected a fresh token for alice")
	}
	if !f.hasher.Verify("s3cret", f.users.users["alice"].PasswordHash) {
		t.Fatalf("password must be unchanged when not supplied")
	}
	if len(f.cache.invalidated) != 1 || f.cache.invalidated[0] != "alice" {
		t.Fatalf("expected cache invalidation, got %v", f.cache.invalidated)
	}
}

func TestUserService_UpdateSelf_Password(t *testing.T) {
	f := newUserFixture(t)

	if _, _, err := f.svc.UpdateSelf(context.Background(), "alice", ports.UpdateUserInput{Password: strPtr("n3w")}); err != nil {
		t.Fatalf("UpdateSelf: %v", err)
	}
	hash := f.users.users["alice"].PasswordHash
	if !f.hasher.Verify("n3w", hash) || f.hasher.Verify("s3cret", hash) {
		t.Fatalf("password was not replaced")
	}

	if _, _, err := f.svc.UpdateSelf(context.Background(), "alice", ports.UpdateUserInput{Password: strPtr("")}); err != nil {
		t.Fatalf("UpdateSelf: %v", err)
	}
	if f.users.users["alice"].PasswordHash != hash {
		t.Fatalf("empty password must leave hash untouched")
	}
}

func TestUserService_UpdateSelf_UsernameImmutable(t *testing.T) {
	f := newUserFixture(t)

	_, _, err := f.svc.UpdateSelf(context.Background(), "alice", ports.UpdateUserInput{Username: strPtr("mallory")})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, _, err := f.svc.UpdateSelf(context.Background(), "alice", ports.UpdateUserInput{Username: strPtr("alice")}); err != nil {
		t.Fatalf("same username should be accepted: %v", err)
	}
}

func TestUserService_UpdateByAdmin_Role(t *testing.T) {
	f := newUserFixture(t)

	user, err := f.svc.UpdateByAdmin(context.Background(), "alice", ports.UpdateUserInput{Role: strPtr("role_admin")})
	if err != nil {
		t.Fatalf("UpdateByAdmin: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", user.Role)
	}

	if _, err := f.svc.UpdateByAdmin(context.Background(), "alice", ports.UpdateUserInput{Role: strPtr("root")}); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
	if _, err := f.svc.UpdateByAdmin(context.Background(), "ghost", ports.UpdateUserInput{}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	f := newUserFixture(t)
	alice := f.users.users["alice"]
	_, _ = f.favs.Add(context.Background(), &domain.Favorite{UserID: alice.ID, BookID: "OL1W"})
	_, _ = f.favs.Add(context.Background(), &domain.Favorite{UserID: "someone-else", BookID: "OL1W"})

	if err := f.svc.Delete(context.Background(), "alice"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := f.users.users["alice"]; ok {
		t.Fatalf("user still present")
	}
	if len(f.favs.favs) != 1 || f.favs.favs[0].UserID != "someone-else" {
		t.Fatalf("expected only alice's favorites removed, got %+v", f.favs.favs)
	}
	if err := f.svc.Delete(context.Background(), "alice"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_ProfileImage(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	if _, err := f.svc.ProfileImage(ctx, "alice"); !errors.Is(err, domain.ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
	if err := f.svc.SetProfileImage(ctx, "alice", domain.ProfileImage{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty image, got %v", err)
	}

	img := domain.ProfileImage{Data: []byte{0x89, 'P', 'N', 'G'}, ContentType: "image/png"}
	if err := f.svc.SetProfileImage(ctx, "alice", img); err != nil {
		t.Fatalf("SetProfileImage: %v", err)
	}
	got, err := f.svc.ProfileImage(ctx, "alice")
	if err != nil {
		t.Fatalf("ProfileImage: %v", err)
	}
	if string(got.Data) != string(img.Data) || got.ContentType != "image/png" {
		t.Fatalf("unexpected image %+v", got)
	}

	if err := f.svc.DeleteProfileImage(ctx, "alice"); err != nil {
		t.Fatalf("DeleteProfileImage: %v", err)
	}
	if _, err := f.svc.ProfileImage(ctx, "alice"); !errors.Is(err, domain.ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound after delete, got %v", err)
	}
}

func TestUserService_CacheFailureIsNotFatal(t *testing.T) {
	f := newUserFixture(t)
	f.cache.err = errors.New("redis down")

	if _, err := f.svc.UpdateByAdmin(context.Background(), "alice", ports.UpdateUserInput{Country: strPtr("CL")}); err != nil {
		t.Fatalf("cache failure should not fail the update: %v", err)
	}
}
