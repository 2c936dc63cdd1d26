package handler

import (
	"context"
	"io"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/catalog-api/internal/api/middleware"
	"github.com/bookshelf/catalog-api/internal/core/domain"
	"github.com/bookshelf/catalog-api/internal/core/ports"
	"github.com/bookshelf/catalog-api/internal/core/service"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (string, error)
	loginFn    func(ctx context.Context, username, password string) (string, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, error) {
	return s.loginFn(ctx, username, password)
}

type stubUserService struct {
	profileFn       func(ctx context.Context, username string) (*domain.User, error)
	updateSelfFn    func(ctx context.Context, username string, in ports.UpdateUserInput) (*domain.User, string, error)
	listFn          func(ctx context.Context) ([]*domain.User, error)
	updateByAdminFn func(ctx context.Context, username string, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn        func(ctx context.Context, username string) error
	setImageFn      func(ctx context.Context, username string, img domain.ProfileImage) error
	imageFn         func(ctx context.Context, username string) (*domain.ProfileImage, error)
	deleteImageFn   func(ctx context.Context, username string) error
}

func (s *stubUserService) Profile(ctx context.Context, username string) (*domain.User, error) {
	return s.profileFn(ctx, username)
}

func (s *stubUserService) UpdateSelf(ctx context.Context, username string, in ports.UpdateUserInput) (*domain.User, string, error) {
	return s.updateSelfFn(ctx, username, in)
}

func (s *stubUserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) UpdateByAdmin(ctx context.Context, username string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateByAdminFn(ctx, username, in)
}

func (s *stubUserService) Delete(ctx context.Context, username string) error {
	return s.deleteFn(ctx, username)
}

func (s *stubUserService) SetProfileImage(ctx context.Context, username string, img domain.ProfileImage) error {
	return s.setImageFn(ctx, username, img)
}

func (s *stubUserService) ProfileImage(ctx context.Context, username string) (*domain.ProfileImage, error) {
	return s.imageFn(ctx, username)
}

func (s *stubUserService) DeleteProfileImage(ctx context.Context, username string) error {
	return s.deleteImageFn(ctx, username)
}

type stubFavoriteService struct {
	listFn       func(ctx context.Context, username string) ([]*domain.Favorite, error)
	addFn        func(ctx context.Context, username string, in ports.AddFavoriteInput) (*domain.Favorite, error)
	removeFn     func(ctx context.Context, username, bookID string) error
	isFavoriteFn func(ctx context.Context, username, bookID string) (bool, error)
	toggleFn     func(ctx context.Context, username string, in ports.AddFavoriteInput) (bool, error)
	countFn      func(ctx context.Context, username string) (int64, error)
}

func (s *stubFavoriteService) List(ctx context.Context, username string) ([]*domain.Favorite, error) {
	return s.listFn(ctx, username)
}

func (s *stubFavoriteService) Add(ctx context.Context, username string, in ports.AddFavoriteInput) (*domain.Favorite, error) {
	return s.addFn(ctx, username, in)
}

func (s *stubFavoriteService) Remove(ctx context.Context, username, bookID string) error {
	return s.removeFn(ctx, username, bookID)
}

func (s *stubFavoriteService) IsFavorite(ctx context.Context, username, bookID string) (bool, error) {
	return s.isFavoriteFn(ctx, username, bookID)
}

func (s *stubFavoriteService) Toggle(ctx context.Context, username string, in ports.AddFavoriteInput) (bool, error) {
	return s.toggleFn(ctx, username, in)
}

func (s *stubFavoriteService) Count(ctx context.Context, username string) (int64, error) {
	return s.countFn(ctx, username)
}

type stubDecoder struct {
	claims *service.TokenClaims
	err    error
}

func (d stubDecoder) Decode(string) (*service.TokenClaims, error) {
	return d.claims, d.err
}

// newTestContext builds an echo context with the validator installed. A JSON
// content type is set whenever body is non-nil.
func newTestContext(method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asUser attaches an authenticated identity to the request.
func asUser(c echo.Context, username string, role domain.Role) {
	middleware.SetIdentity(c, domain.Identity{Username: username, Role: role})
}

func httpCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}
