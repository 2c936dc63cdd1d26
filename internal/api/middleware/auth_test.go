package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookshelf/catalog-api/internal/core/domain"
)

type stubResolver struct {
	resolveFn func(ctx context.Context, token string) (domain.Identity, error)
	calls     int
}

func (s *stubResolver) Resolve(ctx context.Context, token string) (domain.Identity, error) {
	s.calls++
	return s.resolveFn(ctx, token)
}

func newResolver(t *testing.T) *stubResolver {
	return &stubResolver{resolveFn: func(_ context.Context, token string) (domain.Identity, error) {
		if token == "good" {
			return domain.Identity{Username: "alice", Role: domain.RoleUser}, nil
		}
		return domain.Identity{}, domain.ErrMalformedToken
	}}
}

// runAuth passes req through the authenticator. setup, when non-nil, runs on
// the echo context before the middleware.
func runAuth(t *testing.T, a *RequestAuthenticator, req *http.Request, setup func(echo.Context)) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}

	var seen echo.Context
	handler := a.Middleware()(func(c echo.Context) error {
		seen = c
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if seen == nil {
		t.Fatalf("next not called")
	}
	return seen, rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	a := NewRequestAuthenticator(newResolver(t), zerolog.Nop())
	req := httptest.NewRequest(http.MethodGet, "/api/info", nil)
	req.Header.Set("Authorization", "Bearer good")

	c, rec := runAuth(t, a, req, nil)

	id, ok := IdentityFrom(c)
	if !ok || id.Username != "alice" || id.Role != domain.RoleUser {
		t.Fatalf("identity not attached: %+v", id)
	}
	if OutcomeFrom(c) != OutcomeAuthenticated {
		t.Fatalf("unexpected outcome %v", OutcomeFrom(c))
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	resolver := newResolver(t)
	a := NewRequestAuthenticator(resolver, zerolog.Nop())

	c, _ := runAuth(t, a, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	if _, ok := IdentityFrom(c); ok {
		t.Fatalf("no identity expected")
	}
	if OutcomeFrom(c) != OutcomeAnonymous {
		t.Fatalf("expected anonymous, got %v", OutcomeFrom(c))
	}
	if resolver.calls != 0 {
		t.Fatalf("resolver must not be called")
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	resolver := newResolver(t)
	a := NewRequestAuthenticator(resolver, zerolog.Nop())

	for _, header := range []string{"Token abc", "Basic dXNlcjpwYXNz", "Bearer", "Bearer    "} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		c, _ := runAuth(t, a, req, nil)
		if OutcomeFrom(c) != OutcomeAnonymous {
			t.Fatalf("%q: expected anonymous, got %v", header, OutcomeFrom(c))
		}
	}
	if resolver.calls != 0 {
		t.Fatalf("resolver must not be called")
	}
}

func TestAuthMiddleware_InvalidTokenPassesThrough(t *testing.T) {
	a := NewRequestAuthenticator(newResolver(t), zerolog.Nop())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	c, rec := runAuth(t, a, req, nil)

	if _, ok := IdentityFrom(c); ok {
		t.Fatalf("no identity expected for a rejected token")
	}
	if OutcomeFrom(c) != OutcomeRejected {
		t.Fatalf("expected rejected, got %v", OutcomeFrom(c))
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_AlreadyAuthenticated(t *testing.T) {
	resolver := newResolver(t)
	a := NewRequestAuthenticator(resolver, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	existing := domain.Identity{Username: "bob", Role: domain.RoleAdmin}

	c, _ := runAuth(t, a, req, func(c echo.Context) { SetIdentity(c, existing) })

	id, _ := IdentityFrom(c)
	if id != existing {
		t.Fatalf("existing identity must be kept, got %+v", id)
	}
	if OutcomeFrom(c) != OutcomeAlreadyAuthenticated {
		t.Fatalf("unexpected outcome %v", OutcomeFrom(c))
	}
	if resolver.calls != 0 {
		t.Fatalf("resolver must not be called")
	}
}

func TestBearerToken_SchemeCaseInsensitive(t *testing.T) {
	token, ok := bearerToken("bearer abc.def.ghi")
	if !ok || token != "abc.def.ghi" {
		t.Fatalf("unexpected result %q %v", token, ok)
	}
}
