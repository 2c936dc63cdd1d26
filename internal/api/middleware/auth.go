package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookshelf/catalog-api/internal/api/metrics"
	"github.com/bookshelf/catalog-api/internal/core/domain"
	"github.com/bookshelf/catalog-api/internal/core/ports"
)

// Outcome is the result of authenticating a single request.
type Outcome int

const (
	// OutcomeAnonymous: no Authorization header or not a bearer credential.
	OutcomeAnonymous Outcome = iota
	// OutcomeAuthenticated: the token resolved to a stored user.
	OutcomeAuthenticated
	// OutcomeRejected: a bearer token was present but did not resolve. The
	// request continues anonymously.
	OutcomeRejected
	// OutcomeAlreadyAuthenticated: an identity was attached upstream.
	OutcomeAlreadyAuthenticated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAuthenticated:
		return "authenticated"
	case OutcomeRejected:
		return "rejected"
	case OutcomeAlreadyAuthenticated:
		return "already_authenticated"
	default:
		return "anonymous"
	}
}

// AuthResult is what the authenticator decided for a request. Err is set
// only for OutcomeRejected.
type AuthResult struct {
	Outcome  Outcome
	Identity domain.Identity
	Err      error
}

// RequestAuthenticator attaches an identity to requests that carry a valid
// bearer token. It never rejects a request; access decisions belong to
// Authorize.
type RequestAuthenticator struct {
	resolver ports.IdentityResolver
	log      zerolog.Logger
}

func NewRequestAuthenticator(resolver ports.IdentityResolver, log zerolog.Logger) *RequestAuthenticator {
	return &RequestAuthenticator{resolver: resolver, log: log}
}

// Authenticate evaluates the Authorization header of the request in c.
func (a *RequestAuthenticator) Authenticate(c echo.Context) AuthResult {
	if id, ok := IdentityFrom(c); ok {
		return AuthResult{Outcome: OutcomeAlreadyAuthenticated, Identity: id}
	}

	token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if !ok {
		return AuthResult{Outcome: OutcomeAnonymous}
	}

	id, err := a.resolver.Resolve(c.Request().Context(), token)
	if err != nil {
		return AuthResult{Outcome: OutcomeRejected, Err: err}
	}
	return AuthResult{Outcome: OutcomeAuthenticated, Identity: id}
}

// Middleware runs Authenticate for every request and always calls next.
func (a *RequestAuthenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := a.Authenticate(c)
			metrics.AuthRequestsTotal.WithLabelValues(res.Outcome.String()).Inc()

			c.Set(ctxOutcome, res.Outcome)
			switch res.Outcome {
			case OutcomeAuthenticated:
				SetIdentity(c, res.Identity)
			case OutcomeRejected:
				a.log.Debug().
					Err(res.Err).
					Str("path", c.Request().URL.Path).
					Msg("bearer token rejected, continuing anonymously")
			}
			return next(c)
		}
	}
}

// bearerToken extracts the credential of a "Bearer <token>" header. The
// scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
