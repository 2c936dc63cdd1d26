package middleware

import (
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

// AccessLevel is the minimum authentication a route requires.
type AccessLevel int

const (
	AccessPublic AccessLevel = iota
	AccessAuthenticated
	AccessAdmin
)

func (l AccessLevel) String() string {
	switch l {
	case AccessAuthenticated:
		return "AUTHENTICATED"
	case AccessAdmin:
		return "ADMIN"
	default:
		return "PUBLIC"
	}
}

// AccessRule binds a path pattern to a level. A trailing "/**" matches the
// prefix itself and everything below it; other patterns match exactly.
type AccessRule struct {
	Pattern string
	Level   AccessLevel
}

// AccessPolicy is an ordered rule table. The first matching rule wins and
// unmatched paths are public.
type AccessPolicy struct {
	rules []AccessRule
}

func NewAccessPolicy(rules ...AccessRule) *AccessPolicy {
	return &AccessPolicy{rules: rules}
}

// DefaultAccessPolicy protects /api/** and reserves /api/admin/** for
// administrators.
func DefaultAccessPolicy() *AccessPolicy {
	return NewAccessPolicy(
		AccessRule{Pattern: "/api/admin/**", Level: AccessAdmin},
		AccessRule{Pattern: "/api/**", Level: AccessAuthenticated},
	)
}

// LevelFor returns the level required for reqPath.
func (p *AccessPolicy) LevelFor(reqPath string) AccessLevel {
	clean := path.Clean("/" + reqPath)
	for _, r := range p.rules {
		if matchPattern(r.Pattern, clean) {
			return r.Level
		}
	}
	return AccessPublic
}

func matchPattern(pattern, p string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		return p == prefix || strings.HasPrefix(p, prefix+"/")
	}
	return p == pattern
}

// Authorize enforces policy using the identity attached by
// RequestAuthenticator: 401 without an identity, 403 for non-admins on
// admin routes.
func Authorize(policy *AccessPolicy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			level := policy.LevelFor(c.Request().URL.Path)
			if level == AccessPublic {
				return next(c)
			}

			id, ok := IdentityFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			if level == AccessAdmin && !id.Role.IsAdmin() {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
