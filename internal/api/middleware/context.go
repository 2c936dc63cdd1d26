package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/bookshelf/catalog-api/internal/core/domain"
)

// Keys under which the authenticator stores caller data on the echo context.
const (
	ctxUsername = "username"
	ctxRole     = "role"
	ctxOutcome  = "auth_outcome"
)

// SetIdentity attaches id to the request.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(ctxUsername, id.Username)
	c.Set(ctxRole, id.Role)
}

// IdentityFrom returns the identity attached by the authenticator.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	username, _ := c.Get(ctxUsername).(string)
	if username == "" {
		return domain.Identity{}, false
	}
	role, _ := c.Get(ctxRole).(domain.Role)
	return domain.Identity{Username: username, Role: role}, true
}

// OutcomeFrom returns the authentication outcome recorded for the request.
// Requests that never passed the authenticator report anonymous.
func OutcomeFrom(c echo.Context) Outcome {
	o, ok := c.Get(ctxOutcome).(Outcome)
	if !ok {
		return OutcomeAnonymous
	}
	return o
}
