package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of authorization roles. The string value is the
// canonical name persisted in storage and checked by the access policy.
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

const rolePrefix = "ROLE_"

// roleAliases maps every accepted spelling (upper-cased) to its role.
var roleAliases = map[string]Role{
	"USER":       RoleUser,
	"ROLE_USER":  RoleUser,
	"ADMIN":      RoleAdmin,
	"ROLE_ADMIN": RoleAdmin,
}

// ParseRole resolves a client-supplied role name. Blank input defaults to
// RoleUser; matching is case-insensitive with or without the ROLE_ prefix.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RoleUser, nil
	}
	if r, ok := roleAliases[strings.ToUpper(s)]; ok {
		return r, nil
	}
	return "", fmt.Errorf("%w: %s", ErrRoleNotFound, s)
}

// SimpleName returns the role without its ROLE_ prefix, e.g. "ADMIN".
func (r Role) SimpleName() string {
	return strings.TrimPrefix(string(r), rolePrefix)
}

// IsAdmin reports whether r grants administrative access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
