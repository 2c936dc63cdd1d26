package domain

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrRoleNotFound     = errors.New("role not found")
	ErrBadCredentials   = errors.New("bad credentials")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMalformedToken   = errors.New("malformed token")
	ErrTokenExpired     = errors.New("token expired")
	ErrFavoriteExists   = errors.New("book is already in favorites")
	ErrFavoriteNotFound = errors.New("book is not in favorites")
	ErrImageNotFound    = errors.New("profile image not found")
)
