package domain

import "time"

// User is a registered account. PasswordHash and the image bytes never leave
// the server through JSON.
type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	PasswordHash     string    `json:"-"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Country          string    `json:"country"`
	Role             Role      `json:"role"`
	ProfileImage     []byte    `json:"-"`
	ProfileImageType string    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// HasProfileImage reports whether the user has uploaded an image.
func (u *User) HasProfileImage() bool {
	return len(u.ProfileImage) > 0
}

// Identity is the authenticated principal attached to a request. It is
// always a projection of the stored user, never of the token alone.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// ProfileImage is a stored avatar with its MIME type.
type ProfileImage struct {
	Data        []byte
	ContentType string
}
