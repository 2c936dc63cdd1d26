package domain

import "time"

// Favorite links a user to an external catalog book (an OpenLibrary work ID
// such as "OL123W"). A user holds at most one favorite per book.
type Favorite struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	BookID      string    `json:"bookId"`
	BookTitle   string    `json:"bookTitle,omitempty"`
	BookCoverID string    `json:"bookCoverId,omitempty"`
	AddedAt     time.Time `json:"addedDate"`
}
