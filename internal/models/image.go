package models

import "time"

// UserImage is a gallery item owned by one user.
type UserImage struct {
	ID        string
	UserID    string
	ImageURL  string
	FileName  *string
	CreatedAt time.Time
}
