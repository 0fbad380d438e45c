package models

import "time"

type Comment struct {
	ID        string
	EntryID   string
	UserID    string
	Content   string
	CreatedAt time.Time
}

// Like is unique per (EntryID, UserID); the store enforces it.
type Like struct {
	ID        string
	EntryID   string
	UserID    string
	CreatedAt time.Time
}
