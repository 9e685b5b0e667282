package models

import "time"

// User is a registered account. PasswordHash is write-only: it never
// appears in any wire projection.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Staff        bool
	CreatedAt    time.Time
}
