package models

import "time"

// ClimbRecord is a personal climb log entry. UserID is always derived from
// the acting principal at creation time and never taken from caller input.
type ClimbRecord struct {
	ID         int64
	UserID     int64
	Username   string // joined from users for projections; not a column
	MountainID int64
	ClimbDate  time.Time
	Comment    string
	PhotoKey   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
