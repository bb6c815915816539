package model

import "time"

// Rating bounds.  The same range is enforced by a CHECK constraint.
const (
	MinRating = 1
	MaxRating = 5
)

// Rating is a single user's score for a store.  There is at most one row
// per (UserID, StoreID); resubmitting replaces Value and bumps UpdatedAt.
type Rating struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	StoreID   uint64    `json:"store_id"`
	Value     int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
