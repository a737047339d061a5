package models

import "time"

// RefreshToken is an opaque token that can be exchanged once for a new
// access/refresh pair before Expires.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

func (t *RefreshToken) Expired(now time.Time) bool {
	return !t.Expires.After(now)
}
