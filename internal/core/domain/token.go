package domain

import "time"

// Token is a persisted opaque bearer credential issued on login. Every login
// mints a fresh token; tokens are never updated and carry no expiry.
type Token struct {
	ID        string    `json:"id"`
	Value     string    `json:"value"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
