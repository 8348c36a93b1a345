package domain

import "time"

// User models an account in the system. PasswordHash never leaves the
// process boundary: it is excluded from every JSON projection.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Permission   Permission `json:"permission"`
	CreatedAt    time.Time  `json:"created_at"`
}
