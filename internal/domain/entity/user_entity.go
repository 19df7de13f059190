package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Password holds the bcrypt hash and never leaves the process.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	AvatarURL string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
}
