package user

import "time"

// User is the administrator account. The setup flow creates exactly one and
// nothing in the API ever updates or deletes it.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // Never expose password hash in JSON
	CreatedAt time.Time `json:"created_at"`
}
