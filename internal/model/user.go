package model

import "time"

// User is an account that can report items, submit claims, or (for admins)
// review them. Roles are fixed at creation; nothing in the API changes them.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRole reports whether role is a recognized role value.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleUser:
		return true
	}
	return false
}
