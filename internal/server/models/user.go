package models

import "time"

// RoleUser is the role assigned to every self-registered account.
const RoleUser = "USER"

// User is a stored identity record. PasswordHash holds a bcrypt hash and is
// never exposed through the API; handlers convert to Profile instead.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}

// Profile is the public view of a User, safe to return to clients.
type Profile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

// Profile strips the credential material from a User.
func (u *User) Profile() Profile {
	return Profile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}
