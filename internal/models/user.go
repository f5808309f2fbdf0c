package models

import "time"

// Role is the closed set of user roles. Authorization decisions compare
// against these constants, never against free-form strings.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleBanker   Role = "banker"
)

// User represents a user in the system
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"full_name"`
	PasswordHash string    `db:"password" json:"-"` // Not serialized
	Role         Role      `db:"role" json:"role"`
	AccessToken  *string   `db:"access_token" json:"-"` // Not serialized
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
