package model

import "time"

const (
	RoleDiner      = "diner"
	RoleAdmin      = "admin"
	RoleFranchisee = "franchisee"
)

// UserRole is a single role grant. ObjectID is the franchise id for
// franchisee grants and zero for the global diner/admin roles.
type UserRole struct {
	Role     string `json:"role"`
	ObjectID int    `json:"objectId,omitempty"`
}

// User represents a registered account
type User struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Do not expose password hash in JSON responses
	Roles        []UserRole `json:"roles"`
	CreatedAt    time.Time  `json:"-"`
}

// RegisterRequest is the body of POST /api/auth
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the body of PUT /api/auth
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest carries a partial profile update
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Password *string `json:"password,omitempty"`
}
