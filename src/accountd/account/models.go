// Package account provides account creation and credential verification for
// accountd: it owns the persisted User entity, password hashing, and access
// token issuance.
package account

import (
	"time"

	"github.com/google/uuid"
)

// Role is a flat string tag governing coarse-grained authorization
type Role = string

const (
	// RoleAdmin grants access to account administration endpoints
	RoleAdmin Role = "admin"
	// RoleUser is the default role assigned at signup
	RoleUser Role = "user"
)

// User represents a persisted account
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser creates a new user with a generated UUID
func NewUser(email, name, passwordHash, role string) *User {
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
}

// SignupRequest is the request body for POST /signup.
// Email syntax is validated by the binding layer.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// SignupResponse carries only the identifier and email of the new account.
// The password hash must never appear here.
type SignupResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// LoginRequest is the request body for POST /login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the signed bearer token issued on successful login
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

// Info is the public projection of a user for administrative listings
type Info struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Info returns the public projection of the user
func (u *User) Info() Info {
	return Info{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// UserListResponse is the response body for GET /v1/users
type UserListResponse struct {
	Count int    `json:"count"`
	Users []Info `json:"users"`
}

// StatsResponse is the response body for GET /v1/users/stats
type StatsResponse struct {
	TotalUsers int `json:"total_users"`
}
