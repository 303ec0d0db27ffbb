// Package domain holds the core types shared by the store, service, and
// HTTP layers.
package domain

import "time"

// Role controls coarse authorization for management endpoints.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account holder. PasswordHash is empty for federated-only
// accounts and is never serialized.
type User struct {
	ID             string    `json:"id"`
	FullName       string    `json:"fullName"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	DateOfBirth    string    `json:"dateOfBirth,omitempty"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	PasswordHash   string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
