package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is a registered author/reader (PostgreSQL)
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:100"`
	Email     string    `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Bio       string    `json:"bio"`
	Image     string    `json:"image"`
	Password  string    `json:"-"` // Store hashed password, ignore for JSON serialization
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserCompact is the author shape embedded in article and comment payloads
type UserCompact struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
}

// ToCompact strips a user down to its public author fields
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:       u.ID,
		Username: u.Username,
		Bio:      u.Bio,
		Image:    u.Image,
	}
}

// RegisterRequest defines the request body for user registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the request body for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest defines the request body for updating the current user
type UpdateUserRequest struct {
	Username string `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Bio      string `json:"bio,omitempty"`
	Image    string `json:"image,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
