package model

// User role constants
const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// User is the identity record shared by doctors and patients.
// One record per email; the password hash never serializes.
type User struct {
	Base
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
}

// LoginRequest carries credentials plus the profile the caller expects back.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=doctor patient"`
}

// TokenResponse pairs a profile-shaped payload with its access token.
type TokenResponse struct {
	Token   string      `json:"token"`
	Profile interface{} `json:"profile"`
}
