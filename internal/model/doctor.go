package model

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is a user of role doctor joined with its profile attributes.
type Doctor struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Specialty  string    `json:"specialty" db:"specialty"`
	Experience int       `json:"experience" db:"experience"`
	Languages  Languages `json:"languages" db:"languages"`
	Price      float64   `json:"price" db:"price"`
	Rating     float64   `json:"rating" db:"rating"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// RegisterDoctorRequest mirrors the registration payload. Languages and
// rating are optional; rating defaults to 4.5.
type RegisterDoctorRequest struct {
	Name       string   `json:"name" binding:"required"`
	Email      string   `json:"email" binding:"required,email"`
	Password   string   `json:"password" binding:"required,min=8"`
	Specialty  string   `json:"specialty" binding:"required"`
	Experience int      `json:"experience" binding:"min=0"`
	Price      float64  `json:"price" binding:"min=0"`
	Languages  []string `json:"languages"`
	Rating     *float64 `json:"rating" binding:"omitempty,min=0,max=5"`
}
