package model

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a user of role patient joined with its profile attributes.
type Patient struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Age       *int      `json:"age" db:"age"`
	Gender    *string   `json:"gender" db:"gender"`
	Phone     *string   `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type RegisterPatientRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Age      *int    `json:"age" binding:"omitempty,min=0,max=150"`
	Gender   *string `json:"gender" binding:"omitempty,oneof=male female other"`
	Phone    *string `json:"phone"`
}

// UpdatePatientRequest supports partial updates; nil fields are left as-is.
type UpdatePatientRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email" binding:"omitempty,email"`
	Age    *int    `json:"age" binding:"omitempty,min=0,max=150"`
	Gender *string `json:"gender" binding:"omitempty,oneof=male female other"`
	Phone  *string `json:"phone"`
}
