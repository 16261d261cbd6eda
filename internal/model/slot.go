package model

import (
	"time"

	"github.com/google/uuid"
)

// Slot is a bookable (date, time) offering published by a doctor. Slots
// flip available exactly once when booked and are never deleted.
type Slot struct {
	ID        uuid.UUID `json:"id" db:"id"`
	DoctorID  uuid.UUID `json:"doctor_id" db:"doctor_id"`
	Date      string    `json:"date" db:"slot_date"`
	Time      string    `json:"time" db:"slot_time"`
	Available bool      `json:"available" db:"available"`
	Critical  bool      `json:"critical" db:"critical"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type AddSlotRequest struct {
	Date string `json:"date" binding:"required,slotdate"`
	Time string `json:"time" binding:"required"`
}
