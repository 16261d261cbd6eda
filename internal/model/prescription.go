package model

import (
	"time"

	"github.com/google/uuid"
)

// Medicine is a single line item on a prescription. Dosage, frequency and
// duration are free text.
type Medicine struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Dosage    string    `json:"dosage" db:"dosage"`
	Frequency string    `json:"frequency" db:"frequency"`
	Duration  string    `json:"duration" db:"duration"`
	Quantity  int       `json:"quantity" db:"quantity"`
}

// Prescription is a doctor-authored medicine list tied to exactly one
// consultation. Immutable after creation.
type Prescription struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	ConsultationID uuid.UUID  `json:"consultation_id" db:"consultation_id"`
	DoctorID       uuid.UUID  `json:"doctor_id" db:"doctor_id"`
	PatientID      uuid.UUID  `json:"patient_id" db:"patient_id"`
	Instructions   string     `json:"instructions" db:"instructions"`
	IssuedAt       time.Time  `json:"issued_at" db:"issued_at"`
	Medicines      []Medicine `json:"medicines" db:"-"`
}

type MedicineInput struct {
	Name      string `json:"name" binding:"required"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
	Quantity  int    `json:"quantity" binding:"min=1"`
}

type IssuePrescriptionRequest struct {
	ConsultationID uuid.UUID       `json:"consultation_id" binding:"required"`
	Medicines      []MedicineInput `json:"medicines" binding:"required,min=1,dive"`
	Instructions   string          `json:"instructions"`
}
