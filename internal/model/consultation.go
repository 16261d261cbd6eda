package model

import (
	"github.com/google/uuid"
)

type ConsultationStatus string

const (
	ConsultationStatusScheduled ConsultationStatus = "scheduled"
	ConsultationStatusOngoing   ConsultationStatus = "ongoing"
	ConsultationStatusCompleted ConsultationStatus = "completed"
	ConsultationStatusCancelled ConsultationStatus = "cancelled"
)

// Consultation is a confirmed booking between a doctor and a patient tied
// to one slot. It starts scheduled; issuing a prescription moves it to
// completed, cancelling moves it to cancelled.
type Consultation struct {
	Base
	DoctorID    uuid.UUID          `json:"doctor_id" db:"doctor_id"`
	PatientID   uuid.UUID          `json:"patient_id" db:"patient_id"`
	SlotID      uuid.UUID          `json:"slot_id" db:"slot_id"`
	Date        string             `json:"date" db:"slot_date"`
	Time        string             `json:"time" db:"slot_time"`
	Status      ConsultationStatus `json:"status" db:"status"`
	Critical    bool               `json:"critical" db:"critical"`
	MeetingLink string             `json:"meeting_link" db:"meeting_link"`
}

// BookConsultationRequest carries a booking attempt. PatientID is filled
// from the authenticated caller, never from the payload.
type BookConsultationRequest struct {
	DoctorID  uuid.UUID `json:"doctor_id" binding:"required"`
	SlotID    uuid.UUID `json:"slot_id" binding:"required"`
	PatientID uuid.UUID `json:"-"`
	Critical  bool      `json:"critical"`
}
