package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/telemeet/telemed-api/internal/model"
)

// Sentinel errors surfaced by the postgres layer; services translate them
// into the application error taxonomy.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrSlotTaken      = errors.New("slot no longer available")
	ErrAlreadyIssued  = errors.New("prescription already issued for consultation")
	ErrStaleStatus    = errors.New("status changed concurrently")
)

// All repository interfaces in one file
type (
	// UserRepository persists identities plus their role profiles. The
	// register methods write user and profile rows in one transaction and
	// rely on the unique email index, so a duplicate registration leaves
	// no partial state.
	UserRepository interface {
		RegisterDoctor(ctx context.Context, user *model.User, doctor *model.Doctor) error
		RegisterPatient(ctx context.Context, user *model.User, patient *model.Patient) error
		GetByEmail(ctx context.Context, email, role string) (*model.User, error)
	}

	DoctorRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		List(ctx context.Context) ([]*model.Doctor, error)
	}

	PatientRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		List(ctx context.Context) ([]*model.Patient, error)
		Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	SlotRepository interface {
		Create(ctx context.Context, slot *model.Slot) error
		Get(ctx context.Context, id uuid.UUID) (*model.Slot, error)
		ListAvailable(ctx context.Context, doctorID uuid.UUID) ([]*model.Slot, error)
	}

	// ConsultationRepository owns the booking transaction: the slot
	// availability flip is conditional on available=TRUE, so two
	// concurrent bookings of one slot cannot both succeed.
	ConsultationRepository interface {
		Book(ctx context.Context, consultation *model.Consultation, event *model.OutboxEvent) error
		Get(ctx context.Context, id uuid.UUID) (*model.Consultation, error)
		ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Consultation, error)
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Consultation, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.ConsultationStatus) error
	}

	// PrescriptionRepository writes the prescription, its medicines, the
	// consultation status advance and the outbox event atomically.
	PrescriptionRepository interface {
		Issue(ctx context.Context, rx *model.Prescription, event *model.OutboxEvent) error
		Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error)
	}

	OrderRepository interface {
		Create(ctx context.Context, order *model.PharmacyOrder) error
		Get(ctx context.Context, id uuid.UUID) (*model.PharmacyOrder, error)
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.PharmacyOrder, error)
		AdvanceStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
	}
)
