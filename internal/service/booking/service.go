package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/telemeet/telemed-api/internal/email"
	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/repository"
	apperrors "github.com/telemeet/telemed-api/pkg/errors"
	"github.com/telemeet/telemed-api/pkg/logger"
	"github.com/telemeet/telemed-api/pkg/metrics"
)

const meetingBaseURL = "https://meet.telemed.app/room"

type Service struct {
	consultRepo repository.ConsultationRepository
	slotRepo    repository.SlotRepository
	doctorRepo  repository.DoctorRepository
	patientRepo repository.PatientRepository
	outboxRepo  repository.OutboxRepository
	email       email.Service
	logger      *logger.Logger
	metrics     *metrics.Metrics
}

func NewService(
	consultRepo repository.ConsultationRepository,
	slotRepo repository.SlotRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	outboxRepo repository.OutboxRepository,
	emailSvc email.Service,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		consultRepo: consultRepo,
		slotRepo:    slotRepo,
		doctorRepo:  doctorRepo,
		patientRepo: patientRepo,
		outboxRepo:  outboxRepo,
		email:       emailSvc,
		logger:      log,
		metrics:     m,
	}
}

// Book reserves the slot and creates the consultation in one transaction.
// The reservation is conditional on the slot still being available, so of
// two concurrent bookings exactly one succeeds and the other gets a
// conflict.
func (s *Service) Book(ctx context.Context, req *model.BookConsultationRequest) (*model.Consultation, error) {
	if _, err := s.doctorRepo.Get(ctx, req.DoctorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor")
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	slot, err := s.slotRepo.Get(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("slot")
		}
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	if slot.DoctorID != req.DoctorID {
		return nil, apperrors.NotFound("slot")
	}

	patient, err := s.patientRepo.Get(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient")
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	consultation := &model.Consultation{
		Base:        model.Base{ID: uuid.New()},
		DoctorID:    req.DoctorID,
		PatientID:   req.PatientID,
		SlotID:      req.SlotID,
		Date:        slot.Date,
		Time:        slot.Time,
		Status:      model.ConsultationStatusScheduled,
		Critical:    req.Critical,
		MeetingLink: fmt.Sprintf("%s/%s", meetingBaseURL, uuid.New()),
	}

	event, err := model.NewOutboxEvent(model.EventConsultationBooked, consultation)
	if err != nil {
		return nil, fmt.Errorf("failed to build outbox event: %w", err)
	}

	if err := s.consultRepo.Book(ctx, consultation, event); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			s.countBooking("conflict")
			if s.metrics != nil {
				s.metrics.SlotConflicts.Inc()
			}
			return nil, apperrors.Conflict("slot no longer available")
		}
		s.countBooking("error")
		return nil, fmt.Errorf("failed to book consultation: %w", err)
	}
	s.countBooking("success")

	// Confirmation mail is best effort; a send failure never unwinds the
	// booking.
	if err := s.email.SendBookingConfirmation(ctx, patient.Email, patient.Name, slot.Date, slot.Time, consultation.MeetingLink); err != nil {
		s.logger.Error(err, "failed to send booking confirmation", "consultation_id", consultation.ID)
	}

	return consultation, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Consultation, error) {
	consultation, err := s.consultRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("consultation")
		}
		return nil, fmt.Errorf("failed to get consultation: %w", err)
	}
	return consultation, nil
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Consultation, error) {
	consultations, err := s.consultRepo.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	return consultations, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Consultation, error) {
	consultations, err := s.consultRepo.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	return consultations, nil
}

// Cancel moves a scheduled consultation to cancelled. Completed or already
// cancelled consultations are rejected; the slot stays consumed.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*model.Consultation, error) {
	consultation, err := s.consultRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("consultation")
		}
		return nil, fmt.Errorf("failed to get consultation: %w", err)
	}
	if consultation.Status != model.ConsultationStatusScheduled {
		return nil, apperrors.Conflict("only scheduled consultations can be cancelled")
	}

	if err := s.consultRepo.UpdateStatus(ctx, id, model.ConsultationStatusScheduled, model.ConsultationStatusCancelled); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, apperrors.Conflict("consultation status changed")
		}
		return nil, fmt.Errorf("failed to cancel consultation: %w", err)
	}
	consultation.Status = model.ConsultationStatusCancelled

	if event, err := model.NewOutboxEvent(model.EventConsultationCancelled, consultation); err == nil {
		if err := s.outboxRepo.Create(ctx, event); err != nil {
			s.logger.Error(err, "failed to record cancellation event", "consultation_id", id)
		}
	}

	return consultation, nil
}

func (s *Service) countBooking(outcome string) {
	if s.metrics != nil {
		s.metrics.BookingsTotal.WithLabelValues(outcome).Inc()
	}
}
