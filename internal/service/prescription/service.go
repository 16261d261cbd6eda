package prescription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/telemeet/telemed-api/internal/email"
	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/repository"
	apperrors "github.com/telemeet/telemed-api/pkg/errors"
	"github.com/telemeet/telemed-api/pkg/logger"
	"github.com/telemeet/telemed-api/pkg/metrics"
)

// Snapshots is the per-patient offline copy of prescriptions, refreshed on
// successful reads and consulted when the primary store is down.
type Snapshots interface {
	StorePrescriptions(ctx context.Context, patientID uuid.UUID, prescriptions []*model.Prescription) error
	GetPrescriptions(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error)
}

type Service struct {
	rxRepo      repository.PrescriptionRepository
	consultRepo repository.ConsultationRepository
	patientRepo repository.PatientRepository
	snapshots   Snapshots
	email       email.Service
	logger      *logger.Logger
	metrics     *metrics.Metrics
}

func NewService(
	rxRepo repository.PrescriptionRepository,
	consultRepo repository.ConsultationRepository,
	patientRepo repository.PatientRepository,
	snapshots Snapshots,
	emailSvc email.Service,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		rxRepo:      rxRepo,
		consultRepo: consultRepo,
		patientRepo: patientRepo,
		snapshots:   snapshots,
		email:       emailSvc,
		logger:      log,
		metrics:     m,
	}
}

// Issue writes the prescription and completes the consultation in one
// transaction. A consultation carries at most one prescription; a second
// issue attempt is a conflict.
func (s *Service) Issue(ctx context.Context, doctorID uuid.UUID, req *model.IssuePrescriptionRequest) (*model.Prescription, error) {
	consultation, err := s.consultRepo.Get(ctx, req.ConsultationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("consultation")
		}
		return nil, fmt.Errorf("failed to get consultation: %w", err)
	}
	if consultation.DoctorID != doctorID {
		return nil, apperrors.NotFound("consultation")
	}
	if consultation.Status != model.ConsultationStatusScheduled && consultation.Status != model.ConsultationStatusOngoing {
		return nil, apperrors.Conflict("consultation is " + string(consultation.Status))
	}

	rx := &model.Prescription{
		ID:             uuid.New(),
		ConsultationID: consultation.ID,
		DoctorID:       consultation.DoctorID,
		PatientID:      consultation.PatientID,
		Instructions:   req.Instructions,
		IssuedAt:       time.Now(),
		Medicines:      make([]model.Medicine, 0, len(req.Medicines)),
	}
	for _, m := range req.Medicines {
		rx.Medicines = append(rx.Medicines, model.Medicine{
			ID:        uuid.New(),
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
			Quantity:  m.Quantity,
		})
	}

	event, err := model.NewOutboxEvent(model.EventPrescriptionIssued, rx)
	if err != nil {
		return nil, fmt.Errorf("failed to build outbox event: %w", err)
	}

	if err := s.rxRepo.Issue(ctx, rx, event); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyIssued):
			return nil, apperrors.Conflict("prescription already issued for this consultation")
		case errors.Is(err, repository.ErrStaleStatus):
			return nil, apperrors.Conflict("consultation status changed")
		}
		return nil, fmt.Errorf("failed to issue prescription: %w", err)
	}

	s.notifyPatient(ctx, rx)
	s.refreshSnapshot(ctx, rx.PatientID)

	return rx, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	rx, err := s.rxRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("prescription")
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return rx, nil
}

// ListForPatient reads from the primary store and refreshes the snapshot.
// If the primary store is unreachable the stored snapshot is served
// instead, so patients keep access to their medication history.
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	prescriptions, err := s.rxRepo.ListForPatient(ctx, patientID)
	if err != nil {
		if s.snapshots != nil {
			cached, cacheErr := s.snapshots.GetPrescriptions(ctx, patientID)
			if cacheErr == nil && cached != nil {
				if s.metrics != nil {
					s.metrics.SnapshotFallback.WithLabelValues("prescriptions").Inc()
				}
				s.logger.Warn("serving prescriptions from snapshot", "patient_id", patientID)
				return cached, nil
			}
		}
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}

	if s.snapshots != nil {
		if err := s.snapshots.StorePrescriptions(ctx, patientID, prescriptions); err != nil {
			s.logger.Error(err, "failed to refresh prescription snapshot", "patient_id", patientID)
		}
	}
	return prescriptions, nil
}

func (s *Service) notifyPatient(ctx context.Context, rx *model.Prescription) {
	patient, err := s.patientRepo.Get(ctx, rx.PatientID)
	if err != nil {
		s.logger.Error(err, "failed to load patient for prescription notice", "patient_id", rx.PatientID)
		return
	}
	if err := s.email.SendPrescriptionNotice(ctx, patient.Email, patient.Name, len(rx.Medicines)); err != nil {
		s.logger.Error(err, "failed to send prescription notice", "prescription_id", rx.ID)
	}
}

func (s *Service) refreshSnapshot(ctx context.Context, patientID uuid.UUID) {
	if s.snapshots == nil {
		return
	}
	prescriptions, err := s.rxRepo.ListForPatient(ctx, patientID)
	if err != nil {
		return
	}
	if err := s.snapshots.StorePrescriptions(ctx, patientID, prescriptions); err != nil {
		s.logger.Error(err, "failed to refresh prescription snapshot", "patient_id", patientID)
	}
}
