package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/repository"
	apperrors "github.com/telemeet/telemed-api/pkg/errors"
)

type Service struct {
	slotRepo   repository.SlotRepository
	doctorRepo repository.DoctorRepository
}

func NewService(slotRepo repository.SlotRepository, doctorRepo repository.DoctorRepository) *Service {
	return &Service{
		slotRepo:   slotRepo,
		doctorRepo: doctorRepo,
	}
}

// AddSlot publishes a new available slot for the doctor. Duplicate
// (date, time) entries are allowed; a doctor may list the same slot
// twice and each is booked independently.
func (s *Service) AddSlot(ctx context.Context, doctorID uuid.UUID, req *model.AddSlotRequest) (*model.Slot, error) {
	if _, err := s.doctorRepo.Get(ctx, doctorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor")
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	slot := &model.Slot{
		DoctorID: doctorID,
		Date:     req.Date,
		Time:     req.Time,
	}
	if err := s.slotRepo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to create slot: %w", err)
	}
	return slot, nil
}

// ListAvailable returns the doctor's open slots ordered by date and time.
func (s *Service) ListAvailable(ctx context.Context, doctorID uuid.UUID) ([]*model.Slot, error) {
	if _, err := s.doctorRepo.Get(ctx, doctorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor")
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	slots, err := s.slotRepo.ListAvailable(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}
