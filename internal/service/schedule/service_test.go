package schedule

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/repository"
	apperrors "github.com/telemeet/telemed-api/pkg/errors"
)

type fakeSlotRepo struct {
	slots []*model.Slot
}

func (f *fakeSlotRepo) Create(ctx context.Context, slot *model.Slot) error {
	slot.ID = uuid.New()
	slot.Available = true
	f.slots = append(f.slots, slot)
	return nil
}

func (f *fakeSlotRepo) Get(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	for _, slot := range f.slots {
		if slot.ID == id {
			return slot, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeSlotRepo) ListAvailable(ctx context.Context, doctorID uuid.UUID) ([]*model.Slot, error) {
	var out []*model.Slot
	for _, slot := range f.slots {
		if slot.DoctorID == doctorID && slot.Available {
			out = append(out, slot)
		}
	}
	return out, nil
}

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor
}

func (f *fakeDoctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, ok := f.doctors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return doctor, nil
}

func (f *fakeDoctorRepo) List(ctx context.Context) ([]*model.Doctor, error) { return nil, nil }

func newTestService() (*Service, uuid.UUID) {
	doctorID := uuid.New()
	doctorRepo := &fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{
		doctorID: {ID: doctorID, Name: "Dr. Sarah Chen"},
	}}
	return NewService(&fakeSlotRepo{}, doctorRepo), doctorID
}

func TestAddSlotAllowsDuplicates(t *testing.T) {
	svc, doctorID := newTestService()
	ctx := context.Background()
	req := &model.AddSlotRequest{Date: "2026-09-01", Time: "10:00 AM"}

	first, err := svc.AddSlot(ctx, doctorID, req)
	require.NoError(t, err)
	assert.True(t, first.Available)

	// Identical slots may coexist and book independently.
	second, err := svc.AddSlot(ctx, doctorID, req)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	slots, err := svc.ListAvailable(ctx, doctorID)
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

func TestAddSlotUnknownDoctor(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AddSlot(context.Background(), uuid.New(), &model.AddSlotRequest{
		Date: "2026-09-01", Time: "10:00 AM",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = svc.ListAvailable(context.Background(), uuid.New())
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}
