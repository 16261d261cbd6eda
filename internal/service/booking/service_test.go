package booking

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemeet/telemed-api/internal/email"
	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/repository"
	apperrors "github.com/telemeet/telemed-api/pkg/errors"
	"github.com/telemeet/telemed-api/pkg/logger"
)

type fakeStore struct {
	doctors       map[uuid.UUID]*model.Doctor
	slots         map[uuid.UUID]*model.Slot
	patients      map[uuid.UUID]*model.Patient
	consultations map[uuid.UUID]*model.Consultation
	events        []*model.OutboxEvent
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		doctors:       make(map[uuid.UUID]*model.Doctor),
		slots:         make(map[uuid.UUID]*model.Slot),
		patients:      make(map[uuid.UUID]*model.Patient),
		consultations: make(map[uuid.UUID]*model.Consultation),
	}
}

type fakeDoctorRepo struct{ store *fakeStore }

func (f *fakeDoctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, ok := f.store.doctors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return doctor, nil
}

func (f *fakeDoctorRepo) List(ctx context.Context) ([]*model.Doctor, error) { return nil, nil }

type fakeSlotRepo struct{ store *fakeStore }

func (f *fakeSlotRepo) Create(ctx context.Context, slot *model.Slot) error {
	f.store.slots[slot.ID] = slot
	return nil
}

func (f *fakeSlotRepo) Get(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	slot, ok := f.store.slots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return slot, nil
}

func (f *fakeSlotRepo) ListAvailable(ctx context.Context, doctorID uuid.UUID) ([]*model.Slot, error) {
	var out []*model.Slot
	for _, slot := range f.store.slots {
		if slot.DoctorID == doctorID && slot.Available {
			out = append(out, slot)
		}
	}
	return out, nil
}

type fakePatientRepo struct{ store *fakeStore }

func (f *fakePatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, ok := f.store.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return patient, nil
}

func (f *fakePatientRepo) List(ctx context.Context) ([]*model.Patient, error) { return nil, nil }

func (f *fakePatientRepo) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	return nil, repository.ErrNotFound
}

func (f *fakePatientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return repository.ErrNotFound
}

// fakeConsultRepo mirrors the conditional slot flip the postgres layer
// does inside the booking transaction.
type fakeConsultRepo struct{ store *fakeStore }

func (f *fakeConsultRepo) Book(ctx context.Context, consultation *model.Consultation, event *model.OutboxEvent) error {
	slot, ok := f.store.slots[consultation.SlotID]
	if !ok || !slot.Available {
		return repository.ErrSlotTaken
	}
	slot.Available = false
	slot.Critical = consultation.Critical
	f.store.consultations[consultation.ID] = consultation
	f.store.events = append(f.store.events, event)
	return nil
}

func (f *fakeConsultRepo) Get(ctx context.Context, id uuid.UUID) (*model.Consultation, error) {
	consultation, ok := f.store.consultations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return consultation, nil
}

func (f *fakeConsultRepo) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Consultation, error) {
	var out []*model.Consultation
	for _, c := range f.store.consultations {
		if c.DoctorID == doctorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConsultRepo) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Consultation, error) {
	var out []*model.Consultation
	for _, c := range f.store.consultations {
		if c.PatientID == patientID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConsultRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.ConsultationStatus) error {
	consultation, ok := f.store.consultations[id]
	if !ok {
		return repository.ErrNotFound
	}
	if consultation.Status != from {
		return repository.ErrStaleStatus
	}
	consultation.Status = to
	return nil
}

type fakeOutboxRepo struct{ store *fakeStore }

func (f *fakeOutboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error {
	f.store.events = append(f.store.events, event)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	return nil
}

func newTestService(store *fakeStore) *Service {
	return NewService(
		&fakeConsultRepo{store: store},
		&fakeSlotRepo{store: store},
		&fakeDoctorRepo{store: store},
		&fakePatientRepo{store: store},
		&fakeOutboxRepo{store: store},
		email.NewNoopService(),
		logger.NewLogger(nil),
		nil,
	)
}

func seedDoctor(store *fakeStore) uuid.UUID {
	doctor := &model.Doctor{ID: uuid.New(), Name: "Dr. Sarah Chen", Specialty: "Cardiology"}
	store.doctors[doctor.ID] = doctor
	return doctor.ID
}

func seedSlot(store *fakeStore, doctorID uuid.UUID) *model.Slot {
	slot := &model.Slot{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		Date:      "2026-09-01",
		Time:      "10:00 AM",
		Available: true,
	}
	store.slots[slot.ID] = slot
	return slot
}

func seedPatient(store *fakeStore) *model.Patient {
	patient := &model.Patient{
		ID:    uuid.New(),
		Name:  "Alex Rivera",
		Email: "alex@example.com",
	}
	store.patients[patient.ID] = patient
	return patient
}

func TestBookReservesSlot(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	doctorID := seedDoctor(store)
	slot := seedSlot(store, doctorID)
	patient := seedPatient(store)

	consultation, err := svc.Book(context.Background(), &model.BookConsultationRequest{
		DoctorID:  doctorID,
		SlotID:    slot.ID,
		PatientID: patient.ID,
		Critical:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, model.ConsultationStatusScheduled, consultation.Status)
	assert.Equal(t, slot.Date, consultation.Date)
	assert.Equal(t, slot.Time, consultation.Time)
	assert.True(t, consultation.Critical)
	assert.True(t, strings.HasPrefix(consultation.MeetingLink, meetingBaseURL+"/"))
	assert.False(t, slot.Available)

	require.Len(t, store.events, 1)
	assert.Equal(t, model.EventConsultationBooked, store.events[0].EventType)
}

func TestBookSameSlotTwiceConflicts(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	doctorID := seedDoctor(store)
	slot := seedSlot(store, doctorID)
	patient := seedPatient(store)

	req := &model.BookConsultationRequest{
		DoctorID:  doctorID,
		SlotID:    slot.ID,
		PatientID: patient.ID,
	}
	_, err := svc.Book(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	assert.Len(t, store.consultations, 1)
}

func TestBookUnknownSlotOrPatient(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	doctorID := seedDoctor(store)
	slot := seedSlot(store, doctorID)
	patient := seedPatient(store)

	_, err := svc.Book(context.Background(), &model.BookConsultationRequest{
		DoctorID:  doctorID,
		SlotID:    uuid.New(),
		PatientID: patient.ID,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = svc.Book(context.Background(), &model.BookConsultationRequest{
		DoctorID:  doctorID,
		SlotID:    slot.ID,
		PatientID: uuid.New(),
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	// Unknown doctor id is rejected before the slot is touched.
	_, err = svc.Book(context.Background(), &model.BookConsultationRequest{
		DoctorID:  uuid.New(),
		SlotID:    slot.ID,
		PatientID: patient.ID,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	// A slot cannot be booked through a different doctor's id.
	otherDoctor := seedDoctor(store)
	_, err = svc.Book(context.Background(), &model.BookConsultationRequest{
		DoctorID:  otherDoctor,
		SlotID:    slot.ID,
		PatientID: patient.ID,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	assert.True(t, slot.Available)
}

func TestCancelScheduledConsultation(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	doctorID := seedDoctor(store)
	slot := seedSlot(store, doctorID)
	patient := seedPatient(store)

	consultation, err := svc.Book(context.Background(), &model.BookConsultationRequest{
		DoctorID:  doctorID,
		SlotID:    slot.ID,
		PatientID: patient.ID,
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), consultation.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConsultationStatusCancelled, cancelled.Status)

	// Second cancel is a conflict, not a silent success.
	_, err = svc.Cancel(context.Background(), consultation.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	_, err = svc.Cancel(context.Background(), uuid.New())
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}
