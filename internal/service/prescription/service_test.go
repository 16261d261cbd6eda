package prescription

import (
	"context"
	"errors"
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

type fakeRxRepo struct {
	byConsultation map[uuid.UUID]*model.Prescription
	byID           map[uuid.UUID]*model.Prescription
	consultations  map[uuid.UUID]*model.Consultation
	listErr        error
}

func newFakeRxRepo() *fakeRxRepo {
	return &fakeRxRepo{
		byConsultation: make(map[uuid.UUID]*model.Prescription),
		byID:           make(map[uuid.UUID]*model.Prescription),
		consultations:  make(map[uuid.UUID]*model.Consultation),
	}
}

func (f *fakeRxRepo) Issue(ctx context.Context, rx *model.Prescription, event *model.OutboxEvent) error {
	if _, exists := f.byConsultation[rx.ConsultationID]; exists {
		return repository.ErrAlreadyIssued
	}
	consultation, ok := f.consultations[rx.ConsultationID]
	if !ok || consultation.Status != model.ConsultationStatusScheduled {
		return repository.ErrStaleStatus
	}
	consultation.Status = model.ConsultationStatusCompleted
	f.byConsultation[rx.ConsultationID] = rx
	f.byID[rx.ID] = rx
	return nil
}

func (f *fakeRxRepo) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	rx, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return rx, nil
}

func (f *fakeRxRepo) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*model.Prescription
	for _, rx := range f.byID {
		if rx.PatientID == patientID {
			out = append(out, rx)
		}
	}
	return out, nil
}

type fakeConsultRepo struct{ repo *fakeRxRepo }

func (f *fakeConsultRepo) Book(ctx context.Context, c *model.Consultation, e *model.OutboxEvent) error {
	return nil
}

func (f *fakeConsultRepo) Get(ctx context.Context, id uuid.UUID) (*model.Consultation, error) {
	consultation, ok := f.repo.consultations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return consultation, nil
}

func (f *fakeConsultRepo) ListForDoctor(ctx context.Context, id uuid.UUID) ([]*model.Consultation, error) {
	return nil, nil
}

func (f *fakeConsultRepo) ListForPatient(ctx context.Context, id uuid.UUID) ([]*model.Consultation, error) {
	return nil, nil
}

func (f *fakeConsultRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.ConsultationStatus) error {
	return nil
}

type fakePatientRepo struct{}

func (fakePatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return &model.Patient{ID: id, Name: "Alex Rivera", Email: "alex@example.com"}, nil
}

func (fakePatientRepo) List(ctx context.Context) ([]*model.Patient, error) { return nil, nil }

func (fakePatientRepo) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	return nil, repository.ErrNotFound
}

func (fakePatientRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fakeSnapshots struct {
	stored map[uuid.UUID][]*model.Prescription
}

func (f *fakeSnapshots) StorePrescriptions(ctx context.Context, patientID uuid.UUID, prescriptions []*model.Prescription) error {
	if f.stored == nil {
		f.stored = make(map[uuid.UUID][]*model.Prescription)
	}
	f.stored[patientID] = prescriptions
	return nil
}

func (f *fakeSnapshots) GetPrescriptions(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	return f.stored[patientID], nil
}

func newTestService() (*Service, *fakeRxRepo, *fakeSnapshots) {
	repo := newFakeRxRepo()
	snapshots := &fakeSnapshots{}
	svc := NewService(
		repo,
		&fakeConsultRepo{repo: repo},
		fakePatientRepo{},
		snapshots,
		email.NewNoopService(),
		logger.NewLogger(nil),
		nil,
	)
	return svc, repo, snapshots
}

func seedConsultation(repo *fakeRxRepo, doctorID uuid.UUID) *model.Consultation {
	consultation := &model.Consultation{
		Base:      model.Base{ID: uuid.New()},
		DoctorID:  doctorID,
		PatientID: uuid.New(),
		Status:    model.ConsultationStatusScheduled,
	}
	repo.consultations[consultation.ID] = consultation
	return consultation
}

func issueRequest(consultationID uuid.UUID) *model.IssuePrescriptionRequest {
	return &model.IssuePrescriptionRequest{
		ConsultationID: consultationID,
		Instructions:   "Take with food",
		Medicines: []model.MedicineInput{
			{Name: "Amoxicillin", Dosage: "500mg", Frequency: "3x daily", Duration: "7 days", Quantity: 21},
		},
	}
}

func TestIssueCompletesConsultation(t *testing.T) {
	svc, repo, _ := newTestService()
	doctorID := uuid.New()
	consultation := seedConsultation(repo, doctorID)

	rx, err := svc.Issue(context.Background(), doctorID, issueRequest(consultation.ID))
	require.NoError(t, err)

	assert.Equal(t, consultation.PatientID, rx.PatientID)
	require.Len(t, rx.Medicines, 1)
	assert.Equal(t, "Amoxicillin", rx.Medicines[0].Name)
	assert.NotEqual(t, uuid.Nil, rx.Medicines[0].ID)
	assert.Equal(t, model.ConsultationStatusCompleted, consultation.Status)
}

func TestIssueTwiceConflicts(t *testing.T) {
	svc, repo, _ := newTestService()
	doctorID := uuid.New()
	consultation := seedConsultation(repo, doctorID)

	_, err := svc.Issue(context.Background(), doctorID, issueRequest(consultation.ID))
	require.NoError(t, err)

	_, err = svc.Issue(context.Background(), doctorID, issueRequest(consultation.ID))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestIssueRejectsWrongDoctorAndMissingConsultation(t *testing.T) {
	svc, repo, _ := newTestService()
	consultation := seedConsultation(repo, uuid.New())

	_, err := svc.Issue(context.Background(), uuid.New(), issueRequest(consultation.ID))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = svc.Issue(context.Background(), uuid.New(), issueRequest(uuid.New()))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestIssueRejectsCancelledConsultation(t *testing.T) {
	svc, repo, _ := newTestService()
	doctorID := uuid.New()
	consultation := seedConsultation(repo, doctorID)
	consultation.Status = model.ConsultationStatusCancelled

	_, err := svc.Issue(context.Background(), doctorID, issueRequest(consultation.ID))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestListForPatientFallsBackToSnapshot(t *testing.T) {
	svc, repo, snapshots := newTestService()
	doctorID := uuid.New()
	consultation := seedConsultation(repo, doctorID)

	rx, err := svc.Issue(context.Background(), doctorID, issueRequest(consultation.ID))
	require.NoError(t, err)

	// Healthy path refreshes the snapshot.
	listed, err := svc.ListForPatient(context.Background(), rx.PatientID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Len(t, snapshots.stored[rx.PatientID], 1)

	// Primary store down: the snapshot copy is served.
	repo.listErr = errors.New("connection refused")
	listed, err = svc.ListForPatient(context.Background(), rx.PatientID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, rx.ID, listed[0].ID)

	// No snapshot for an unknown patient: the outage surfaces.
	_, err = svc.ListForPatient(context.Background(), uuid.New())
	require.Error(t, err)
}
