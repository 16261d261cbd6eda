package doctor

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

type fakeDoctorRepo struct {
	doctors   []*model.Doctor
	listCalls int
}

func (f *fakeDoctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	for _, d := range f.doctors {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDoctorRepo) List(ctx context.Context) ([]*model.Doctor, error) {
	f.listCalls++
	return f.doctors, nil
}

func TestListServesFromCache(t *testing.T) {
	repo := &fakeDoctorRepo{doctors: []*model.Doctor{
		{ID: uuid.New(), Name: "Dr. Sarah Chen", Specialty: "Cardiology"},
	}}
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Second read within the TTL does not hit the repository.
	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	// Invalidation forces a fresh read.
	repo.doctors = append(repo.doctors, &model.Doctor{ID: uuid.New(), Name: "Dr. Raj Patel"})
	svc.InvalidateDirectory()

	refreshed, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, refreshed, 2)
	assert.Equal(t, 2, repo.listCalls)
}

func TestGetUnknownDoctor(t *testing.T) {
	svc := NewService(&fakeDoctorRepo{})

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}
