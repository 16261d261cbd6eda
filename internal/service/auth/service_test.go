package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/repository"
	"github.com/telemeet/telemed-api/pkg/auth"
	apperrors "github.com/telemeet/telemed-api/pkg/errors"
	"github.com/telemeet/telemed-api/pkg/security"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) RegisterDoctor(ctx context.Context, user *model.User, doctor *model.Doctor) error {
	return f.register(user)
}

func (f *fakeUserRepo) RegisterPatient(ctx context.Context, user *model.User, patient *model.Patient) error {
	return f.register(user)
}

func (f *fakeUserRepo) register(user *model.User) error {
	if _, exists := f.users[user.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email, role string) (*model.User, error) {
	user, ok := f.users[email]
	if !ok || user.Role != role {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func newTestService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	svc := NewService(repo, security.NewBcryptHasher(4), auth.NewJWTService("test-secret", TokenExpiry(1)))
	return svc, repo
}

func doctorRequest(email string) *model.RegisterDoctorRequest {
	return &model.RegisterDoctorRequest{
		Name:       "Dr. Sarah Chen",
		Email:      email,
		Password:   "s3cret-password",
		Specialty:  "Cardiology",
		Experience: 12,
		Price:      80,
		Languages:  []string{"English", "Mandarin"},
	}
}

func TestRegisterThenLoginRoundtrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	doctor, err := svc.RegisterDoctor(ctx, doctorRequest("sarah@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "Cardiology", doctor.Specialty)
	assert.Equal(t, 4.5, doctor.Rating)
	assert.NotEqual(t, uuid.Nil, doctor.ID)

	tokens, user, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "sarah@example.com",
		Password: "s3cret-password",
		Role:     model.RoleDoctor,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.Token)
	assert.Equal(t, doctor.ID, user.ID)
	assert.Equal(t, model.RoleDoctor, user.Role)

	claims, err := svc.ValidateToken(ctx, tokens.Token)
	require.NoError(t, err)
	assert.Equal(t, doctor.ID, claims.UserID)
	assert.Equal(t, model.RoleDoctor, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	first, err := svc.RegisterDoctor(ctx, doctorRequest("dup@example.com"))
	require.NoError(t, err)

	_, err = svc.RegisterDoctor(ctx, doctorRequest("dup@example.com"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeDuplicate))

	// First registration untouched.
	stored, err := repo.GetByEmail(ctx, "dup@example.com", model.RoleDoctor)
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.RegisterPatient(ctx, &model.RegisterPatientRequest{
		Name:     "Alex Rivera",
		Email:    "alex@example.com",
		Password: "patient-pass-1",
	})
	require.NoError(t, err)

	_, _, wrongPass := svc.Login(ctx, &model.LoginRequest{
		Email: "alex@example.com", Password: "wrong", Role: model.RolePatient,
	})
	_, _, noUser := svc.Login(ctx, &model.LoginRequest{
		Email: "nobody@example.com", Password: "wrong", Role: model.RolePatient,
	})

	require.Error(t, wrongPass)
	require.Error(t, noUser)
	wrongErr, _ := apperrors.AsAppError(wrongPass)
	noUserErr, _ := apperrors.AsAppError(noUser)
	assert.Equal(t, wrongErr.Message, noUserErr.Message)
	assert.Equal(t, wrongErr.Code, noUserErr.Code)
}

func TestLoginWrongRoleRejected(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.RegisterPatient(ctx, &model.RegisterPatientRequest{
		Name:     "Alex Rivera",
		Email:    "alex@example.com",
		Password: "patient-pass-1",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, &model.LoginRequest{
		Email: "alex@example.com", Password: "patient-pass-1", Role: model.RoleDoctor,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}
