package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/repository"
	"github.com/telemeet/telemed-api/pkg/auth"
	apperrors "github.com/telemeet/telemed-api/pkg/errors"
	"github.com/telemeet/telemed-api/pkg/security"
)

const defaultDoctorRating = 4.5

type Service struct {
	userRepo repository.UserRepository
	hasher   security.PasswordHasher
	jwtSvc   auth.JWTService
}

func NewService(userRepo repository.UserRepository, hasher security.PasswordHasher, jwtSvc auth.JWTService) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		jwtSvc:   jwtSvc,
	}
}

// RegisterDoctor creates the identity and doctor profile atomically. A
// duplicate email leaves no partial state.
func (s *Service) RegisterDoctor(ctx context.Context, req *model.RegisterDoctorRequest) (*model.Doctor, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	rating := defaultDoctorRating
	if req.Rating != nil {
		rating = *req.Rating
	}
	languages := req.Languages
	if languages == nil {
		languages = []string{}
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleDoctor,
	}
	doctor := &model.Doctor{
		ID:         user.ID,
		Name:       req.Name,
		Email:      req.Email,
		Specialty:  req.Specialty,
		Experience: req.Experience,
		Languages:  languages,
		Price:      req.Price,
		Rating:     rating,
	}

	if err := s.userRepo.RegisterDoctor(ctx, user, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.Duplicate("email already registered")
		}
		return nil, fmt.Errorf("failed to register doctor: %w", err)
	}

	doctor.CreatedAt = user.CreatedAt
	return doctor, nil
}

// RegisterPatient mirrors RegisterDoctor for the patient role.
func (s *Service) RegisterPatient(ctx context.Context, req *model.RegisterPatientRequest) (*model.Patient, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RolePatient,
	}
	patient := &model.Patient{
		ID:     user.ID,
		Name:   req.Name,
		Email:  req.Email,
		Age:    req.Age,
		Gender: req.Gender,
		Phone:  req.Phone,
	}

	if err := s.userRepo.RegisterPatient(ctx, user, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.Duplicate("email already registered")
		}
		return nil, fmt.Errorf("failed to register patient: %w", err)
	}

	patient.CreatedAt = user.CreatedAt
	return patient, nil
}

// Login authenticates and returns a signed token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, *model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email, req.Role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperrors.Unauthorized(err)
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, nil, apperrors.Unauthorized(err)
	}

	token, err := s.jwtSvc.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.TokenResponse{Token: token}, user, nil
}

// ValidateToken verifies an access token for the auth middleware.
func (s *Service) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return claims, nil
}

// TokenExpiry converts configured hours to a duration, defaulting to 24h.
func TokenExpiry(hours int) time.Duration {
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}
