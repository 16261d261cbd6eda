package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/repository"
	apperrors "github.com/telemeet/telemed-api/pkg/errors"
)

const (
	directoryCacheKey = "doctors:all"
	directoryCacheTTL = 30 * time.Second
)

type Service struct {
	repo  repository.DoctorRepository
	cache *cache.Cache
}

func NewService(repo repository.DoctorRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(directoryCacheTTL, 5*time.Minute),
	}
}

// List returns the directory most-recently-registered first, served from
// a short-lived in-process cache.
func (s *Service) List(ctx context.Context) ([]*model.Doctor, error) {
	if cached, found := s.cache.Get(directoryCacheKey); found {
		return cached.([]*model.Doctor), nil
	}

	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	s.cache.Set(directoryCacheKey, doctors, cache.DefaultExpiration)
	return doctors, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor")
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return doctor, nil
}

// InvalidateDirectory drops the cached listing after a registration so a
// new doctor shows up immediately.
func (s *Service) InvalidateDirectory() {
	s.cache.Delete(directoryCacheKey)
}
