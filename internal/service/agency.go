package service

import (
	"context"
	"fmt"

	"carloc-backend/internal/cache"
	"carloc-backend/internal/domain"
	"carloc-backend/internal/repository"
)

type agencyService struct {
	agencyRepo repository.AgencyRepository
	cache      *cache.Redis
}

func NewAgencyService(agencyRepo repository.AgencyRepository, cache *cache.Redis) AgencyService {
	return &agencyService{agencyRepo: agencyRepo, cache: cache}
}

func (s *agencyService) CreateAgency(ctx context.Context, a *domain.Agency) error {
	if a.Name == "" {
		return domain.Validationf("agency name is required")
	}
	if a.Email == "" {
		return domain.Validationf("agency email is required")
	}
	if err := s.agencyRepo.Create(ctx, a); err != nil {
		return err
	}
	s.cache.DelPattern(ctx, "agencies:*")
	return nil
}

func (s *agencyService) GetAgency(ctx context.Context, id int32) (*domain.Agency, error) {
	if id <= 0 {
		return nil, domain.Validationf("missing agency id")
	}
	return s.agencyRepo.GetByID(ctx, id)
}

func (s *agencyService) ListAgencies(ctx context.Context) ([]domain.Agency, error) {
	const key = "agencies:all"
	var cached []domain.Agency
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	agencies, err := s.agencyRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, agencies)
	return agencies, nil
}

func (s *agencyService) SearchAgencies(ctx context.Context, city string) ([]domain.Agency, error) {
	if city == "" {
		return s.ListAgencies(ctx)
	}

	key := fmt.Sprintf("agencies:city:%s", city)
	var cached []domain.Agency
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	agencies, err := s.agencyRepo.SearchByCity(ctx, city)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, agencies)
	return agencies, nil
}
