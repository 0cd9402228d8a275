package service

import (
	"context"
	"fmt"

	"carloc-backend/internal/cache"
	"carloc-backend/internal/domain"
	"carloc-backend/internal/repository"
)

type vehicleService struct {
	vehicleRepo repository.VehicleRepository
	cache       *cache.Redis
}

func NewVehicleService(vehicleRepo repository.VehicleRepository, cache *cache.Redis) VehicleService {
	return &vehicleService{vehicleRepo: vehicleRepo, cache: cache}
}

func (s *vehicleService) AddVehicle(ctx context.Context, v *domain.Vehicle) error {
	if v.AgencyID <= 0 {
		return domain.Validationf("missing agency id")
	}
	if v.Brand == "" || v.Model == "" {
		return domain.Validationf("brand and model are required")
	}
	if v.WeekdayRateCents <= 0 || v.WeekendRateCents <= 0 {
		return domain.Validationf("day rates must be positive")
	}

	if err := s.vehicleRepo.Create(ctx, v); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *vehicleService) GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error) {
	if id <= 0 {
		return nil, domain.Validationf("missing vehicle id")
	}
	return s.vehicleRepo.GetByID(ctx, id)
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, v *domain.Vehicle) error {
	if v.ID <= 0 || v.AgencyID <= 0 {
		return domain.Validationf("missing vehicle or agency id")
	}
	if v.WeekdayRateCents <= 0 || v.WeekendRateCents <= 0 {
		return domain.Validationf("day rates must be positive")
	}

	// A vehicle with live bookings is immutable; renters priced against the
	// old rates keep the days they reserved.
	booked, err := s.vehicleRepo.HasBlockingReservations(ctx, v.ID)
	if err != nil {
		return err
	}
	if booked {
		return domain.Conflictf("vehicle %d has active bookings and cannot be modified", v.ID)
	}

	if err := s.vehicleRepo.Update(ctx, v); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, id, agencyID int32) error {
	if id <= 0 {
		return domain.Validationf("missing vehicle id")
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if vehicle.AgencyID != agencyID {
		return domain.ErrUnauthorized
	}

	booked, err := s.vehicleRepo.HasBlockingReservations(ctx, id)
	if err != nil {
		return err
	}
	if booked {
		return domain.Conflictf("vehicle %d has active bookings and cannot be removed", id)
	}

	if err := s.vehicleRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *vehicleService) ListByAgency(ctx context.Context, agencyID int32, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	if agencyID <= 0 {
		return nil, 0, domain.Validationf("missing agency id")
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return s.vehicleRepo.ListByAgency(ctx, agencyID, page, pageSize)
}

type searchPage struct {
	Vehicles []domain.Vehicle `json:"vehicles"`
	Total    int32            `json:"total"`
}

func (s *vehicleService) Search(ctx context.Context, city string, maxDayRateCents int64, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	key := fmt.Sprintf("vehicles:search:%s:%d:%d:%d", city, maxDayRateCents, page, pageSize)
	var cached searchPage
	if s.cache.Get(ctx, key, &cached) {
		return cached.Vehicles, cached.Total, nil
	}

	vehicles, total, err := s.vehicleRepo.Search(ctx, city, maxDayRateCents, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	s.cache.Set(ctx, key, searchPage{Vehicles: vehicles, Total: total})
	return vehicles, total, nil
}

func (s *vehicleService) invalidate(ctx context.Context) {
	s.cache.DelPattern(ctx, "vehicles:search:*")
}
