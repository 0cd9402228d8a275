package service

import (
	"context"

	"carloc-backend/internal/calendar"
	"carloc-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

type MockAgencyRepo struct{ mock.Mock }

func (m *MockAgencyRepo) Create(ctx context.Context, agency *domain.Agency) error {
	return m.Called(ctx, agency).Error(0)
}

func (m *MockAgencyRepo) GetByID(ctx context.Context, id int32) (*domain.Agency, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agency), args.Error(1)
}

func (m *MockAgencyRepo) List(ctx context.Context) ([]domain.Agency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Agency), args.Error(1)
}

func (m *MockAgencyRepo) SearchByCity(ctx context.Context, city string) ([]domain.Agency, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Agency), args.Error(1)
}

type MockVehicleRepo struct{ mock.Mock }

func (m *MockVehicleRepo) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	return m.Called(ctx, vehicle).Error(0)
}

func (m *MockVehicleRepo) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepo) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	return m.Called(ctx, vehicle).Error(0)
}

func (m *MockVehicleRepo) Delete(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockVehicleRepo) ListByAgency(ctx context.Context, agencyID, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	args := m.Called(ctx, agencyID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Vehicle), args.Get(1).(int32), args.Error(2)
}

func (m *MockVehicleRepo) Search(ctx context.Context, city string, maxDayRateCents int64, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	args := m.Called(ctx, city, maxDayRateCents, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Vehicle), args.Get(1).(int32), args.Error(2)
}

func (m *MockVehicleRepo) HasBlockingReservations(ctx context.Context, vehicleID int32) (bool, error) {
	args := m.Called(ctx, vehicleID)
	return args.Bool(0), args.Error(1)
}

type MockReservationRepo struct{ mock.Mock }

func (m *MockReservationRepo) CreateIfFree(ctx context.Context, r *domain.Reservation) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) ListByVehicle(ctx context.Context, vehicleID, agencyID int32, from, to calendar.Day) ([]domain.Reservation, error) {
	args := m.Called(ctx, vehicleID, agencyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) ListByRenter(ctx context.Context, renterID, page, pageSize int32) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, renterID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Reservation), args.Get(1).(int32), args.Error(2)
}

func (m *MockReservationRepo) DeleteByStay(ctx context.Context, vehicleID, renterID int32, start, end calendar.Day) (*domain.Reservation, error) {
	args := m.Called(ctx, vehicleID, renterID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) SetValidation(ctx context.Context, reservationID, agencyID int32, state domain.ValidationState) error {
	return m.Called(ctx, reservationID, agencyID, state).Error(0)
}

func (m *MockReservationRepo) MarkPaid(ctx context.Context, reservationID int32, paymentRef string) error {
	return m.Called(ctx, reservationID, paymentRef).Error(0)
}

func (m *MockReservationRepo) WeeklyPaidTotalCents(ctx context.Context, vehicleID int32) (int64, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).(int64), args.Error(1)
}

type MockPaymentProvider struct{ mock.Mock }

func (m *MockPaymentProvider) Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CaptureResult), args.Error(1)
}

type MockEmailService struct{ mock.Mock }

func (m *MockEmailService) SendReservationRequested(ctx context.Context, agencyEmail, renterName, vehicleLabel, start, end string) error {
	return m.Called(ctx, agencyEmail, renterName, vehicleLabel, start, end).Error(0)
}

func (m *MockEmailService) SendReservationDecision(ctx context.Context, renterEmail, vehicleLabel string, accepted bool) error {
	return m.Called(ctx, renterEmail, vehicleLabel, accepted).Error(0)
}

func (m *MockEmailService) SendReservationCancelled(ctx context.Context, agencyEmail, renterName, vehicleLabel, start, end string) error {
	return m.Called(ctx, agencyEmail, renterName, vehicleLabel, start, end).Error(0)
}
