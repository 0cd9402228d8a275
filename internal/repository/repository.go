package repository

import (
	"context"

	"carloc-backend/internal/calendar"
	"carloc-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type AgencyRepository interface {
	Create(ctx context.Context, agency *domain.Agency) error
	GetByID(ctx context.Context, id int32) (*domain.Agency, error)
	List(ctx context.Context) ([]domain.Agency, error)
	SearchByCity(ctx context.Context, city string) ([]domain.Agency, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id int32) (*domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) error
	Delete(ctx context.Context, id int32) error
	ListByAgency(ctx context.Context, agencyID int32, page, pageSize int32) ([]domain.Vehicle, int32, error)
	Search(ctx context.Context, city string, maxDayRateCents int64, page, pageSize int32) ([]domain.Vehicle, int32, error)
	// HasBlockingReservations reports whether any non-cancelled reservation
	// exists for the vehicle. Vehicles with blocking reservations are
	// immutable.
	HasBlockingReservations(ctx context.Context, vehicleID int32) (bool, error)
}

type ReservationRepository interface {
	// CreateIfFree inserts the reservation only if no non-cancelled
	// reservation for the same vehicle overlaps its inclusive day range. The
	// overlap re-check and the insert run in one transaction with the vehicle
	// row locked, so two concurrent writers for overlapping ranges cannot
	// both succeed. Returns domain.ErrConflict on overlap.
	CreateIfFree(ctx context.Context, r *domain.Reservation) error

	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)

	// ListByVehicle returns reservations for the vehicle whose day range
	// intersects [from, to]. agencyID filters to the owning agency when > 0.
	ListByVehicle(ctx context.Context, vehicleID, agencyID int32, from, to calendar.Day) ([]domain.Reservation, error)

	ListByRenter(ctx context.Context, renterID int32, page, pageSize int32) ([]domain.Reservation, int32, error)

	// DeleteByStay removes at most one reservation matching vehicle, renter
	// and the exact day range (date-only comparison), returning the deleted
	// row. No match yields domain.ErrNotFound.
	DeleteByStay(ctx context.Context, vehicleID, renterID int32, start, end calendar.Day) (*domain.Reservation, error)

	SetValidation(ctx context.Context, reservationID, agencyID int32, state domain.ValidationState) error
	MarkPaid(ctx context.Context, reservationID int32, paymentRef string) error

	// WeeklyPaidTotalCents sums paid amounts for the vehicle's reservations
	// starting within the current calendar week.
	WeeklyPaidTotalCents(ctx context.Context, vehicleID int32) (int64, error)
}
