package service

import (
	"context"

	"carloc-backend/internal/calendar"
	"carloc-backend/internal/domain"
)

// CreateReservationInput is the reservation writer's request. Start and end
// are inclusive calendar days already parsed at the API edge; AmountCents is
// the client's quoted total and must match the server-side recomputation.
type CreateReservationInput struct {
	AgencyID         int32
	VehicleID        int32
	RenterExternalID string
	Start            calendar.Day
	End              calendar.Day
	AmountCents      int64
	// ApprovalRequired selects the agency-mediated path: the reservation
	// starts with validation pending until the agency accepts or rejects.
	// Self-service bookings start accepted.
	ApprovalRequired bool
	Paid             bool
	PaymentRef       string
}

type BookingService interface {
	// Availability rebuilds the day-by-day projection for the vehicle over
	// the configured horizon. Read-only; an empty index is a valid result.
	Availability(ctx context.Context, vehicleID, agencyID int32) (*calendar.AvailabilityIndex, error)

	// QuoteForVehicle prices the inclusive range with the vehicle's stored
	// weekday/weekend rates.
	QuoteForVehicle(ctx context.Context, vehicleID int32, start, end calendar.Day) (calendar.Quote, error)

	// CreateReservation re-validates the range against current bookings and
	// commits the row; overlapping ranges fail with domain.ErrConflict.
	CreateReservation(ctx context.Context, in CreateReservationInput) (*domain.Reservation, error)

	// CancelReservation deletes the renter's reservation matching the exact
	// stay; it must belong to the requesting renter and must not have
	// started.
	CancelReservation(ctx context.Context, renterExternalID string, vehicleID int32, start, end calendar.Day) (*domain.Reservation, error)

	// Decide applies the agency's accept/reject decision on a pending
	// reservation request.
	Decide(ctx context.Context, agencyExternalID string, reservationID int32, accepted bool) (*domain.Reservation, error)

	// PayReservation captures payment for an accepted, not yet paid
	// reservation owned by the caller and records the payment reference.
	PayReservation(ctx context.Context, renterExternalID string, reservationID int32) (*domain.Reservation, error)

	ListRenterReservations(ctx context.Context, renterExternalID string, page, pageSize int32) ([]domain.Reservation, int32, error)
	ListVehicleReservations(ctx context.Context, vehicleID, agencyID int32) ([]domain.Reservation, error)

	// WeeklyRevenue sums paid reservation amounts starting in the current
	// calendar week for one vehicle.
	WeeklyRevenue(ctx context.Context, vehicleID int32) (int64, error)
}

type VehicleService interface {
	AddVehicle(ctx context.Context, vehicle *domain.Vehicle) error
	GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error)
	// UpdateVehicle rejects changes with domain.ErrConflict once the vehicle
	// has non-cancelled bookings.
	UpdateVehicle(ctx context.Context, vehicle *domain.Vehicle) error
	DeleteVehicle(ctx context.Context, id, agencyID int32) error
	ListByAgency(ctx context.Context, agencyID int32, page, pageSize int32) ([]domain.Vehicle, int32, error)
	Search(ctx context.Context, city string, maxDayRateCents int64, page, pageSize int32) ([]domain.Vehicle, int32, error)
}

type AgencyService interface {
	CreateAgency(ctx context.Context, agency *domain.Agency) error
	GetAgency(ctx context.Context, id int32) (*domain.Agency, error)
	ListAgencies(ctx context.Context) ([]domain.Agency, error)
	SearchAgencies(ctx context.Context, city string) ([]domain.Agency, error)
}

type AuthService interface {
	Signup(ctx context.Context, name, email, phone, password string, role domain.UserRole, agencyID *int32) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (string, string, error)                                                                    // access, refresh
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	// ResolveUser maps the external identity subject to the internal user
	// row, creating it on first sight.
	ResolveUser(ctx context.Context, externalID, name, email string, role domain.UserRole) (*domain.User, error)
}

// CaptureRequest describes a payment to capture with the external provider.
type CaptureRequest struct {
	AmountCents int64
	Currency    string
	RenterEmail string
	Description string
}

// CaptureResult reports what the provider actually charged.
type CaptureResult struct {
	Reference    string
	ChargedCents int64
}

// PaymentProvider is the narrow interface over the external capture service.
type PaymentProvider interface {
	Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error)
}

type EmailService interface {
	SendReservationRequested(ctx context.Context, agencyEmail, renterName, vehicleLabel, start, end string) error
	SendReservationDecision(ctx context.Context, renterEmail, vehicleLabel string, accepted bool) error
	SendReservationCancelled(ctx context.Context, agencyEmail, renterName, vehicleLabel, start, end string) error
}
