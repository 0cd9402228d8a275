package service

import (
	"context"
	"fmt"
	"time"

	"carloc-backend/internal/calendar"
	"carloc-backend/internal/domain"
	"carloc-backend/internal/logger"
	"carloc-backend/internal/repository"
)

type bookingService struct {
	reservationRepo repository.ReservationRepository
	vehicleRepo     repository.VehicleRepository
	userRepo        repository.UserRepository
	agencyRepo      repository.AgencyRepository
	emailSvc        EmailService
	payments        PaymentProvider

	horizonPast   int
	horizonFuture int
	now           func() time.Time
}

func NewBookingService(
	reservationRepo repository.ReservationRepository,
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	agencyRepo repository.AgencyRepository,
	emailSvc EmailService,
	payments PaymentProvider,
	horizonMonthsPast, horizonMonthsFuture int,
) BookingService {
	return &bookingService{
		reservationRepo: reservationRepo,
		vehicleRepo:     vehicleRepo,
		userRepo:        userRepo,
		agencyRepo:      agencyRepo,
		emailSvc:        emailSvc,
		payments:        payments,
		horizonPast:     horizonMonthsPast,
		horizonFuture:   horizonMonthsFuture,
		now:             time.Now,
	}
}

func (s *bookingService) horizon() calendar.Horizon {
	return calendar.DefaultHorizon(s.now(), s.horizonPast, s.horizonFuture)
}

func (s *bookingService) Availability(ctx context.Context, vehicleID, agencyID int32) (*calendar.AvailabilityIndex, error) {
	if vehicleID <= 0 {
		return nil, domain.Validationf("missing vehicle id")
	}

	h := s.horizon()
	reservations, err := s.reservationRepo.ListByVehicle(ctx, vehicleID, agencyID, h.From, h.To)
	if err != nil {
		return nil, err
	}
	// Zero reservations means the whole horizon is free, not an error.
	return calendar.BuildIndex(s.now(), h, reservations)
}

func (s *bookingService) QuoteForVehicle(ctx context.Context, vehicleID int32, start, end calendar.Day) (calendar.Quote, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return calendar.Quote{}, err
	}
	start, end = calendar.OrderRange(start, end)
	return calendar.Price(start, end, vehicle.WeekdayRateCents, vehicle.WeekendRateCents)
}

func (s *bookingService) CreateReservation(ctx context.Context, in CreateReservationInput) (*domain.Reservation, error) {
	if in.VehicleID <= 0 {
		return nil, domain.Validationf("missing vehicle id")
	}
	if in.AgencyID <= 0 {
		return nil, domain.Validationf("missing agency id")
	}
	if in.RenterExternalID == "" {
		return nil, domain.Validationf("missing renter id")
	}

	start, end := calendar.OrderRange(in.Start, in.End)
	today := calendar.DayOf(s.now())
	if start.Before(today) {
		return nil, domain.Validationf("start date %s is in the past", start)
	}

	renter, err := s.userRepo.GetByExternalID(ctx, in.RenterExternalID)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, in.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.AgencyID != in.AgencyID {
		return nil, domain.Validationf("vehicle %d does not belong to agency %d", in.VehicleID, in.AgencyID)
	}
	if !vehicle.Available {
		return nil, domain.Conflictf("vehicle %d is not open for booking", in.VehicleID)
	}

	// The price is derived from the vehicle's stored rates; a client total
	// that disagrees is rejected, never silently corrected.
	quote, err := calendar.Price(start, end, vehicle.WeekdayRateCents, vehicle.WeekendRateCents)
	if err != nil {
		return nil, err
	}
	if in.AmountCents != quote.TotalCents {
		return nil, domain.Validationf("amount %d does not match computed price %d", in.AmountCents, quote.TotalCents)
	}

	// Advisory re-check against a fresh index. The selection the client
	// validated may be stale; this catches most races early with a clear
	// error. The authoritative check runs inside the insert transaction.
	idx, err := s.Availability(ctx, in.VehicleID, in.AgencyID)
	if err != nil {
		return nil, err
	}
	if blocked, found := idx.FirstBlocked(start, end); found {
		return nil, domain.Conflictf("day %s is no longer available", blocked)
	}

	validation := domain.ValidationAccepted
	if in.ApprovalRequired {
		validation = domain.ValidationPending
	}

	reservation := &domain.Reservation{
		VehicleID:   in.VehicleID,
		AgencyID:    in.AgencyID,
		RenterID:    renter.ID,
		StartDate:   start.String(),
		EndDate:     end.String(),
		AmountCents: quote.TotalCents,
		Paid:        in.Paid,
		Status:      domain.ReservationStatusUpcoming,
		Validation:  validation,
		PaymentRef:  in.PaymentRef,
	}

	if err := s.reservationRepo.CreateIfFree(ctx, reservation); err != nil {
		return nil, err
	}

	s.notifyAgencyRequested(ctx, vehicle, renter, reservation)

	return reservation, nil
}

func (s *bookingService) CancelReservation(ctx context.Context, renterExternalID string, vehicleID int32, start, end calendar.Day) (*domain.Reservation, error) {
	if vehicleID <= 0 {
		return nil, domain.Validationf("missing vehicle id")
	}
	if renterExternalID == "" {
		return nil, domain.Validationf("missing renter id")
	}

	renter, err := s.userRepo.GetByExternalID(ctx, renterExternalID)
	if err != nil {
		return nil, err
	}

	start, end = calendar.OrderRange(start, end)
	today := calendar.DayOf(s.now())
	if !start.After(today) {
		return nil, domain.Validationf("reservation starting %s can no longer be cancelled", start)
	}

	// Ownership is part of the match: the delete keys on renter_id, so a
	// reservation held by someone else comes back as not found.
	reservation, err := s.reservationRepo.DeleteByStay(ctx, vehicleID, renter.ID, start, end)
	if err != nil {
		return nil, err
	}

	s.notifyAgencyCancelled(ctx, reservation, renter)

	return reservation, nil
}

func (s *bookingService) Decide(ctx context.Context, agencyExternalID string, reservationID int32, accepted bool) (*domain.Reservation, error) {
	agent, err := s.userRepo.GetByExternalID(ctx, agencyExternalID)
	if err != nil {
		return nil, err
	}
	if agent.Role != domain.UserRoleAgency || agent.AgencyID == nil {
		return nil, domain.ErrUnauthorized
	}

	state := domain.ValidationRejected
	if accepted {
		state = domain.ValidationAccepted
	}

	if err := s.reservationRepo.SetValidation(ctx, reservationID, *agent.AgencyID, state); err != nil {
		return nil, err
	}

	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	reservation.Validation = state

	s.notifyRenterDecision(ctx, reservation, accepted)

	return reservation, nil
}

// PayReservation settles an accepted, unpaid reservation. Payment is captured
// against the stored amount, never the client's figure.
func (s *bookingService) PayReservation(ctx context.Context, renterExternalID string, reservationID int32) (*domain.Reservation, error) {
	if renterExternalID == "" {
		return nil, domain.Validationf("missing renter id")
	}

	renter, err := s.userRepo.GetByExternalID(ctx, renterExternalID)
	if err != nil {
		return nil, err
	}

	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.RenterID != renter.ID {
		return nil, domain.NotFoundf("reservation %d", reservationID)
	}
	if reservation.Paid {
		return nil, domain.Conflictf("reservation %d is already paid", reservationID)
	}
	if reservation.Validation != domain.ValidationAccepted {
		return nil, domain.Conflictf("reservation %d is not accepted yet", reservationID)
	}
	if reservation.Status != domain.ReservationStatusUpcoming {
		return nil, domain.Conflictf("reservation %d can no longer be paid", reservationID)
	}

	capture, err := s.payments.Capture(ctx, CaptureRequest{
		AmountCents: reservation.AmountCents,
		Currency:    "EUR",
		RenterEmail: renter.Email,
		Description: fmt.Sprintf("reservation %d", reservationID),
	})
	if err != nil {
		return nil, err
	}

	if err := s.reservationRepo.MarkPaid(ctx, reservationID, capture.Reference); err != nil {
		// The charge succeeded but the flag write failed. Surface the error
		// with the reference so reconciliation can pick it up.
		logger.Error("Paid flag write failed after capture", "reservation_id", reservationID, "payment_ref", capture.Reference, "error", err)
		return nil, err
	}

	reservation.Paid = true
	reservation.PaymentRef = capture.Reference
	return reservation, nil
}

func (s *bookingService) ListRenterReservations(ctx context.Context, renterExternalID string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	renter, err := s.userRepo.GetByExternalID(ctx, renterExternalID)
	if err != nil {
		return nil, 0, err
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return s.reservationRepo.ListByRenter(ctx, renter.ID, page, pageSize)
}

func (s *bookingService) ListVehicleReservations(ctx context.Context, vehicleID, agencyID int32) ([]domain.Reservation, error) {
	if vehicleID <= 0 {
		return nil, domain.Validationf("missing vehicle id")
	}
	h := s.horizon()
	return s.reservationRepo.ListByVehicle(ctx, vehicleID, agencyID, h.From, h.To)
}

func (s *bookingService) WeeklyRevenue(ctx context.Context, vehicleID int32) (int64, error) {
	if vehicleID <= 0 {
		return 0, domain.Validationf("missing vehicle id")
	}
	return s.reservationRepo.WeeklyPaidTotalCents(ctx, vehicleID)
}

func vehicleLabel(v *domain.Vehicle) string {
	return fmt.Sprintf("%s %s", v.Brand, v.Model)
}

// Notification failures never fail the booking write; they are logged and
// dropped.
func (s *bookingService) notifyAgencyRequested(ctx context.Context, vehicle *domain.Vehicle, renter *domain.User, r *domain.Reservation) {
	agency, err := s.agencyRepo.GetByID(ctx, r.AgencyID)
	if err != nil {
		logger.Warn("Could not load agency for notification", "agency_id", r.AgencyID, "error", err)
		return
	}
	if err := s.emailSvc.SendReservationRequested(ctx, agency.Email, renter.Name, vehicleLabel(vehicle), r.StartDate, r.EndDate); err != nil {
		logger.Warn("Reservation request notification failed", "reservation_id", r.ID, "error", err)
	}
}

func (s *bookingService) notifyAgencyCancelled(ctx context.Context, r *domain.Reservation, renter *domain.User) {
	agency, err := s.agencyRepo.GetByID(ctx, r.AgencyID)
	if err != nil {
		logger.Warn("Could not load agency for notification", "agency_id", r.AgencyID, "error", err)
		return
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, r.VehicleID)
	if err != nil {
		logger.Warn("Could not load vehicle for notification", "vehicle_id", r.VehicleID, "error", err)
		return
	}
	if err := s.emailSvc.SendReservationCancelled(ctx, agency.Email, renter.Name, vehicleLabel(vehicle), r.StartDate, r.EndDate); err != nil {
		logger.Warn("Cancellation notification failed", "reservation_id", r.ID, "error", err)
	}
}

func (s *bookingService) notifyRenterDecision(ctx context.Context, r *domain.Reservation, accepted bool) {
	renter, err := s.userRepo.GetByID(ctx, r.RenterID)
	if err != nil {
		logger.Warn("Could not load renter for notification", "renter_id", r.RenterID, "error", err)
		return
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, r.VehicleID)
	if err != nil {
		logger.Warn("Could not load vehicle for notification", "vehicle_id", r.VehicleID, "error", err)
		return
	}
	if err := s.emailSvc.SendReservationDecision(ctx, renter.Email, vehicleLabel(vehicle), accepted); err != nil {
		logger.Warn("Decision notification failed", "reservation_id", r.ID, "error", err)
	}
}
