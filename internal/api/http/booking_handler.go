package http

import (
	"net/http"
	"strconv"

	"carloc-backend/internal/calendar"
	"carloc-backend/internal/domain"
	"carloc-backend/internal/logger"
	"carloc-backend/internal/service"

	"github.com/gorilla/mux"
)

// BookingHandler exposes the availability, quoting and reservation endpoints.
type BookingHandler struct {
	bookingSvc service.BookingService
	paymentSvc service.PaymentProvider
}

func NewBookingHandler(bookingSvc service.BookingService, paymentSvc service.PaymentProvider) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc, paymentSvc: paymentSvc}
}

type availabilityResponse struct {
	VehicleID  int32    `json:"vehicle_id"`
	From       string   `json:"from"`
	To         string   `json:"to"`
	BookedDays []string `json:"booked_days"`
}

// GetAvailability returns the booked days for a vehicle over the rolling
// horizon. Free days are implied by absence.
func (h *BookingHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	agencyID, _ := queryInt32(r, "agency_id")

	idx, err := h.bookingSvc.Availability(r.Context(), vehicleID, agencyID)
	if err != nil {
		respondError(w, err)
		return
	}

	booked := idx.BookedDays()
	days := make([]string, 0, len(booked))
	for _, d := range booked {
		days = append(days, d.String())
	}
	respondJSON(w, http.StatusOK, availabilityResponse{
		VehicleID:  vehicleID,
		From:       idx.Horizon().From.String(),
		To:         idx.Horizon().To.String(),
		BookedDays: days,
	})
}

type quoteResponse struct {
	WeekdayCount int   `json:"weekday_count"`
	WeekendCount int   `json:"weekend_count"`
	TotalCents   int64 `json:"total_cents"`
}

// GetQuote prices an inclusive date range with the vehicle's stored rates.
func (h *BookingHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	start, err := calendar.ParseDay(r.URL.Query().Get("start"))
	if err != nil {
		respondError(w, err)
		return
	}
	end, err := calendar.ParseDay(r.URL.Query().Get("end"))
	if err != nil {
		respondError(w, err)
		return
	}

	quote, err := h.bookingSvc.QuoteForVehicle(r.Context(), vehicleID, start, end)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quoteResponse{
		WeekdayCount: quote.WeekdayCount,
		WeekendCount: quote.WeekendCount,
		TotalCents:   quote.TotalCents,
	})
}

// GetPricingQuote prices a date range against caller-supplied rates. It is a
// pure calculation and touches no storage.
func (h *BookingHandler) GetPricingQuote(w http.ResponseWriter, r *http.Request) {
	start, err := calendar.ParseDay(r.URL.Query().Get("start"))
	if err != nil {
		respondError(w, err)
		return
	}
	end, err := calendar.ParseDay(r.URL.Query().Get("end"))
	if err != nil {
		respondError(w, err)
		return
	}
	weekdayRate, err := queryCents(r, "weekday_rate_cents")
	if err != nil {
		respondError(w, err)
		return
	}
	weekendRate, err := queryCents(r, "weekend_rate_cents")
	if err != nil {
		respondError(w, err)
		return
	}

	quote, err := calendar.Price(start, end, weekdayRate, weekendRate)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quoteResponse{
		WeekdayCount: quote.WeekdayCount,
		WeekendCount: quote.WeekendCount,
		TotalCents:   quote.TotalCents,
	})
}

type createReservationRequest struct {
	AgencyID    int32  `json:"agency_id"`
	VehicleID   int32  `json:"vehicle_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	AmountCents int64  `json:"amount_cents"`
	// RequestApproval selects the agency-mediated path; the reservation stays
	// pending until the agency decides.
	RequestApproval bool `json:"request_approval"`
}

// CreateReservation captures payment and commits the booking. The amount is
// recomputed server-side; a mismatch rejects the request before any charge.
func (h *BookingHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrUnauthorized)
		return
	}

	var req createReservationRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	start, err := calendar.ParseDay(req.StartDate)
	if err != nil {
		respondError(w, err)
		return
	}
	end, err := calendar.ParseDay(req.EndDate)
	if err != nil {
		respondError(w, err)
		return
	}

	// Verify the client's quoted amount before charging anything.
	quote, err := h.bookingSvc.QuoteForVehicle(r.Context(), req.VehicleID, start, end)
	if err != nil {
		respondError(w, err)
		return
	}
	if quote.TotalCents != req.AmountCents {
		respondError(w, domain.Validationf("amount %d does not match computed price %d", req.AmountCents, quote.TotalCents))
		return
	}

	// Approval-required requests are created unpaid; the renter pays once the
	// agency accepts. Self-service bookings are charged up front.
	paid := false
	paymentRef := ""
	if !req.RequestApproval {
		capture, err := h.paymentSvc.Capture(r.Context(), service.CaptureRequest{
			AmountCents: req.AmountCents,
			Currency:    "EUR",
			RenterEmail: user.Email,
			Description: "vehicle reservation",
		})
		if err != nil {
			respondError(w, err)
			return
		}
		paid = true
		paymentRef = capture.Reference
	}

	reservation, err := h.bookingSvc.CreateReservation(r.Context(), service.CreateReservationInput{
		AgencyID:         req.AgencyID,
		VehicleID:        req.VehicleID,
		RenterExternalID: user.ExternalID,
		Start:            start,
		End:              end,
		AmountCents:      req.AmountCents,
		ApprovalRequired: req.RequestApproval,
		Paid:             paid,
		PaymentRef:       paymentRef,
	})
	if err != nil {
		if paid {
			// The charge went through but the booking did not. Surface the
			// booking error; reconciliation picks up the orphaned capture.
			logger.Warn("Reservation failed after capture", "payment_ref", paymentRef, "error", err)
		}
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, reservation)
}

// PayReservation settles an accepted request that was created unpaid.
func (h *BookingHandler) PayReservation(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrUnauthorized)
		return
	}
	reservationID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	reservation, err := h.bookingSvc.PayReservation(r.Context(), user.ExternalID, reservationID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reservation)
}

type cancelReservationRequest struct {
	VehicleID int32  `json:"vehicle_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// CancelReservation deletes the caller's reservation matching the exact stay.
func (h *BookingHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrUnauthorized)
		return
	}

	var req cancelReservationRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	start, err := calendar.ParseDay(req.StartDate)
	if err != nil {
		respondError(w, err)
		return
	}
	end, err := calendar.ParseDay(req.EndDate)
	if err != nil {
		respondError(w, err)
		return
	}

	reservation, err := h.bookingSvc.CancelReservation(r.Context(), user.ExternalID, req.VehicleID, start, end)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reservation)
}

type decisionRequest struct {
	Accepted bool `json:"accepted"`
}

// DecideReservation applies the agency's accept/reject decision on a pending
// request.
func (h *BookingHandler) DecideReservation(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrUnauthorized)
		return
	}
	reservationID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req decisionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	reservation, err := h.bookingSvc.Decide(r.Context(), user.ExternalID, reservationID, req.Accepted)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reservation)
}

type reservationPage struct {
	Reservations []domain.Reservation `json:"reservations"`
	TotalCount   int32                `json:"total_count"`
	Page         int32                `json:"page"`
	PageSize     int32                `json:"page_size"`
}

// ListMyReservations returns the caller's reservations, newest first.
func (h *BookingHandler) ListMyReservations(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrUnauthorized)
		return
	}
	page, _ := queryInt32(r, "page")
	pageSize, _ := queryInt32(r, "page_size")
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	reservations, total, err := h.bookingSvc.ListRenterReservations(r.Context(), user.ExternalID, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reservationPage{
		Reservations: reservations,
		TotalCount:   total,
		Page:         page,
		PageSize:     pageSize,
	})
}

// ListVehicleReservations returns a vehicle's reservations over the horizon
// for the agency dashboard.
func (h *BookingHandler) ListVehicleReservations(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrUnauthorized)
		return
	}
	if user.Role != domain.UserRoleAgency || user.AgencyID == nil {
		respondError(w, domain.ErrUnauthorized)
		return
	}
	vehicleID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	reservations, err := h.bookingSvc.ListVehicleReservations(r.Context(), vehicleID, *user.AgencyID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"reservations": reservations})
}

// GetWeeklyRevenue sums paid reservation amounts starting in the current week.
func (h *BookingHandler) GetWeeklyRevenue(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrUnauthorized)
		return
	}
	if user.Role != domain.UserRoleAgency {
		respondError(w, domain.ErrUnauthorized)
		return
	}
	vehicleID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	total, err := h.bookingSvc.WeeklyRevenue(r.Context(), vehicleID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"total_cents": total})
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.Validationf("invalid %s %q", name, raw)
	}
	return int32(id), nil
}

func queryCents(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, domain.Validationf("invalid %s %q", name, raw)
	}
	return v, nil
}

func queryInt32(r *http.Request, name string) (int32, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(v), true
}
