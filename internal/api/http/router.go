// Package http is the JSON API edge. It parses and validates transport
// concerns, maps domain errors to status codes and delegates everything else
// to the service layer.
package http

import (
	"net/http"

	"carloc-backend/internal/config"
	"carloc-backend/internal/security"
	"carloc-backend/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// RouterDeps bundles everything the route table needs.
type RouterDeps struct {
	Config       *config.Config
	TokenManager security.TokenManager
	AuthSvc      service.AuthService
	BookingSvc   service.BookingService
	VehicleSvc   service.VehicleService
	AgencySvc    service.AgencyService
	PaymentSvc   service.PaymentProvider
}

// NewRouter builds the full route table with logging, recovery, CORS and
// per-IP rate limiting applied to every request.
func NewRouter(deps RouterDeps) http.Handler {
	authMW := NewAuthMiddleware(deps.TokenManager, deps.AuthSvc)

	authHandler := NewAuthHandler(deps.AuthSvc)
	bookingHandler := NewBookingHandler(deps.BookingSvc, deps.PaymentSvc)
	vehicleHandler := NewVehicleHandler(deps.VehicleSvc)
	agencyHandler := NewAgencyHandler(deps.AgencySvc)

	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Identity.
	api.HandleFunc("/auth/signup", authHandler.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", authMW.Require(authHandler.Me)).Methods(http.MethodGet)

	// Public catalog.
	api.HandleFunc("/agencies", agencyHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/agencies", agencyHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/agencies/{id:[0-9]+}", agencyHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/agencies/{id:[0-9]+}/vehicles", vehicleHandler.ListByAgency).Methods(http.MethodGet)
	api.HandleFunc("/vehicles", vehicleHandler.Search).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id:[0-9]+}", vehicleHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id:[0-9]+}/availability", bookingHandler.GetAvailability).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id:[0-9]+}/quote", bookingHandler.GetQuote).Methods(http.MethodGet)
	api.HandleFunc("/pricing/quote", bookingHandler.GetPricingQuote).Methods(http.MethodGet)

	// Fleet management, agency accounts only.
	api.HandleFunc("/vehicles", authMW.Require(vehicleHandler.Add)).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/{id:[0-9]+}", authMW.Require(vehicleHandler.Update)).Methods(http.MethodPut)
	api.HandleFunc("/vehicles/{id:[0-9]+}", authMW.Require(vehicleHandler.Delete)).Methods(http.MethodDelete)
	api.HandleFunc("/vehicles/{id:[0-9]+}/reservations", authMW.Require(bookingHandler.ListVehicleReservations)).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id:[0-9]+}/revenue/weekly", authMW.Require(bookingHandler.GetWeeklyRevenue)).Methods(http.MethodGet)

	// Reservations.
	api.HandleFunc("/reservations", authMW.Require(bookingHandler.CreateReservation)).Methods(http.MethodPost)
	api.HandleFunc("/reservations", authMW.Require(bookingHandler.CancelReservation)).Methods(http.MethodDelete)
	api.HandleFunc("/me/reservations", authMW.Require(bookingHandler.ListMyReservations)).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id:[0-9]+}/validation", authMW.Require(bookingHandler.DecideReservation)).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{id:[0-9]+}/pay", authMW.Require(bookingHandler.PayReservation)).Methods(http.MethodPost)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   deps.Config.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	var handler http.Handler = r
	handler = RateLimitMiddleware(deps.Config.Server.RateLimitRPS, deps.Config.Server.RateLimitBurst)(handler)
	handler = corsHandler.Handler(handler)
	handler = LoggingMiddleware(handler)
	handler = RecoveryMiddleware(handler)
	return handler
}
