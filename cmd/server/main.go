package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "carloc-backend/internal/api/http"
	"carloc-backend/internal/cache"
	"carloc-backend/internal/config"
	"carloc-backend/internal/logger"
	"carloc-backend/internal/repository/postgres"
	"carloc-backend/internal/security"
	"carloc-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Carloc Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Catalog cache. A missing Redis only disables caching.
	catalogCache := cache.New(cfg.Redis.URL, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
	defer catalogCache.Close()

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	agencySvc := service.NewAgencyService(store.AgencyRepository, catalogCache)
	vehicleSvc := service.NewVehicleService(store.VehicleRepository, catalogCache)
	paymentSvc := service.NewStubPaymentProvider()
	bookingSvc := service.NewBookingService(
		store.ReservationRepository,
		store.VehicleRepository,
		store.UserRepository,
		store.AgencyRepository,
		emailSvc,
		paymentSvc,
		cfg.Booking.HorizonMonthsPast,
		cfg.Booking.HorizonMonthsFuture,
	)

	// Build the route table
	handler := httpapi.NewRouter(httpapi.RouterDeps{
		Config:       cfg,
		TokenManager: tokenManager,
		AuthSvc:      authSvc,
		BookingSvc:   bookingSvc,
		VehicleSvc:   vehicleSvc,
		AgencySvc:    agencySvc,
		PaymentSvc:   paymentSvc,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
