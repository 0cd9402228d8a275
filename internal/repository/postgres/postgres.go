package postgres

import (
	"database/sql"

	"carloc-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.AgencyRepository
	repository.VehicleRepository
	repository.ReservationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		UserRepository:        NewUserRepository(db),
		AgencyRepository:      NewAgencyRepository(db),
		VehicleRepository:     NewVehicleRepository(db),
		ReservationRepository: NewReservationRepository(db),
	}
}
