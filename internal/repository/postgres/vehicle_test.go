package postgres

import (
	"context"
	"database/sql"
	"testing"

	"carloc-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVehicleRepoMock(t *testing.T) (*vehicleRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &vehicleRepository{db: db}, mock
}

func vehicleRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "agency_id", "brand", "model", "description", "seats",
		"weekday_rate_cents", "weekend_rate_cents", "available", "created_on", "updated_on",
	})
}

func TestVehicleRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("FoundWithAgency", func(t *testing.T) {
		repo, mock := newVehicleRepoMock(t)
		mock.ExpectQuery(`JOIN agencies a ON a\.id = v\.agency_id`).
			WithArgs(int32(10)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "agency_id", "brand", "model", "description", "seats",
				"weekday_rate_cents", "weekend_rate_cents", "available", "created_on", "updated_on",
				"a_id", "a_name", "a_address", "a_city", "a_phone", "a_email",
			}).AddRow(10, 3, "Renault", "Clio", "city car", 5,
				5000, 8000, true, "2024-01-01", "2024-01-01",
				3, "Drive Paris", "1 rue de Rivoli", "Paris", "+331234", "agency@test.com"))

		v, err := repo.GetByID(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, "Clio", v.Model)
		assert.Equal(t, int64(8000), v.WeekendRateCents)
		require.NotNil(t, v.Agency)
		assert.Equal(t, "Paris", v.Agency.City)
	})

	t.Run("Missing", func(t *testing.T) {
		repo, mock := newVehicleRepoMock(t)
		mock.ExpectQuery(`JOIN agencies a ON a\.id = v\.agency_id`).
			WithArgs(int32(10)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, 10)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestVehicleRepository_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("CityAndRateFilter", func(t *testing.T) {
		repo, mock := newVehicleRepoMock(t)
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM \(`).
			WithArgs("Paris", int64(6000)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT .+ FROM vehicles v`).
			WithArgs("Paris", int64(6000), int32(20), int32(0)).
			WillReturnRows(vehicleRows().AddRow(
				10, 3, "Renault", "Clio", "city car", 5, 5000, 8000, true, "2024-01-01", "2024-01-01"))

		vehicles, total, err := repo.Search(ctx, "Paris", 6000, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int32(1), total)
		require.Len(t, vehicles, 1)
		assert.Equal(t, "Renault", vehicles[0].Brand)
	})

	t.Run("NoFilters", func(t *testing.T) {
		repo, mock := newVehicleRepoMock(t)
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM \(`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT .+ FROM vehicles v`).
			WithArgs(int32(20), int32(0)).
			WillReturnRows(vehicleRows())

		vehicles, total, err := repo.Search(ctx, "", 0, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int32(0), total)
		assert.Empty(t, vehicles)
	})
}

func TestVehicleRepository_HasBlockingReservations(t *testing.T) {
	ctx := context.Background()
	repo, mock := newVehicleRepoMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations`).
		WithArgs(int32(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	blocked, err := repo.HasBlockingReservations(ctx, 10)
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestVehicleRepository_Update(t *testing.T) {
	ctx := context.Background()

	vehicle := &domain.Vehicle{
		ID: 10, AgencyID: 3, Brand: "Renault", Model: "Clio",
		Seats: 5, WeekdayRateCents: 5500, WeekendRateCents: 8500, Available: true,
	}

	t.Run("Updated", func(t *testing.T) {
		repo, mock := newVehicleRepoMock(t)
		mock.ExpectExec(`UPDATE vehicles SET`).
			WithArgs(vehicle.Brand, vehicle.Model, vehicle.Description, vehicle.Seats,
				vehicle.WeekdayRateCents, vehicle.WeekendRateCents, vehicle.Available,
				sqlmock.AnyArg(), vehicle.ID, vehicle.AgencyID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(ctx, vehicle))
	})

	t.Run("WrongAgency", func(t *testing.T) {
		repo, mock := newVehicleRepoMock(t)
		mock.ExpectExec(`UPDATE vehicles SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, vehicle)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
