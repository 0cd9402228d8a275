package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"carloc-backend/internal/calendar"
	"carloc-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReservationRepoMock(t *testing.T) (*reservationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &reservationRepository{db: db}, mock
}

func reservationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "vehicle_id", "agency_id", "renter_id", "start_date", "end_date",
		"amount_cents", "paid", "status", "validation", "payment_ref", "created_on",
	})
}

func sampleReservation() *domain.Reservation {
	return &domain.Reservation{
		VehicleID:   10,
		AgencyID:    3,
		RenterID:    7,
		StartDate:   "2024-06-17",
		EndDate:     "2024-06-19",
		AmountCents: 15000,
		Paid:        true,
		Status:      domain.ReservationStatusUpcoming,
		Validation:  domain.ValidationAccepted,
		PaymentRef:  "pay-1",
	}
}

func TestReservationRepository_CreateIfFree(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newReservationRepoMock(t)
		rv := sampleReservation()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`)).
			WithArgs(rv.VehicleID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(rv.VehicleID))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations`).
			WithArgs(rv.VehicleID, rv.StartDate, rv.EndDate).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO reservations`).
			WithArgs(rv.VehicleID, rv.AgencyID, rv.RenterID, rv.StartDate, rv.EndDate,
				rv.AmountCents, rv.Paid, rv.Status, rv.Validation, rv.PaymentRef, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectCommit()

		err := repo.CreateIfFree(ctx, rv)
		require.NoError(t, err)
		assert.Equal(t, int32(42), rv.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("OverlapDetectedInTransaction", func(t *testing.T) {
		repo, mock := newReservationRepoMock(t)
		rv := sampleReservation()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`)).
			WithArgs(rv.VehicleID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(rv.VehicleID))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations`).
			WithArgs(rv.VehicleID, rv.StartDate, rv.EndDate).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		err := repo.CreateIfFree(ctx, rv)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ExclusionConstraintBackstop", func(t *testing.T) {
		repo, mock := newReservationRepoMock(t)
		rv := sampleReservation()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`)).
			WithArgs(rv.VehicleID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(rv.VehicleID))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations`).
			WithArgs(rv.VehicleID, rv.StartDate, rv.EndDate).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO reservations`).
			WillReturnError(&pq.Error{Code: exclusionViolation})
		mock.ExpectRollback()

		err := repo.CreateIfFree(ctx, rv)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("VehicleMissing", func(t *testing.T) {
		repo, mock := newReservationRepoMock(t)
		rv := sampleReservation()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`)).
			WithArgs(rv.VehicleID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := repo.CreateIfFree(ctx, rv)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReservationRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		repo, mock := newReservationRepoMock(t)
		start := time.Date(2024, time.June, 17, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, time.June, 19, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT .+ FROM reservations WHERE id = \$1`).
			WithArgs(int32(42)).
			WillReturnRows(reservationRows().AddRow(
				42, 10, 3, 7, start, end, 15000, true, "UPCOMING", "ACCEPTED", "pay-1", time.Now()))

		rv, err := repo.GetByID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "2024-06-17", rv.StartDate)
		assert.Equal(t, "2024-06-19", rv.EndDate)
		assert.Equal(t, domain.ReservationStatusUpcoming, rv.Status)
	})

	t.Run("Missing", func(t *testing.T) {
		repo, mock := newReservationRepoMock(t)
		mock.ExpectQuery(`SELECT .+ FROM reservations WHERE id = \$1`).
			WithArgs(int32(42)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, 42)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReservationRepository_DeleteByStay(t *testing.T) {
	ctx := context.Background()
	start := calendar.NewDay(2024, time.June, 17)
	end := calendar.NewDay(2024, time.June, 19)

	t.Run("Deleted", func(t *testing.T) {
		repo, mock := newReservationRepoMock(t)
		s := time.Date(2024, time.June, 17, 0, 0, 0, 0, time.UTC)
		e := time.Date(2024, time.June, 19, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`DELETE FROM reservations`).
			WithArgs(int32(10), int32(7), "2024-06-17", "2024-06-19").
			WillReturnRows(reservationRows().AddRow(
				5, 10, 3, 7, s, e, 15000, true, "UPCOMING", "ACCEPTED", "", time.Now()))

		rv, err := repo.DeleteByStay(ctx, 10, 7, start, end)
		require.NoError(t, err)
		assert.Equal(t, int32(5), rv.ID)
	})

	t.Run("NoMatchIncludingForeignOwner", func(t *testing.T) {
		repo, mock := newReservationRepoMock(t)
		mock.ExpectQuery(`DELETE FROM reservations`).
			WithArgs(int32(10), int32(7), "2024-06-17", "2024-06-19").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.DeleteByStay(ctx, 10, 7, start, end)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReservationRepository_SetValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("Updated", func(t *testing.T) {
		repo, mock := newReservationRepoMock(t)
		mock.ExpectExec(`UPDATE reservations SET validation`).
			WithArgs(domain.ValidationAccepted, int32(42), int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SetValidation(ctx, 42, 3, domain.ValidationAccepted)
		assert.NoError(t, err)
	})

	t.Run("WrongAgency", func(t *testing.T) {
		repo, mock := newReservationRepoMock(t)
		mock.ExpectExec(`UPDATE reservations SET validation`).
			WithArgs(domain.ValidationRejected, int32(42), int32(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetValidation(ctx, 42, 99, domain.ValidationRejected)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReservationRepository_WeeklyPaidTotalCents(t *testing.T) {
	ctx := context.Background()

	t.Run("Sum", func(t *testing.T) {
		repo, mock := newReservationRepoMock(t)
		mock.ExpectQuery(`SELECT SUM\(amount_cents\) FROM reservations`).
			WithArgs(int32(10)).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(45000))

		total, err := repo.WeeklyPaidTotalCents(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(45000), total)
	})

	t.Run("NoPaidRowsYieldsZero", func(t *testing.T) {
		repo, mock := newReservationRepoMock(t)
		mock.ExpectQuery(`SELECT SUM\(amount_cents\) FROM reservations`).
			WithArgs(int32(10)).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(nil))

		total, err := repo.WeeklyPaidTotalCents(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})
}
