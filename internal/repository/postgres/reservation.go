package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"carloc-backend/internal/calendar"
	"carloc-backend/internal/domain"
	"carloc-backend/internal/repository"

	"github.com/lib/pq"
)

// exclusionViolation is the Postgres error code raised by the gist exclusion
// constraint over (vehicle_id, daterange). It backstops the transactional
// overlap check.
const exclusionViolation = "23P01"

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `id, vehicle_id, agency_id, renter_id, start_date, end_date, amount_cents, paid, status, validation, payment_ref, created_on`

func scanReservation(row interface{ Scan(...any) error }) (*domain.Reservation, error) {
	var (
		r          domain.Reservation
		start, end time.Time
	)
	err := row.Scan(&r.ID, &r.VehicleID, &r.AgencyID, &r.RenterID, &start, &end,
		&r.AmountCents, &r.Paid, &r.Status, &r.Validation, &r.PaymentRef, &r.CreatedOn)
	if err != nil {
		return nil, err
	}
	r.StartDate = start.Format(calendar.DayFormat)
	r.EndDate = end.Format(calendar.DayFormat)
	return &r, nil
}

func (r *reservationRepository) CreateIfFree(ctx context.Context, rv *domain.Reservation) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return domain.Transientf("begin reservation tx", err)
	}
	defer tx.Rollback()

	// Serialize writers per vehicle. Concurrent inserts for the same vehicle
	// queue here, so the overlap count below always sees committed rows.
	var vehicleID int32
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`, rv.VehicleID).Scan(&vehicleID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundf("vehicle %d", rv.VehicleID)
	}
	if err != nil {
		return domain.Transientf("lock vehicle row", err)
	}

	var overlapping int32
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations
		 WHERE vehicle_id = $1
		   AND status <> 'CANCELLED'
		   AND start_date <= $3::date
		   AND end_date >= $2::date`,
		rv.VehicleID, rv.StartDate, rv.EndDate).Scan(&overlapping)
	if err != nil {
		return domain.Transientf("count overlapping reservations", err)
	}
	if overlapping > 0 {
		return domain.Conflictf("vehicle %d already booked in %s..%s", rv.VehicleID, rv.StartDate, rv.EndDate)
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO reservations (vehicle_id, agency_id, renter_id, start_date, end_date, amount_cents, paid, status, validation, payment_ref, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		rv.VehicleID, rv.AgencyID, rv.RenterID, rv.StartDate, rv.EndDate,
		rv.AmountCents, rv.Paid, rv.Status, rv.Validation, rv.PaymentRef, time.Now()).Scan(&rv.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == exclusionViolation {
			return domain.Conflictf("vehicle %d already booked in %s..%s", rv.VehicleID, rv.StartDate, rv.EndDate)
		}
		return domain.Transientf("insert reservation", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Transientf("commit reservation", err)
	}
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
	rv, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("reservation %d", id)
	}
	if err != nil {
		return nil, domain.Transientf("get reservation", err)
	}
	return rv, nil
}

func (r *reservationRepository) ListByVehicle(ctx context.Context, vehicleID, agencyID int32, from, to calendar.Day) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE vehicle_id = $1 AND start_date <= $3::date AND end_date >= $2::date`
	args := []interface{}{vehicleID, from.String(), to.String()}
	if agencyID > 0 {
		query += ` AND agency_id = $4`
		args = append(args, agencyID)
	}
	query += ` ORDER BY start_date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.Transientf("list reservations by vehicle", err)
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		rv, err := scanReservation(rows)
		if err != nil {
			return nil, domain.Transientf("scan reservation", err)
		}
		out = append(out, *rv)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Transientf("iterate reservations", err)
	}
	return out, nil
}

func (r *reservationRepository) ListByRenter(ctx context.Context, renterID int32, page, pageSize int32) ([]domain.Reservation, int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE renter_id = $1`, renterID).Scan(&count)
	if err != nil {
		return nil, 0, domain.Transientf("count renter reservations", err)
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE renter_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`,
		renterID, pageSize, offset)
	if err != nil {
		return nil, 0, domain.Transientf("list renter reservations", err)
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		rv, err := scanReservation(rows)
		if err != nil {
			return nil, 0, domain.Transientf("scan reservation", err)
		}
		out = append(out, *rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.Transientf("iterate reservations", err)
	}
	return out, count, nil
}

func (r *reservationRepository) DeleteByStay(ctx context.Context, vehicleID, renterID int32, start, end calendar.Day) (*domain.Reservation, error) {
	row := r.db.QueryRowContext(ctx,
		`DELETE FROM reservations
		 WHERE id IN (
		     SELECT id FROM reservations
		     WHERE vehicle_id = $1 AND renter_id = $2
		       AND start_date = $3::date AND end_date = $4::date
		     LIMIT 1
		 )
		 RETURNING `+reservationColumns,
		vehicleID, renterID, start.String(), end.String())
	rv, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("reservation for vehicle %d in %s..%s", vehicleID, start, end)
	}
	if err != nil {
		return nil, domain.Transientf("delete reservation", err)
	}
	return rv, nil
}

func (r *reservationRepository) SetValidation(ctx context.Context, reservationID, agencyID int32, state domain.ValidationState) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET validation = $1 WHERE id = $2 AND agency_id = $3`,
		state, reservationID, agencyID)
	if err != nil {
		return domain.Transientf("set reservation validation", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Transientf("set reservation validation", err)
	}
	if affected == 0 {
		return domain.NotFoundf("reservation %d for agency %d", reservationID, agencyID)
	}
	return nil
}

func (r *reservationRepository) MarkPaid(ctx context.Context, reservationID int32, paymentRef string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET paid = TRUE, payment_ref = $1 WHERE id = $2`,
		paymentRef, reservationID)
	if err != nil {
		return domain.Transientf("mark reservation paid", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Transientf("mark reservation paid", err)
	}
	if affected == 0 {
		return domain.NotFoundf("reservation %d", reservationID)
	}
	return nil
}

func (r *reservationRepository) WeeklyPaidTotalCents(ctx context.Context, vehicleID int32) (int64, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(amount_cents) FROM reservations
		 WHERE vehicle_id = $1 AND paid = TRUE
		   AND start_date >= DATE_TRUNC('week', CURRENT_DATE)
		   AND start_date < DATE_TRUNC('week', CURRENT_DATE) + INTERVAL '1 week'`,
		vehicleID).Scan(&total)
	if err != nil {
		return 0, domain.Transientf("weekly paid total", err)
	}
	return total.Int64, nil
}
