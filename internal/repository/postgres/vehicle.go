package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"carloc-backend/internal/domain"
	"carloc-backend/internal/repository"
)

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO vehicles (agency_id, brand, model, description, seats, weekday_rate_cents, weekend_rate_cents, available, created_on, updated_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		v.AgencyID, v.Brand, v.Model, v.Description, v.Seats,
		v.WeekdayRateCents, v.WeekendRateCents, v.Available, time.Now(), time.Now()).Scan(&v.ID)
	if err != nil {
		return domain.Transientf("insert vehicle", err)
	}
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	v := &domain.Vehicle{Agency: &domain.Agency{}}
	err := r.db.QueryRowContext(ctx,
		`SELECT v.id, v.agency_id, v.brand, v.model, v.description, v.seats,
		        v.weekday_rate_cents, v.weekend_rate_cents, v.available, v.created_on, v.updated_on,
		        a.id, a.name, a.address, a.city, a.phone, a.email
		 FROM vehicles v
		 JOIN agencies a ON a.id = v.agency_id
		 WHERE v.id = $1`, id).
		Scan(&v.ID, &v.AgencyID, &v.Brand, &v.Model, &v.Description, &v.Seats,
			&v.WeekdayRateCents, &v.WeekendRateCents, &v.Available, &v.CreatedOn, &v.UpdatedOn,
			&v.Agency.ID, &v.Agency.Name, &v.Agency.Address, &v.Agency.City, &v.Agency.Phone, &v.Agency.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("vehicle %d", id)
	}
	if err != nil {
		return nil, domain.Transientf("get vehicle", err)
	}
	return v, nil
}

func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE vehicles SET brand=$1, model=$2, description=$3, seats=$4,
		        weekday_rate_cents=$5, weekend_rate_cents=$6, available=$7, updated_on=$8
		 WHERE id=$9 AND agency_id=$10`,
		v.Brand, v.Model, v.Description, v.Seats,
		v.WeekdayRateCents, v.WeekendRateCents, v.Available, time.Now(), v.ID, v.AgencyID)
	if err != nil {
		return domain.Transientf("update vehicle", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Transientf("update vehicle", err)
	}
	if affected == 0 {
		return domain.NotFoundf("vehicle %d for agency %d", v.ID, v.AgencyID)
	}
	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return domain.Transientf("delete vehicle", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Transientf("delete vehicle", err)
	}
	if affected == 0 {
		return domain.NotFoundf("vehicle %d", id)
	}
	return nil
}

const vehicleColumns = `id, agency_id, brand, model, description, seats, weekday_rate_cents, weekend_rate_cents, available, created_on, updated_on`

const vehiclePrefixedColumns = `v.id, v.agency_id, v.brand, v.model, v.description, v.seats, v.weekday_rate_cents, v.weekend_rate_cents, v.available, v.created_on, v.updated_on`

func scanVehicleRows(rows *sql.Rows) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.AgencyID, &v.Brand, &v.Model, &v.Description, &v.Seats,
			&v.WeekdayRateCents, &v.WeekendRateCents, &v.Available, &v.CreatedOn, &v.UpdatedOn); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *vehicleRepository) ListByAgency(ctx context.Context, agencyID int32, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vehicles WHERE agency_id = $1`, agencyID).Scan(&count); err != nil {
		return nil, 0, domain.Transientf("count agency vehicles", err)
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE agency_id = $1
		 ORDER BY created_on DESC LIMIT $2 OFFSET $3`,
		agencyID, pageSize, offset)
	if err != nil {
		return nil, 0, domain.Transientf("list agency vehicles", err)
	}
	defer rows.Close()

	out, err := scanVehicleRows(rows)
	if err != nil {
		return nil, 0, domain.Transientf("scan vehicles", err)
	}
	return out, count, nil
}

func (r *vehicleRepository) Search(ctx context.Context, city string, maxDayRateCents int64, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	query := `SELECT ` + vehiclePrefixedColumns + ` FROM vehicles v
	          JOIN agencies a ON a.id = v.agency_id
	          WHERE v.available = TRUE`
	args := []interface{}{}
	argIdx := 1
	if city != "" {
		query += ` AND LOWER(a.city) = LOWER($1)`
		args = append(args, city)
		argIdx++
	}
	if maxDayRateCents > 0 {
		query += fmt.Sprintf(` AND v.weekday_rate_cents <= $%d`, argIdx)
		args = append(args, maxDayRateCents)
		argIdx++
	}

	var count int32
	countQuery := `SELECT COUNT(*) FROM (` + query + `) AS sub`
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, domain.Transientf("count vehicle search", err)
	}

	offset := (page - 1) * pageSize
	query += fmt.Sprintf(` ORDER BY v.weekday_rate_cents ASC LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, domain.Transientf("search vehicles", err)
	}
	defer rows.Close()

	out, err := scanVehicleRows(rows)
	if err != nil {
		return nil, 0, domain.Transientf("scan vehicles", err)
	}
	return out, count, nil
}

func (r *vehicleRepository) HasBlockingReservations(ctx context.Context, vehicleID int32) (bool, error) {
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE vehicle_id = $1 AND status <> 'CANCELLED'`,
		vehicleID).Scan(&count)
	if err != nil {
		return false, domain.Transientf("count blocking reservations", err)
	}
	return count > 0, nil
}
