package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"carloc-backend/internal/domain"
	"carloc-backend/internal/repository"
)

type agencyRepository struct {
	db *sql.DB
}

func NewAgencyRepository(db *sql.DB) repository.AgencyRepository {
	return &agencyRepository{db: db}
}

const agencyColumns = `id, name, address, city, phone, email, latitude, longitude, created_on`

func (r *agencyRepository) Create(ctx context.Context, a *domain.Agency) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO agencies (name, address, city, phone, email, latitude, longitude, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		a.Name, a.Address, a.City, a.Phone, a.Email, a.Latitude, a.Longitude, time.Now()).Scan(&a.ID)
	if err != nil {
		return domain.Transientf("insert agency", err)
	}
	return nil
}

func (r *agencyRepository) GetByID(ctx context.Context, id int32) (*domain.Agency, error) {
	a := &domain.Agency{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+agencyColumns+` FROM agencies WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.Address, &a.City, &a.Phone, &a.Email, &a.Latitude, &a.Longitude, &a.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("agency %d", id)
	}
	if err != nil {
		return nil, domain.Transientf("get agency", err)
	}
	return a, nil
}

func (r *agencyRepository) List(ctx context.Context) ([]domain.Agency, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+agencyColumns+` FROM agencies ORDER BY name`)
	if err != nil {
		return nil, domain.Transientf("list agencies", err)
	}
	defer rows.Close()
	return scanAgencyRows(rows)
}

func (r *agencyRepository) SearchByCity(ctx context.Context, city string) ([]domain.Agency, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+agencyColumns+` FROM agencies WHERE LOWER(city) = LOWER($1) ORDER BY name`, city)
	if err != nil {
		return nil, domain.Transientf("search agencies", err)
	}
	defer rows.Close()
	return scanAgencyRows(rows)
}

func scanAgencyRows(rows *sql.Rows) ([]domain.Agency, error) {
	var out []domain.Agency
	for rows.Next() {
		var a domain.Agency
		if err := rows.Scan(&a.ID, &a.Name, &a.Address, &a.City, &a.Phone, &a.Email,
			&a.Latitude, &a.Longitude, &a.CreatedOn); err != nil {
			return nil, domain.Transientf("scan agency", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Transientf("iterate agencies", err)
	}
	return out, nil
}
