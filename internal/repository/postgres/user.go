package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"carloc-backend/internal/domain"
	"carloc-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, external_id, name, email, phone_number, password_hash, role, agency_id, created_on, updated_on`

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (external_id, name, email, phone_number, password_hash, role, agency_id, created_on, updated_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		u.ExternalID, u.Name, u.Email, u.PhoneNumber, u.PasswordHash, u.Role, u.AgencyID,
		time.Now(), time.Now()).Scan(&u.ID)
	if err != nil {
		return domain.Transientf("insert user", err)
	}
	return nil
}

func (r *userRepository) scanOne(row *sql.Row, key string) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.ExternalID, &u.Name, &u.Email, &u.PhoneNumber,
		&u.PasswordHash, &u.Role, &u.AgencyID, &u.CreatedOn, &u.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("user %s", key)
	}
	if err != nil {
		return nil, domain.Transientf("get user", err)
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return r.scanOne(row, "by id")
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return r.scanOne(row, "by email")
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE external_id = $1`, externalID)
	return r.scanOne(row, "by external id")
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET name=$1, email=$2, phone_number=$3, updated_on=$4 WHERE id=$5`,
		u.Name, u.Email, u.PhoneNumber, time.Now(), u.ID)
	if err != nil {
		return domain.Transientf("update user", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Transientf("update user", err)
	}
	if affected == 0 {
		return domain.NotFoundf("user %d", u.ID)
	}
	return nil
}
