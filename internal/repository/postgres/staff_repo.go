package postgres

import (
	"context"
	"errors"

	"github.com/baharkarakas/storefront-backend/internal/models"
	repo "github.com/baharkarakas/storefront-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type staffRepo struct{ pool *pgxpool.Pool }

const staffColumns = `id, name, email, password_hash, role, created_at, updated_at`

func scanStaff(row pgx.Row) (models.StaffUser, error) {
	var u models.StaffUser
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, repo.ErrNotFound
	}
	return u, err
}

func (r *staffRepo) Create(ctx context.Context, u models.StaffUser) (models.StaffUser, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	created, err := scanStaff(r.pool.QueryRow(ctx,
		`INSERT INTO staff_users(id, name, email, password_hash, role)
		 VALUES($1,$2,$3,$4,$5)
		 RETURNING `+staffColumns,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role,
	))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return models.StaffUser{}, repo.ErrDuplicate
	}
	return created, err
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (models.StaffUser, error) {
	return scanStaff(r.pool.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff_users WHERE id=$1`, id))
}

func (r *staffRepo) GetByEmail(ctx context.Context, email string) (models.StaffUser, error) {
	return scanStaff(r.pool.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff_users WHERE lower(email)=lower($1)`, email))
}

func (r *staffRepo) List(ctx context.Context) ([]models.StaffUser, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+staffColumns+` FROM staff_users ORDER BY created_at DESC LIMIT 100`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.StaffUser{}
	for rows.Next() {
		u, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
