package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/storefront-admin/internal/domain"
)

const adminColumns = `id, name, email, password_hash, access_level, status, active, email_verified,
        activation_token, activation_token_expiry, last_login, last_logout, created_at, updated_at`

// AdminRepository handles persistence for administrator accounts.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Administrator) error
	Update(ctx context.Context, admin *domain.Administrator) error
	UpdateStatus(ctx context.Context, id int64, status domain.AdminStatus, active bool, emailVerified *bool) (*domain.Administrator, error)
	Activate(ctx context.Context, id int64, passwordHash string) (*domain.Administrator, error)
	GetByID(ctx context.Context, id int64) (*domain.Administrator, error)
	GetByEmail(ctx context.Context, email string) (*domain.Administrator, error)
	GetByActivationToken(ctx context.Context, token string) (*domain.Administrator, error)
	List(ctx context.Context) ([]domain.Administrator, error)
	Delete(ctx context.Context, id int64) error
	RecordLogin(ctx context.Context, id int64) error
	RecordLogout(ctx context.Context, id int64) error
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.Administrator) error {
	const query = `
        INSERT INTO administrators
            (name, email, password_hash, access_level, status, active, email_verified,
             activation_token, activation_token_expiry)
        VALUES ($1, LOWER($2), $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, email, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		admin.Name,
		admin.Email,
		admin.PasswordHash,
		admin.AccessLevel,
		admin.Status,
		admin.Active,
		admin.EmailVerified,
		admin.ActivationToken,
		admin.ActivationTokenExpiry,
	).Scan(&admin.ID, &admin.Email, &admin.CreatedAt, &admin.UpdatedAt)
}

func (r *adminRepository) Update(ctx context.Context, admin *domain.Administrator) error {
	const query = `
        UPDATE administrators
        SET name=$1, email=LOWER($2), access_level=$3, updated_at=NOW()
        WHERE id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		admin.Name,
		admin.Email,
		admin.AccessLevel,
		admin.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateStatus writes the status and its derived flags in one statement. A nil
// emailVerified leaves the stored value untouched.
func (r *adminRepository) UpdateStatus(ctx context.Context, id int64, status domain.AdminStatus, active bool, emailVerified *bool) (*domain.Administrator, error) {
	const query = `
        UPDATE administrators
        SET status=$1, active=$2, email_verified=COALESCE($3, email_verified), updated_at=NOW()
        WHERE id=$4
        RETURNING ` + adminColumns

	return r.scanRow(r.pool.QueryRow(ctx, query, status, active, emailVerified, id))
}

// Activate finalizes a pending account: sets the hash, clears the token pair
// and marks the account active and verified.
func (r *adminRepository) Activate(ctx context.Context, id int64, passwordHash string) (*domain.Administrator, error) {
	const query = `
        UPDATE administrators
        SET password_hash=$1, status=$2, active=TRUE, email_verified=TRUE,
            activation_token=NULL, activation_token_expiry=NULL, updated_at=NOW()
        WHERE id=$3
        RETURNING ` + adminColumns

	return r.scanRow(r.pool.QueryRow(ctx, query, passwordHash, domain.AdminStatusActive, id))
}

func (r *adminRepository) GetByID(ctx context.Context, id int64) (*domain.Administrator, error) {
	const query = `SELECT ` + adminColumns + ` FROM administrators WHERE id=$1`
	return r.scanRow(r.pool.QueryRow(ctx, query, id))
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Administrator, error) {
	const query = `SELECT ` + adminColumns + ` FROM administrators WHERE email=LOWER($1)`
	return r.scanRow(r.pool.QueryRow(ctx, query, email))
}

func (r *adminRepository) GetByActivationToken(ctx context.Context, token string) (*domain.Administrator, error) {
	const query = `SELECT ` + adminColumns + ` FROM administrators WHERE activation_token=$1`
	return r.scanRow(r.pool.QueryRow(ctx, query, token))
}

func (r *adminRepository) List(ctx context.Context) ([]domain.Administrator, error) {
	const query = `SELECT ` + adminColumns + ` FROM administrators ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Administrator
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *admin)
	}
	return result, rows.Err()
}

// Delete physically removes a record. Only the invitation compensation path
// uses this; lifecycle deletion is a status value.
func (r *adminRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM administrators WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminRepository) RecordLogin(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE administrators SET last_login=NOW() WHERE id=$1`, id)
	return err
}

func (r *adminRepository) RecordLogout(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE administrators SET last_logout=NOW() WHERE id=$1`, id)
	return err
}

func (r *adminRepository) scanRow(row pgx.Row) (*domain.Administrator, error) {
	return scanAdmin(row)
}

func scanAdmin(row pgx.Row) (*domain.Administrator, error) {
	var admin domain.Administrator
	if err := row.Scan(
		&admin.ID,
		&admin.Name,
		&admin.Email,
		&admin.PasswordHash,
		&admin.AccessLevel,
		&admin.Status,
		&admin.Active,
		&admin.EmailVerified,
		&admin.ActivationToken,
		&admin.ActivationTokenExpiry,
		&admin.LastLogin,
		&admin.LastLogout,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}
