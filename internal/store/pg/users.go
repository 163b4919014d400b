package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/sessiond/internal/domain/repository"
)

// UserRepository implementa repository.UserRepository sobre PostgreSQL.
type UserRepository struct{ s *Store }

func NewUserRepository(s *Store) *UserRepository { return &UserRepository{s: s} }

var _ repository.UserRepository = (*UserRepository)(nil)

const userColumns = `id, login, password_hash, lockout_enabled, access_failed_count, lockout_end, created_at, updated_at`

func scanUser(row pgx.Row) (*repository.User, error) {
	var u repository.User
	err := row.Scan(
		&u.ID, &u.Login, &u.PasswordHash,
		&u.LockoutEnabled, &u.AccessFailedCount, &u.LockoutEnd,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*repository.User, error) {
	q := `SELECT ` + userColumns + ` FROM app_user WHERE login = $1`
	return scanUser(r.s.pool.QueryRow(ctx, q, login))
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*repository.User, error) {
	q := `SELECT ` + userColumns + ` FROM app_user WHERE id = $1`
	return scanUser(r.s.pool.QueryRow(ctx, q, userID))
}

// RecordFailedLogin incrementa el contador y aplica la transición de lockout
// en un solo statement condicional. La fila es la que serializa: dos intentos
// concurrentes ven incrementos distintos y solo uno puede alcanzar el umbral.
// locked se detecta porque la transición deja el contador en 0.
func (r *UserRepository) RecordFailedLogin(ctx context.Context, userID string, threshold int, until time.Time) (*repository.FailedLoginResult, error) {
	q := `
		UPDATE app_user SET
			access_failed_count = CASE
				WHEN lockout_enabled AND access_failed_count + 1 >= $2 THEN 0
				ELSE access_failed_count + 1
			END,
			lockout_end = CASE
				WHEN lockout_enabled AND access_failed_count + 1 >= $2 THEN $3
				ELSE lockout_end
			END,
			updated_at = now()
		WHERE id = $1
		RETURNING access_failed_count, lockout_end`

	var res repository.FailedLoginResult
	err := r.s.pool.QueryRow(ctx, q, userID, threshold, until).
		Scan(&res.AccessFailedCount, &res.LockoutEnd)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("record failed login: %w", err)
	}
	res.Locked = res.AccessFailedCount == 0
	return &res, nil
}

func (r *UserRepository) ApplyLockout(ctx context.Context, userID string, until time.Time) error {
	q := `UPDATE app_user SET access_failed_count = 0, lockout_end = $2, updated_at = now() WHERE id = $1`
	tag, err := r.s.pool.Exec(ctx, q, userID, until)
	if err != nil {
		return fmt.Errorf("apply lockout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ResetAccessFailed(ctx context.Context, userID string) error {
	q := `UPDATE app_user SET access_failed_count = 0, updated_at = now() WHERE id = $1`
	tag, err := r.s.pool.Exec(ctx, q, userID)
	if err != nil {
		return fmt.Errorf("reset access failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	q := `UPDATE app_user SET password_hash = $2, updated_at = now() WHERE id = $1`
	tag, err := r.s.pool.Exec(ctx, q, userID, newHash)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
