package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/sessiond/internal/domain/repository"
)

// ApplicationRepository implementa repository.ApplicationRepository.
type ApplicationRepository struct{ s *Store }

func NewApplicationRepository(s *Store) *ApplicationRepository {
	return &ApplicationRepository{s: s}
}

var _ repository.ApplicationRepository = (*ApplicationRepository)(nil)

// GetByCredentials busca por el par app_id/app_secret exacto. Un secret que
// no coincide es indistinguible de una app inexistente, a propósito.
func (r *ApplicationRepository) GetByCredentials(ctx context.Context, appID, appSecret string) (*repository.Application, error) {
	q := `
		SELECT id, app_id, app_secret, name, short_name, description, image,
		       is_active, active_from, active_to, created_at
		FROM application
		WHERE app_id = $1 AND app_secret = $2`

	var a repository.Application
	err := r.s.pool.QueryRow(ctx, q, appID, appSecret).Scan(
		&a.ID, &a.AppID, &a.AppSecret, &a.Name, &a.ShortName, &a.Description, &a.Image,
		&a.IsActive, &a.ActiveFrom, &a.ActiveTo, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan application: %w", err)
	}
	return &a, nil
}
