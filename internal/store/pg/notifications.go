package pg

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/sessiond/internal/domain/repository"
)

// NotificationRepository implementa repository.NotificationRepository.
type NotificationRepository struct{ s *Store }

func NewNotificationRepository(s *Store) *NotificationRepository {
	return &NotificationRepository{s: s}
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Create(ctx context.Context, n repository.Notification) error {
	q := `
		INSERT INTO notification (id, user_id, kind, title, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.s.pool.Exec(ctx, q, n.ID, n.UserID, string(n.Kind), n.Title, n.Content, n.CreatedAt); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}
