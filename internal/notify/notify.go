// Package notify emite las notificaciones de dominio del ciclo de vida de
// sesiones. La emisión es fire-and-forget: un sink que falla se loguea y
// nunca hace fallar la operación principal.
package notify

import (
	"context"

	"github.com/dropDatabas3/sessiond/internal/domain/repository"
	"github.com/dropDatabas3/sessiond/internal/observability/logger"
)

// Sink encola una notificación.
type Sink interface {
	Enqueue(ctx context.Context, n repository.Notification) error
}

// StoreSink persiste la notificación como fila en el store.
type StoreSink struct {
	Repo repository.NotificationRepository
}

func (s *StoreSink) Enqueue(ctx context.Context, n repository.Notification) error {
	return s.Repo.Create(ctx, n)
}

// Multi reparte la notificación a varios sinks. Los errores individuales se
// loguean como warning y no se propagan.
type Multi struct {
	Sinks []Sink
}

func NewMulti(sinks ...Sink) *Multi { return &Multi{Sinks: sinks} }

func (m *Multi) Enqueue(ctx context.Context, n repository.Notification) error {
	for _, s := range m.Sinks {
		if err := s.Enqueue(ctx, n); err != nil {
			logger.From(ctx).Warn("notification sink failed",
				logger.Component("notify"),
				logger.String("kind", string(n.Kind)),
				logger.UserID(n.UserID),
				logger.Err(err),
			)
		}
	}
	return nil
}

// Noop descarta todo. Útil en tests.
type Noop struct{}

func (Noop) Enqueue(context.Context, repository.Notification) error { return nil }
