package auth

import (
	"context"
	"time"

	"github.com/dropDatabas3/sessiond/internal/clientinfo"
	"github.com/dropDatabas3/sessiond/internal/domain/repository"
	jwtx "github.com/dropDatabas3/sessiond/internal/jwt"
	"github.com/dropDatabas3/sessiond/internal/location"
	"github.com/dropDatabas3/sessiond/internal/metrics"
	"github.com/dropDatabas3/sessiond/internal/notify"
	"github.com/dropDatabas3/sessiond/internal/observability/logger"
	"github.com/dropDatabas3/sessiond/internal/registry"
)

// Deps contiene las dependencias del manager de sesiones.
type Deps struct {
	Users    repository.UserRepository
	Apps     repository.ApplicationRepository
	Sessions repository.SessionRepository
	Registry registry.Registry
	Issuer   *jwtx.Issuer
	Notifier notify.Sink
	Detector clientinfo.Detector
	Location location.Resolver
	Lockout  LockoutPolicy

	// Now permite inyectar el reloj en tests. nil = time.Now.
	Now func() time.Time
}

type service struct {
	deps Deps
}

// NewService crea el manager del ciclo de vida de sesiones.
func NewService(deps Deps) Service {
	if deps.Notifier == nil {
		deps.Notifier = notify.Noop{}
	}
	if deps.Detector == nil {
		deps.Detector = clientinfo.NewDetector()
	}
	if deps.Location == nil {
		deps.Location = location.Noop{}
	}
	if deps.Lockout.Threshold == 0 {
		deps.Lockout = DefaultLockoutPolicy
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{deps: deps}
}

// notify encola best-effort: un sink caído se loguea y no afecta la
// operación principal.
func (s *service) notify(ctx context.Context, n repository.Notification) {
	if err := s.deps.Notifier.Enqueue(ctx, n); err != nil {
		metrics.NotificationsFailedTotal.Inc()
		logger.From(ctx).Warn("notification enqueue failed",
			logger.Component("auth"),
			logger.String("kind", string(n.Kind)),
			logger.UserID(n.UserID),
			logger.Err(err),
		)
	}
}

func (s *service) now() time.Time { return s.deps.Now().UTC() }

func (s *service) ListActiveSessions(ctx context.Context, userID string) ([]repository.Session, error) {
	return s.deps.Sessions.ListActiveByUser(ctx, userID)
}
