package auth

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/sessiond/internal/domain/repository"
	"github.com/dropDatabas3/sessiond/internal/metrics"
	"github.com/dropDatabas3/sessiond/internal/notify"
	"github.com/dropDatabas3/sessiond/internal/observability/logger"
)

// Logout cierra la sesión propia del caller. El registro se consulta
// primero como guard de fast-path; la fila de sesión sigue siendo la
// autoridad.
func (s *service) Logout(ctx context.Context, token, sessionID string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.logout"),
		logger.Op("Logout"),
		logger.SessionID(sessionID),
	)

	if !s.deps.Registry.IsActive(ctx, token) {
		log.Debug("token not in registry")
		return ErrSessionExpired
	}

	sess, err := s.deps.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("lookup session: %w", err)
	}

	// La sesión se registra a sí misma como su terminadora.
	if err := s.deps.Sessions.Deactivate(ctx, sessionID, sessionID, s.now()); err != nil {
		if repository.IsNotFound(err) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("deactivate session: %w", err)
	}

	s.notify(ctx, notify.Logout(sess.UserID, sess))
	if err := s.deps.Registry.Remove(ctx, token); err != nil {
		log.Warn("registry remove failed", logger.Err(err))
	}

	metrics.SessionsRevokedTotal.WithLabelValues("logout").Inc()
	log.Info("logout successful")
	return nil
}

// LogoutBySessionID cierra una sesión arbitraria por su id. La operación
// no chequea ownership contra la identidad actuante; la expone solo la
// superficie admin (ver DESIGN.md).
func (s *service) LogoutBySessionID(ctx context.Context, targetSessionID, actingSessionID string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.logout"),
		logger.Op("LogoutBySessionID"),
		logger.SessionID(targetSessionID),
	)

	sess, err := s.deps.Sessions.GetByID(ctx, targetSessionID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("lookup session: %w", err)
	}
	if !sess.IsActive {
		return ErrSessionExpired
	}

	if err := s.deps.Sessions.Deactivate(ctx, targetSessionID, actingSessionID, s.now()); err != nil {
		if repository.IsNotFound(err) {
			// otra operación la desactivó entre el Get y acá
			return ErrSessionExpired
		}
		return fmt.Errorf("deactivate session: %w", err)
	}

	s.notify(ctx, notify.Logout(sess.UserID, sess))
	if err := s.deps.Registry.Remove(ctx, sess.Token); err != nil {
		log.Warn("registry remove failed", logger.Err(err))
	}

	metrics.SessionsRevokedTotal.WithLabelValues("logout_by_id").Inc()
	log.Info("session closed", logger.UserID(sess.UserID))
	return nil
}

// LogoutAll desactiva todas las sesiones activas del usuario en un batch,
// remueve los tokens del registro en una sola operación y emite una única
// notificación. Un usuario sin sesiones activas es un no-op exitoso.
func (s *service) LogoutAll(ctx context.Context, userID, actingSessionID string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.logout"),
		logger.Op("LogoutAll"),
		logger.UserID(userID),
	)

	tokens, err := s.deps.Sessions.DeactivateAllByUser(ctx, userID, actingSessionID, s.now())
	if err != nil {
		return fmt.Errorf("deactivate sessions: %w", err)
	}
	if len(tokens) == 0 {
		log.Debug("no active sessions")
		return nil
	}

	if err := s.deps.Registry.RemoveBatch(ctx, tokens); err != nil {
		log.Warn("registry batch remove failed", logger.Err(err))
	}
	s.notify(ctx, notify.LogoutAll(userID, len(tokens)))

	metrics.SessionsRevokedTotal.WithLabelValues("logout_all").Add(float64(len(tokens)))
	log.Info("logout-all successful", logger.Count(len(tokens)))
	return nil
}
