package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dropDatabas3/sessiond/internal/domain/repository"
	jwtx "github.com/dropDatabas3/sessiond/internal/jwt"
	"github.com/dropDatabas3/sessiond/internal/metrics"
	"github.com/dropDatabas3/sessiond/internal/notify"
	"github.com/dropDatabas3/sessiond/internal/observability/logger"
	"github.com/dropDatabas3/sessiond/internal/security/password"
)

// Login ejecuta la secuencia de validación con short-circuit en la primera
// falla; cada falla tiene su error tipado y el password no se verifica
// hasta que todos los chequeos previos pasan.
func (s *service) Login(ctx context.Context, in LoginInput) (*jwtx.IssuedToken, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Login"),
		logger.AppID(in.AppID),
	)
	now := s.now()

	// Paso 1-3: credenciales de aplicación
	app, err := s.deps.Apps.GetByCredentials(ctx, in.AppID, in.AppSecret)
	if err != nil {
		if repository.IsNotFound(err) {
			metrics.LoginsTotal.WithLabelValues("app_not_found").Inc()
			log.Debug("app not found")
			return nil, ErrAppNotFound
		}
		return nil, fmt.Errorf("lookup app: %w", err)
	}
	if !app.IsActive {
		metrics.LoginsTotal.WithLabelValues("app_inactive").Inc()
		log.Debug("app inactive")
		return nil, ErrAppInactive
	}
	if !app.ActiveByTime(now) {
		metrics.LoginsTotal.WithLabelValues("app_expired").Inc()
		log.Debug("app outside activity window")
		return nil, ErrAppExpired
	}

	// Paso 4: usuario
	user, err := s.deps.Users.GetByLogin(ctx, in.Login)
	if err != nil {
		if repository.IsNotFound(err) {
			metrics.LoginsTotal.WithLabelValues("user_not_found").Inc()
			log.Debug("user not found")
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	log = log.With(logger.UserID(user.ID))

	// Paso 5: lockout. Se evalúa antes de verificar el password: una
	// cuenta bloqueada no consume verificación ni incrementa el contador.
	if dec := EvaluateLockout(user, now); dec.Locked {
		metrics.LoginsTotal.WithLabelValues("locked").Inc()
		log.Info("login rejected: account locked", logger.LockoutEnd(dec.Until))
		return nil, &LockedError{Until: dec.Until}
	}
	if s.deps.Lockout.atThreshold(user) {
		// El contador ya llegó al umbral sin transición aplicada. Aplicarla
		// ahora, también antes de verificar el password.
		until := now.Add(s.deps.Lockout.Window)
		if err := s.deps.Users.ApplyLockout(ctx, user.ID, until); err != nil {
			return nil, fmt.Errorf("apply lockout: %w", err)
		}
		metrics.LoginsTotal.WithLabelValues("locked").Inc()
		metrics.LockoutsTotal.Inc()
		s.notify(ctx, notify.AccountLocked(user.ID, until))
		log.Info("account locked at threshold", logger.LockoutEnd(until))
		return nil, &LockedError{Until: until}
	}

	// Paso 6: password
	if !password.Verify(in.Password, user.PasswordHash) {
		return nil, s.failedAttempt(ctx, log, user, in.SourceIP, now)
	}
	if user.LockoutEnabled && user.AccessFailedCount > 0 {
		// Un login exitoso resetea el contador: sin esto, una racha vieja
		// de fallos adelantaría un lockout futuro.
		if err := s.deps.Users.ResetAccessFailed(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("reset failed count: %w", err)
		}
	}

	// Paso 7: contexto de la sesión. La ubicación es best-effort y nunca
	// aborta el login.
	client := in.Client
	if client == nil {
		ci := s.deps.Detector.Detect(in.UserAgent)
		client = &ci
	}
	loc := s.deps.Location.Resolve(ctx, in.SourceIP)

	// Paso 8-9: el session id se genera acá, el token se emite primero y
	// la fila se inserta una sola vez, completa. No hay ventana de token
	// placeholder: si el insert falla, el token nunca entra al registro y
	// ningún row queda activo a medias.
	sessionID := uuid.NewString()
	tok, err := s.deps.Issuer.IssueSession(user.ID, sessionID, "pwd")
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	sess, err := s.deps.Sessions.Create(ctx, repository.CreateSessionInput{
		ID:       sessionID,
		UserID:   user.ID,
		Token:    tok.Token,
		App:      app.Snapshot(),
		Client:   *client,
		Location: loc,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	// Paso 10: notificación + registro
	s.notify(ctx, notify.Login(user.ID, sess))
	if err := s.deps.Registry.Add(ctx, tok.Token, time.Until(tok.ExpiresAt)); err != nil {
		// El registro es un cache derivado: se loguea y la sesión sigue
		// siendo válida contra el store.
		log.Warn("registry add failed", logger.SessionID(sessionID), logger.Err(err))
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	log.Info("login successful", logger.SessionID(sessionID))
	return tok, nil
}

// failedAttempt registra un intento fallido. El incremento y la eventual
// transición de lockout son una sola operación atómica del store: dos
// intentos concurrentes no pueden perder un incremento ni disparar la
// transición dos veces.
func (s *service) failedAttempt(ctx context.Context, log *zap.Logger, user *repository.User, sourceIP string, now time.Time) error {
	if !user.LockoutEnabled {
		// El contador solo es significativo con lockout habilitado.
		metrics.LoginsTotal.WithLabelValues("invalid_password").Inc()
		s.notify(ctx, notify.LoginAttempt(user.ID, sourceIP))
		log.Info("login rejected: invalid password", logger.ClientIP(sourceIP))
		return ErrInvalidPassword
	}

	res, err := s.deps.Users.RecordFailedLogin(ctx, user.ID, s.deps.Lockout.Threshold, now.Add(s.deps.Lockout.Window))
	if err != nil {
		return fmt.Errorf("record failed login: %w", err)
	}
	if res.Locked {
		// Este fallo es el que bloquea la cuenta: se absorbe en la
		// transición (contador a 0) en lugar de persistirse como un conteo
		// más.
		until := now.Add(s.deps.Lockout.Window)
		if res.LockoutEnd != nil {
			until = *res.LockoutEnd
		}
		metrics.LoginsTotal.WithLabelValues("locked").Inc()
		metrics.LockoutsTotal.Inc()
		s.notify(ctx, notify.AccountLocked(user.ID, until))
		log.Info("account locked after repeated failures", logger.LockoutEnd(until))
		return &LockedError{Until: until}
	}

	metrics.LoginsTotal.WithLabelValues("invalid_password").Inc()
	s.notify(ctx, notify.LoginAttempt(user.ID, sourceIP))
	log.Info("login rejected: invalid password",
		logger.ClientIP(sourceIP),
		logger.Count(res.AccessFailedCount),
	)
	return ErrInvalidPassword
}
