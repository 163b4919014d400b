// Package auth contiene el manager del ciclo de vida de sesiones: la
// máquina de estados de login (validación de credenciales, lockout,
// emisión de token, persistencia de sesión), el cambio de password y las
// tres variantes de logout.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/sessiond/internal/domain/repository"
	jwtx "github.com/dropDatabas3/sessiond/internal/jwt"
)

// Service define las operaciones expuestas a la capa HTTP.
type Service interface {
	// Login autentica app + usuario y emite una sesión nueva.
	Login(ctx context.Context, in LoginInput) (*jwtx.IssuedToken, error)

	// ChangePassword reemplaza el password del usuario. No revoca las
	// sesiones existentes (comportamiento heredado, ver DESIGN.md).
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error

	// Logout cierra la sesión propia del caller.
	Logout(ctx context.Context, token, sessionID string) error

	// LogoutBySessionID cierra una sesión arbitraria. No hace chequeo de
	// ownership: la ruta que lo expone está detrás de la admin key.
	LogoutBySessionID(ctx context.Context, targetSessionID, actingSessionID string) error

	// LogoutAll cierra todas las sesiones activas del usuario en un batch.
	LogoutAll(ctx context.Context, userID, actingSessionID string) error

	// ListActiveSessions retorna las sesiones activas de un usuario
	// (superficie admin).
	ListActiveSessions(ctx context.Context, userID string) ([]repository.Session, error)
}

// LoginInput son los datos de un intento de login.
type LoginInput struct {
	AppID     string
	AppSecret string
	Login     string
	Password  string

	// Client es opcional; si falta se deriva del UserAgent.
	Client    *repository.ClientInfo
	UserAgent string
	SourceIP  string
}

// Errores de dominio. Todos se devuelven tipados al caller; solo las fallas
// de infraestructura (store caído, issuer caído) se propagan envueltas.
var (
	ErrAppNotFound     = fmt.Errorf("app not found")
	ErrAppInactive     = fmt.Errorf("app inactive")
	ErrAppExpired      = fmt.Errorf("app expired")
	ErrUserNotFound    = fmt.Errorf("user not found")
	ErrInvalidPassword = fmt.Errorf("invalid password")
	ErrSamePassword    = fmt.Errorf("new password equals old password")
	ErrSessionExpired  = fmt.Errorf("session already expired")
	ErrSessionNotFound = fmt.Errorf("session not found")
)

// LockedError indica que la cuenta está bloqueada hasta Until.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.Until.Format(time.RFC3339))
}

// AsLocked extrae un LockedError si err lo es.
func AsLocked(err error) (*LockedError, bool) {
	var le *LockedError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
