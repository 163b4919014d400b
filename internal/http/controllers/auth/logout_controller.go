package auth

import (
	"errors"
	"net/http"

	svc "github.com/dropDatabas3/sessiond/internal/auth"
	"github.com/dropDatabas3/sessiond/internal/authctx"
	httperrors "github.com/dropDatabas3/sessiond/internal/http/errors"
	"github.com/dropDatabas3/sessiond/internal/observability/logger"
)

// LogoutController maneja el cierre de la sesión propia y el logout masivo.
type LogoutController struct {
	service svc.Service
}

func NewLogoutController(service svc.Service) *LogoutController {
	return &LogoutController{service: service}
}

// Logout maneja POST /v1/auth/logout. Cierra la sesión desde la que se hace
// el request.
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LogoutController.Logout"))

	id, ok := authctx.From(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	if err := c.service.Logout(ctx, id.Token, id.SessionID); err != nil {
		log.Debug("logout failed", logger.Err(err))
		writeLogoutError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LogoutAll maneja POST /v1/auth/logout-all. Cierra todas las sesiones
// activas del usuario autenticado, incluida la actual.
func (c *LogoutController) LogoutAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LogoutController.LogoutAll"))

	id, ok := authctx.From(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	if err := c.service.LogoutAll(ctx, id.UserID, id.SessionID); err != nil {
		log.Debug("logout-all failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeLogoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrSessionExpired):
		httperrors.WriteError(w, httperrors.ErrTokenInvalid.WithDetail("sesión cerrada o expirada"))
	case errors.Is(err, svc.ErrSessionNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("sesión no encontrada"))
	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
