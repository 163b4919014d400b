// Package admin contiene los controllers de la superficie administrativa,
// protegida por API key.
package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	svc "github.com/dropDatabas3/sessiond/internal/auth"
	dto "github.com/dropDatabas3/sessiond/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/sessiond/internal/http/errors"
	"github.com/dropDatabas3/sessiond/internal/observability/logger"
)

// SessionsController expone operaciones administrativas sobre sesiones:
// cierre por id, cierre masivo por usuario y listado.
type SessionsController struct {
	service svc.Service
}

func NewSessionsController(service svc.Service) *SessionsController {
	return &SessionsController{service: service}
}

// CloseByID maneja DELETE /v1/admin/sessions/{sessionID}.
//
// La operación cierra cualquier sesión sin chequear ownership: por eso vive
// solo detrás de la API key administrativa. El header X-Acting-Session-ID es
// opcional y se registra como terminadora si viene.
func (c *SessionsController) CloseByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("admin.SessionsController.CloseByID"))

	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("sessionID requerido"))
		return
	}
	acting := r.Header.Get("X-Acting-Session-ID")

	if err := c.service.LogoutBySessionID(ctx, sessionID, acting); err != nil {
		log.Debug("close session failed", logger.SessionID(sessionID), logger.Err(err))
		switch {
		case errors.Is(err, svc.ErrSessionNotFound):
			httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("sesión no encontrada"))
		case errors.Is(err, svc.ErrSessionExpired):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("la sesión ya estaba cerrada"))
		default:
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CloseAllByUser maneja POST /v1/admin/users/{userID}/logout-all.
func (c *SessionsController) CloseAllByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("admin.SessionsController.CloseAllByUser"))

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("userID requerido"))
		return
	}
	acting := r.Header.Get("X-Acting-Session-ID")

	if err := c.service.LogoutAll(ctx, userID, acting); err != nil {
		log.Error("logout-all failed", logger.UserID(userID), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListByUser maneja GET /v1/admin/users/{userID}/sessions.
func (c *SessionsController) ListByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("admin.SessionsController.ListByUser"))

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("userID requerido"))
		return
	}

	sessions, err := c.service.ListActiveSessions(ctx, userID)
	if err != nil {
		log.Error("list sessions failed", logger.UserID(userID), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	views := make([]dto.SessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, dto.NewSessionView(s, ""))
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(dto.SessionListResponse{Sessions: views, Total: len(views)})
}
