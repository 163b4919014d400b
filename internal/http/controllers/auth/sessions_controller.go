package auth

import (
	"net/http"

	svc "github.com/dropDatabas3/sessiond/internal/auth"
	"github.com/dropDatabas3/sessiond/internal/authctx"
	dto "github.com/dropDatabas3/sessiond/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/sessiond/internal/http/errors"
	"github.com/dropDatabas3/sessiond/internal/observability/logger"
)

// SessionsController lista las sesiones activas del usuario autenticado.
type SessionsController struct {
	service svc.Service
}

func NewSessionsController(service svc.Service) *SessionsController {
	return &SessionsController{service: service}
}

// List maneja GET /v1/auth/sessions
func (c *SessionsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("SessionsController.List"))

	id, ok := authctx.From(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	sessions, err := c.service.ListActiveSessions(ctx, id.UserID)
	if err != nil {
		log.Error("list sessions failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	views := make([]dto.SessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, dto.NewSessionView(s, id.SessionID))
	}
	writeJSON(w, http.StatusOK, dto.SessionListResponse{Sessions: views, Total: len(views)})
}
