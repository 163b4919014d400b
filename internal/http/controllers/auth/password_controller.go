package auth

import (
	"errors"
	"net/http"

	svc "github.com/dropDatabas3/sessiond/internal/auth"
	"github.com/dropDatabas3/sessiond/internal/authctx"
	dto "github.com/dropDatabas3/sessiond/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/sessiond/internal/http/errors"
	"github.com/dropDatabas3/sessiond/internal/observability/logger"
)

// PasswordController maneja el cambio de password del usuario autenticado.
type PasswordController struct {
	service svc.Service
}

func NewPasswordController(service svc.Service) *PasswordController {
	return &PasswordController{service: service}
}

// ChangePassword maneja POST /v1/auth/password. Las sesiones existentes no
// se revocan al cambiar el password.
func (c *PasswordController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("PasswordController.ChangePassword"))

	id, ok := authctx.From(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	var req dto.ChangePasswordRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("old_password y new_password son obligatorios"))
		return
	}

	if err := c.service.ChangePassword(ctx, id.UserID, req.OldPassword, req.NewPassword); err != nil {
		log.Debug("change password failed", logger.Err(err))
		switch {
		case errors.Is(err, svc.ErrInvalidPassword):
			httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail("password actual incorrecto"))
		case errors.Is(err, svc.ErrSamePassword):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("el password nuevo debe ser distinto del actual"))
		case errors.Is(err, svc.ErrUserNotFound):
			httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("usuario no encontrado"))
		default:
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
