package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	svc "github.com/dropDatabas3/sessiond/internal/auth"
	dto "github.com/dropDatabas3/sessiond/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/sessiond/internal/http/errors"
	mw "github.com/dropDatabas3/sessiond/internal/http/middlewares"
	"github.com/dropDatabas3/sessiond/internal/observability/logger"
)

// LoginController maneja el endpoint de login.
type LoginController struct {
	service svc.Service
}

// NewLoginController crea un nuevo controller de login.
func NewLoginController(service svc.Service) *LoginController {
	return &LoginController{service: service}
}

// Login maneja POST /v1/auth/login
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	// Parse request (JSON o form)
	var req dto.LoginRequest
	ct := strings.ToLower(r.Header.Get("Content-Type"))

	switch {
	case strings.Contains(ct, "application/json"):
		if !readJSON(w, r, &req) {
			return
		}

	case strings.Contains(ct, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err != nil {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid form"))
			return
		}
		req.AppID = r.FormValue("app_id")
		req.AppSecret = r.FormValue("app_secret")
		req.Login = r.FormValue("login")
		req.Password = r.FormValue("password")

	default:
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("unsupported content type"))
		return
	}

	if req.AppID == "" || req.AppSecret == "" || req.Login == "" || req.Password == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("app_id, app_secret, login y password son obligatorios"))
		return
	}

	tok, err := c.service.Login(ctx, svc.LoginInput{
		AppID:     req.AppID,
		AppSecret: req.AppSecret,
		Login:     req.Login,
		Password:  req.Password,
		UserAgent: r.UserAgent(),
		SourceIP:  mw.ClientIP(r),
	})
	if err != nil {
		log.Debug("login failed", logger.Err(err))
		writeLoginError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	writeJSON(w, http.StatusOK, dto.LoginResponse{
		AccessToken: tok.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(tok.ExpiresAt).Seconds()),
		SessionID:   tok.SessionID,
	})
}

func writeLoginError(w http.ResponseWriter, err error) {
	var locked *svc.LockedError
	if errors.As(err, &locked) {
		writeJSON(w, http.StatusLocked, dto.LockedResponse{
			Code:        "account_locked",
			Message:     "cuenta bloqueada por intentos fallidos",
			LockedUntil: locked.Until,
		})
		return
	}

	switch {
	case errors.Is(err, svc.ErrAppNotFound):
		httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail("credenciales de aplicación inválidas"))

	case errors.Is(err, svc.ErrAppInactive):
		httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail("aplicación desactivada"))

	case errors.Is(err, svc.ErrAppExpired):
		httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail("aplicación fuera de su ventana de actividad"))

	case errors.Is(err, svc.ErrUserNotFound):
		httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail("usuario no encontrado"))

	case errors.Is(err, svc.ErrInvalidPassword):
		httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail("password inválido"))

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
