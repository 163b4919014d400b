// Package dto define los contratos JSON de la superficie de autenticación.
package dto

import (
	"time"

	"github.com/dropDatabas3/sessiond/internal/domain/repository"
)

// LoginRequest es el body de POST /v1/auth/login.
type LoginRequest struct {
	AppID     string `json:"app_id"`
	AppSecret string `json:"app_secret"`
	Login     string `json:"login"`
	Password  string `json:"password"`
}

// LoginResponse es la respuesta exitosa del login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	SessionID   string `json:"session_id"`
}

// LockedResponse es la respuesta 423 cuando la cuenta está bloqueada.
type LockedResponse struct {
	Code        string    `json:"code"`
	Message     string    `json:"message"`
	LockedUntil time.Time `json:"locked_until"`
}

// ChangePasswordRequest es el body de POST /v1/auth/password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// SessionView es la proyección pública de una sesión. El token nunca se
// expone.
type SessionView struct {
	ID       string                 `json:"id"`
	IsActive bool                   `json:"is_active"`
	App      repository.AppSnapshot `json:"app"`
	Client   repository.ClientInfo  `json:"client"`
	Location repository.Location    `json:"location"`

	CreatedAt              time.Time  `json:"created_at"`
	DeactivatedAt          *time.Time `json:"deactivated_at,omitempty"`
	DeactivatedBySessionID *string    `json:"deactivated_by_session_id,omitempty"`

	// Current marca la sesión desde la que se hizo el request.
	Current bool `json:"current,omitempty"`
}

// NewSessionView proyecta una sesión del dominio.
func NewSessionView(s repository.Session, currentSessionID string) SessionView {
	return SessionView{
		ID:                     s.ID,
		IsActive:               s.IsActive,
		App:                    s.App,
		Client:                 s.Client,
		Location:               s.Location,
		CreatedAt:              s.CreatedAt,
		DeactivatedAt:          s.DeactivatedAt,
		DeactivatedBySessionID: s.DeactivatedBySessionID,
		Current:                currentSessionID != "" && s.ID == currentSessionID,
	}
}

// SessionListResponse envuelve el listado de sesiones.
type SessionListResponse struct {
	Sessions []SessionView `json:"sessions"`
	Total    int           `json:"total"`
}
