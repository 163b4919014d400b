// Package auth contiene los controllers de la superficie de autenticación.
package auth

import (
	svc "github.com/dropDatabas3/sessiond/internal/auth"
)

// Controllers agrupa los controllers de auth para el router.
type Controllers struct {
	Login    *LoginController
	Logout   *LogoutController
	Password *PasswordController
	Sessions *SessionsController
}

// NewControllers crea todos los controllers de auth.
func NewControllers(service svc.Service) *Controllers {
	return &Controllers{
		Login:    NewLoginController(service),
		Logout:   NewLogoutController(service),
		Password: NewPasswordController(service),
		Sessions: NewSessionsController(service),
	}
}
