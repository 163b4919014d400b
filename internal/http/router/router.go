// Package router arma el árbol de rutas del servicio.
package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	httpx "github.com/dropDatabas3/sessiond/internal/http"
	adminctrl "github.com/dropDatabas3/sessiond/internal/http/controllers/admin"
	authctrl "github.com/dropDatabas3/sessiond/internal/http/controllers/auth"
	"github.com/dropDatabas3/sessiond/internal/http/handlers"
	mw "github.com/dropDatabas3/sessiond/internal/http/middlewares"
	jwtx "github.com/dropDatabas3/sessiond/internal/jwt"
	"github.com/dropDatabas3/sessiond/internal/rate"
	"github.com/dropDatabas3/sessiond/internal/registry"
)

// Deps contiene todo lo que el router necesita para armar las rutas.
type Deps struct {
	Auth  *authctrl.Controllers
	Admin *adminctrl.SessionsController

	Issuer   *jwtx.Issuer
	Registry registry.Registry

	// LoginLimiter es opcional: nil desactiva el rate limiting del login.
	LoginLimiter rate.Limiter

	AdminAPIKey string

	MetricsHandler http.Handler
	CheckDB        func(ctx context.Context) error
	CheckRegistry  func(ctx context.Context) error
}

// New arma el router chi completo con sus middlewares.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	base := []mw.Middleware{
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithLogging(),
	}

	// Público
	r.Method(http.MethodPost, "/v1/auth/login", mw.ChainFunc(
		deps.Auth.Login.Login,
		append(base, mw.WithRateLimit(deps.LoginLimiter, mw.IPOnlyRateKey))...,
	))

	// Autenticado: requiere bearer de una sesión activa
	authed := append(base, mw.RequireSession(deps.Issuer, deps.Registry))
	r.Method(http.MethodPost, "/v1/auth/logout", mw.ChainFunc(deps.Auth.Logout.Logout, authed...))
	r.Method(http.MethodPost, "/v1/auth/logout-all", mw.ChainFunc(deps.Auth.Logout.LogoutAll, authed...))
	r.Method(http.MethodPost, "/v1/auth/password", mw.ChainFunc(deps.Auth.Password.ChangePassword, authed...))
	r.Method(http.MethodGet, "/v1/auth/sessions", mw.ChainFunc(deps.Auth.Sessions.List, authed...))

	// Admin: protegido por API key, sin chequeo de ownership
	adminChain := append(base, mw.RequireAdminKey(deps.AdminAPIKey))
	r.Method(http.MethodDelete, "/v1/admin/sessions/{sessionID}", mw.ChainFunc(deps.Admin.CloseByID, adminChain...))
	r.Method(http.MethodPost, "/v1/admin/users/{userID}/logout-all", mw.ChainFunc(deps.Admin.CloseAllByUser, adminChain...))
	r.Method(http.MethodGet, "/v1/admin/users/{userID}/sessions", mw.ChainFunc(deps.Admin.ListByUser, adminChain...))

	// Operacional
	r.Get("/healthz", handlers.NewHealthzHandler())
	r.Get("/readyz", handlers.NewReadyzHandler(deps.Issuer, deps.CheckDB, deps.CheckRegistry))
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	return httpx.WithMetrics(r)
}
