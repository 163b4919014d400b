// Package http provee el server HTTP del servicio.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/sessiond/internal/observability/logger"
)

// Server envuelve http.Server con arranque y apagado controlados.
type Server struct {
	srv *http.Server
}

func NewServer(addr string, handler http.Handler) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}}
}

// Start bloquea hasta que el listener falle o se cierre.
func (s *Server) Start() error {
	logger.L().Info("http server listening", logger.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drena conexiones en curso hasta el deadline del contexto.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.L().Info("http server shutting down")
	return s.srv.Shutdown(ctx)
}
