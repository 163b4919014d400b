// Package handlers contiene los handlers de health/readiness del servicio.
package handlers

import (
	"context"
	"net/http"
	"os"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	httperrors "github.com/dropDatabas3/sessiond/internal/http/errors"
	jwtx "github.com/dropDatabas3/sessiond/internal/jwt"
	"github.com/dropDatabas3/sessiond/internal/observability/logger"
)

// NewHealthzHandler responde 200 si el proceso está vivo.
func NewHealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// NewReadyzHandler chequea DB, firma EdDSA y (opcional) el backend del
// registro antes de declarar al servicio listo.
func NewReadyzHandler(issuer *jwtx.Issuer, checkDB, checkRegistry func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if v := os.Getenv("SERVICE_VERSION"); v != "" {
			w.Header().Set("X-Service-Version", v)
		}
		if issuer != nil && issuer.Keys != nil {
			w.Header().Set("X-JWKS-KID", issuer.Keys.KID)
		}

		// 1) DB
		if checkDB != nil {
			if err := checkDB(r.Context()); err != nil {
				logger.From(r.Context()).Error("readyz: db unavailable", logger.Err(err))
				httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithDetail("database unavailable"))
				return
			}
		}

		// 2) Self-check EdDSA: firmar y verificar un JWT efímero en memoria
		if issuer != nil {
			tok, err := issuer.IssueSession("selfcheck", "selfcheck", "health")
			if err != nil {
				httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithDetail("sign self-check failed"))
				return
			}
			parsed, err := jwtv5.Parse(tok.Token, issuer.Keyfunc(),
				jwtv5.WithValidMethods([]string{"EdDSA"}),
				jwtv5.WithIssuer(issuer.Iss),
			)
			if err != nil || !parsed.Valid {
				httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithDetail("verify self-check failed"))
				return
			}
		}

		// 3) Registro (opcional)
		if checkRegistry != nil {
			if err := checkRegistry(r.Context()); err != nil {
				logger.From(r.Context()).Error("readyz: registry unavailable", logger.Err(err))
				httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithDetail("session registry unavailable"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}
}
