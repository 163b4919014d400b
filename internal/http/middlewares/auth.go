package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/sessiond/internal/authctx"
	"github.com/dropDatabas3/sessiond/internal/http/errors"
	jwtx "github.com/dropDatabas3/sessiond/internal/jwt"
	"github.com/dropDatabas3/sessiond/internal/registry"
)

// RequireSession valida Authorization: Bearer <token> contra el issuer y el
// registro de sesiones activas, y guarda la identidad en el contexto.
//
// El registro actúa como primer filtro: un token bien firmado cuya sesión ya
// fue cerrada se rechaza acá sin tocar el store.
func RequireSession(issuer *jwtx.Issuer, reg registry.Registry) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="missing bearer token"`)
				errors.WriteError(w, errors.ErrTokenMissing)
				return
			}

			claims, err := issuer.ParseSession(raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				errors.WriteError(w, errors.ErrTokenInvalid)
				return
			}

			if !reg.IsActive(r.Context(), raw) {
				errors.WriteError(w, errors.ErrTokenInvalid.WithDetail("session closed or expired"))
				return
			}

			ctx := authctx.ToContext(r.Context(), authctx.Identity{
				Token:     raw,
				SessionID: claims.SessionID,
				UserID:    claims.UserID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		return ""
	}
	return strings.TrimSpace(ah[len("Bearer "):])
}
