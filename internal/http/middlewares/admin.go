package middlewares

import (
	"crypto/subtle"
	"net/http"

	"github.com/dropDatabas3/sessiond/internal/http/errors"
)

// AdminKeyHeader es el header que transporta la API key administrativa.
const AdminKeyHeader = "X-Admin-API-Key"

// RequireAdminKey protege la superficie admin con una API key estática.
// Con key vacía la superficie queda deshabilitada: todo request responde 403.
func RequireAdminKey(key string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				errors.WriteError(w, errors.ErrForbidden.WithDetail("admin surface disabled"))
				return
			}
			got := r.Header.Get(AdminKeyHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				errors.WriteError(w, errors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
