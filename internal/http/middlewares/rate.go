package middlewares

import (
	"net/http"
	"strconv"

	"github.com/dropDatabas3/sessiond/internal/http/errors"
	"github.com/dropDatabas3/sessiond/internal/observability/logger"
	"github.com/dropDatabas3/sessiond/internal/rate"
)

// RateKeyFunc deriva la clave de rate limiting de un request.
type RateKeyFunc func(r *http.Request) string

// IPOnlyRateKey limita por IP de origen.
func IPOnlyRateKey(r *http.Request) string { return clientIP(r) }

// WithRateLimit aplica un limiter a la ruta. El limiter caído es fail-open:
// se loguea y el request pasa.
func WithRateLimit(limiter rate.Limiter, keyFn RateKeyFunc) Middleware {
	if keyFn == nil {
		keyFn = IPOnlyRateKey
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			res, err := limiter.Allow(r.Context(), keyFn(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			if !res.Allowed {
				if res.RetryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())))
				}
				errors.WriteError(w, errors.ErrTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
