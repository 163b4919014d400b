package middlewares

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
)

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, rid)
}

// GetRequestID retorna el request id del contexto, o "" si no hay.
func GetRequestID(ctx context.Context) string {
	rid, _ := ctx.Value(ctxKeyRequestID).(string)
	return rid
}

// clientIP extrae la IP real del cliente, respetando X-Forwarded-For y
// X-Real-IP cuando están presentes.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// primer hop de la cadena
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		if ip := strings.TrimSpace(xff); ip != "" {
			return ip
		}
	}
	if rip := strings.TrimSpace(r.Header.Get("X-Real-IP")); rip != "" {
		return rip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ClientIP expone clientIP para handlers que lo necesiten.
func ClientIP(r *http.Request) string { return clientIP(r) }
