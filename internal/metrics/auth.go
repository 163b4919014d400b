// Package metrics define las métricas Prometheus de autenticación y
// sesiones. Van en un paquete propio para evitar ciclos de import entre los
// services y la capa HTTP.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Intentos de login por resultado",
	}, []string{"result"}) // result: success|app_not_found|app_inactive|app_expired|user_not_found|locked|invalid_password|error

	LockoutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_lockouts_total",
		Help: "Transiciones de cuenta a estado bloqueado",
	})

	SessionsRevokedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_sessions_revoked_total",
		Help: "Sesiones desactivadas por tipo de operación",
	}, []string{"op"}) // op: logout|logout_by_id|logout_all

	NotificationsFailedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_notifications_failed_total",
		Help: "Notificaciones que no pudieron encolarse",
	})
)

// RegisterAuth registra las métricas de auth en el registry dado (o el
// default si es nil).
func RegisterAuth(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		LoginsTotal, LockoutsTotal, SessionsRevokedTotal, NotificationsFailedTotal,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
