package auth

import (
	"time"

	"github.com/dropDatabas3/sessiond/internal/domain/repository"
)

// LockoutPolicy parametriza la escalación de lockout: Threshold intentos
// fallidos consecutivos abren una ventana de Window.
type LockoutPolicy struct {
	Threshold int
	Window    time.Duration
}

// DefaultLockoutPolicy: 5 intentos, 1 hora.
var DefaultLockoutPolicy = LockoutPolicy{Threshold: 5, Window: time.Hour}

// LockoutDecision es el resultado de evaluar el estado de lockout.
type LockoutDecision struct {
	Locked bool
	Until  time.Time
}

// EvaluateLockout es la función de decisión pura del lockout. No muta nada:
// las transiciones (reset del contador, apertura de ventana) las aplica el
// caller contra el store.
//
//   - LockoutEnabled false → nunca bloqueado.
//   - now < LockoutEnd → bloqueado hasta LockoutEnd. El caller debe
//     rechazar sin verificar password y sin tocar el contador.
func EvaluateLockout(u *repository.User, now time.Time) LockoutDecision {
	if !u.LockoutEnabled {
		return LockoutDecision{}
	}
	if u.LockoutEnd != nil && now.Before(*u.LockoutEnd) {
		return LockoutDecision{Locked: true, Until: *u.LockoutEnd}
	}
	return LockoutDecision{}
}

// atThreshold indica que el contador persistido ya alcanzó el umbral sin
// que la transición se haya aplicado (estado heredado o escritura
// concurrente). El caller aplica la transición antes de verificar password.
func (p LockoutPolicy) atThreshold(u *repository.User) bool {
	return u.LockoutEnabled && u.AccessFailedCount >= p.Threshold
}
