package repository

import (
	"context"
	"time"
)

// User representa un usuario del sistema con sus campos de seguridad.
type User struct {
	ID           string
	Login        string
	PasswordHash string

	// Campos de lockout. AccessFailedCount solo es significativo cuando
	// LockoutEnabled es true; se resetea a 0 al entrar en una ventana de
	// lockout y en cada login exitoso.
	LockoutEnabled    bool
	AccessFailedCount int
	LockoutEnd        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FailedLoginResult es el resultado del registro atómico de un intento
// fallido de login.
type FailedLoginResult struct {
	// Locked indica que este intento disparó la transición de lockout
	// (el contador volvió a 0 y LockoutEnd quedó seteado).
	Locked bool

	// AccessFailedCount es el valor del contador después de la operación.
	AccessFailedCount int

	// LockoutEnd es la ventana vigente después de la operación (nil si no
	// hay lockout).
	LockoutEnd *time.Time
}

// UserRepository define operaciones sobre usuarios.
type UserRepository interface {
	// GetByLogin busca un usuario por login.
	// Retorna ErrNotFound si no existe.
	GetByLogin(ctx context.Context, login string) (*User, error)

	// GetByID busca un usuario por ID.
	// Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, userID string) (*User, error)

	// RecordFailedLogin registra un intento fallido en una sola operación
	// atómica: si el contador incrementado alcanza threshold, aplica la
	// transición de lockout (contador a 0, LockoutEnd = until); si no,
	// persiste el incremento. Dos intentos concurrentes nunca pueden
	// disparar la transición dos veces ni perder un incremento.
	RecordFailedLogin(ctx context.Context, userID string, threshold int, until time.Time) (*FailedLoginResult, error)

	// ApplyLockout fuerza la transición de lockout: contador a 0 y
	// LockoutEnd = until. Se usa cuando el contador ya alcanzó el umbral
	// antes de la verificación de password.
	ApplyLockout(ctx context.Context, userID string, until time.Time) error

	// ResetAccessFailed vuelve el contador de fallos a 0.
	ResetAccessFailed(ctx context.Context, userID string) error

	// UpdatePasswordHash reemplaza el hash de password del usuario.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error
}
