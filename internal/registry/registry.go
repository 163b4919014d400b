// Package registry implementa el registro de sesiones activas: un índice
// token → activo que responde "¿este token sigue representando una sesión
// viva?" en O(1) sin tocar el store.
//
// El registro es derivado, no autoritativo. La fila de sesión es la fuente
// de verdad; ante divergencia gana el store (last write wins: login agrega,
// cada camino de logout remueve). Se modela como un servicio inyectado con
// una instancia por proceso, reemplazable por Redis en despliegues
// multi-instancia.
package registry

import (
	"context"
	"time"
)

// Registry indexa los tokens de sesiones activas.
type Registry interface {
	// Add marca el token como activo. El TTL debería coincidir con la
	// expiración del token para que las entradas huérfanas caduquen solas.
	Add(ctx context.Context, token string, ttl time.Duration) error

	// Remove elimina el token del registro. Remover un token ausente no es
	// un error (idempotente).
	Remove(ctx context.Context, token string) error

	// RemoveBatch elimina un lote de tokens en una sola operación.
	RemoveBatch(ctx context.Context, tokens []string) error

	// IsActive responde si el token está marcado como activo. Es un guard
	// de fast-path: un error del backend se resuelve como activo (fail
	// open) y la fila de sesión decide.
	IsActive(ctx context.Context, token string) bool

	// Clear vacía el registro completo.
	Clear(ctx context.Context) error
}
