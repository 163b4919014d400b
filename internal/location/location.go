// Package location resuelve la ubicación aproximada de una IP de origen.
//
// La resolución es best-effort: cualquier error, timeout o IP privada
// degrada a una Location vacía y nunca aborta el login.
package location

import (
	"context"

	"github.com/dropDatabas3/sessiond/internal/domain/repository"
)

// Resolver resuelve IP → ubicación.
type Resolver interface {
	Resolve(ctx context.Context, ip string) repository.Location
}

// Noop retorna siempre una ubicación vacía. Se usa cuando la resolución
// está deshabilitada por config.
type Noop struct{}

func (Noop) Resolve(context.Context, string) repository.Location {
	return repository.Location{}
}
