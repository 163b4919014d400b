// Package memory implementa el registro de sesiones activas en memoria.
package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type Registry struct{ c *gocache.Cache }

// New crea un registro en memoria. Las entradas expiran solas al TTL del
// token; la limpieza corre cada minuto.
func New() *Registry {
	return &Registry{c: gocache.New(gocache.NoExpiration, time.Minute)}
}

func (r *Registry) Add(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	r.c.Set(token, struct{}{}, ttl)
	return nil
}

func (r *Registry) Remove(_ context.Context, token string) error {
	r.c.Delete(token)
	return nil
}

func (r *Registry) RemoveBatch(_ context.Context, tokens []string) error {
	for _, t := range tokens {
		r.c.Delete(t)
	}
	return nil
}

func (r *Registry) IsActive(_ context.Context, token string) bool {
	_, ok := r.c.Get(token)
	return ok
}

func (r *Registry) Clear(_ context.Context) error {
	r.c.Flush()
	return nil
}

// Len retorna la cantidad de entradas vigentes (para métricas/tests).
func (r *Registry) Len() int { return r.c.ItemCount() }
