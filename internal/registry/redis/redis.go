// Package redis implementa el registro de sesiones activas sobre Redis,
// para despliegues con más de una instancia del servicio.
package redis

import (
	"context"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

type Registry struct {
	c      *rdb.Client
	prefix string
}

func New(addr string, db int, prefix string) *Registry {
	if prefix == "" {
		prefix = "sess:"
	}
	return &Registry{c: rdb.NewClient(&rdb.Options{Addr: addr, DB: db}), prefix: prefix}
}

// NewWithClient reusa un cliente existente (comparte conexión con el rate
// limiter).
func NewWithClient(c *rdb.Client, prefix string) *Registry {
	if prefix == "" {
		prefix = "sess:"
	}
	return &Registry{c: c, prefix: prefix}
}

func (r *Registry) Add(ctx context.Context, token string, ttl time.Duration) error {
	return r.c.Set(ctx, r.prefix+token, "1", ttl).Err()
}

func (r *Registry) Remove(ctx context.Context, token string) error {
	return r.c.Del(ctx, r.prefix+token).Err()
}

// RemoveBatch borra el lote en un solo DEL pipelined. Un login concurrente
// que agregue un token después del snapshot no se pierde: el DEL solo toca
// las claves del batch.
func (r *Registry) RemoveBatch(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	keys := make([]string, len(tokens))
	for i, t := range tokens {
		keys[i] = r.prefix + t
	}
	return r.c.Del(ctx, keys...).Err()
}

// IsActive falla abierto: ante un error de backend asume activo y deja que
// la fila de sesión (autoritativa) decida.
func (r *Registry) IsActive(ctx context.Context, token string) bool {
	n, err := r.c.Exists(ctx, r.prefix+token).Result()
	if err != nil {
		return true
	}
	return n > 0
}

func (r *Registry) Clear(ctx context.Context) error {
	iter := r.c.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.c.Del(ctx, keys...).Err()
}
