// Package memory implementa el cache de bytes en proceso. Lo usa el
// resolver de ubicación cuando no hay Redis configurado.
package memory

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type Cache struct{ c *gocache.Cache }

// New crea un cache en memoria. Las entradas expiran al defaultTTL salvo
// que Set indique otro; la limpieza corre cada minuto.
func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = 2 * time.Minute
	}
	return &Cache{c: gocache.New(defaultTTL, time.Minute)}
}

func (m *Cache) Get(k string) ([]byte, bool) {
	v, ok := m.c.Get(k)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

func (m *Cache) Set(k string, v []byte, ttl time.Duration) { m.c.Set(k, v, ttl) }
func (m *Cache) Delete(k string)                           { m.c.Delete(k) }
