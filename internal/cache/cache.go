// Package cache define un cache de bytes mínimo con implementaciones en
// memoria y Redis. Lo usa el resolver de ubicación para memoizar lookups.
package cache

import "time"

type Cache interface {
	Get(key string) (value []byte, ok bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
}
