package rate

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter: fixed window en memoria para despliegues sin Redis.
// Mismo comportamiento observable que RedisLimiter en una sola instancia.
type MemoryLimiter struct {
	c      *gocache.Cache
	Max    int64
	Window time.Duration
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		c:      gocache.New(window, time.Minute),
		Max:    int64(max),
		Window: window,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(l.Window)
	k := fmt.Sprintf("%s:%d", key, winStart.Unix())

	// go-cache no tiene incr-or-set atómico: Add pierde la carrera solo con
	// otro Add de la misma clave y en ese caso Increment resuelve.
	if err := l.c.Add(k, int64(1), l.Window); err != nil {
		n, err := l.c.IncrementInt64(k, 1)
		if err != nil {
			// la entrada expiró entre medio; arrancar ventana nueva
			l.c.Set(k, int64(1), l.Window)
			n = 1
		}
		return l.result(n, winStart, now), nil
	}
	return l.result(1, winStart, now), nil
}

func (l *MemoryLimiter) result(hits int64, winStart, now time.Time) Result {
	allowed := hits <= l.Max
	remaining := l.Max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{Allowed: allowed, Remaining: remaining, CurrentHits: hits}
	if !allowed {
		res.RetryAfter = winStart.Add(l.Window).Sub(now)
	}
	return res
}
