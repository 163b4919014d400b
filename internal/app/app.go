// Package app arma el contenedor de dependencias del servicio a partir de
// la configuración.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/sessiond/internal/auth"
	"github.com/dropDatabas3/sessiond/internal/cache"
	cachemem "github.com/dropDatabas3/sessiond/internal/cache/memory"
	cacheredis "github.com/dropDatabas3/sessiond/internal/cache/redis"
	"github.com/dropDatabas3/sessiond/internal/clientinfo"
	"github.com/dropDatabas3/sessiond/internal/config"
	httpx "github.com/dropDatabas3/sessiond/internal/http"
	adminctrl "github.com/dropDatabas3/sessiond/internal/http/controllers/admin"
	authctrl "github.com/dropDatabas3/sessiond/internal/http/controllers/auth"
	"github.com/dropDatabas3/sessiond/internal/http/router"
	jwtx "github.com/dropDatabas3/sessiond/internal/jwt"
	"github.com/dropDatabas3/sessiond/internal/location"
	"github.com/dropDatabas3/sessiond/internal/metrics"
	"github.com/dropDatabas3/sessiond/internal/notify"
	"github.com/dropDatabas3/sessiond/internal/observability/logger"
	"github.com/dropDatabas3/sessiond/internal/rate"
	"github.com/dropDatabas3/sessiond/internal/registry"
	regmem "github.com/dropDatabas3/sessiond/internal/registry/memory"
	regredis "github.com/dropDatabas3/sessiond/internal/registry/redis"
	"github.com/dropDatabas3/sessiond/internal/store/pg"
)

// Container agrupa las piezas vivas del servicio.
type Container struct {
	Config  *config.Config
	Store   *pg.Store
	Issuer  *jwtx.Issuer
	Auth    auth.Service
	Reg     registry.Registry
	Handler http.Handler

	redisClient *rdb.Client
}

// Build construye y cablea el contenedor completo.
func Build(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	// Store
	store, err := pg.New(ctx, cfg.Storage.DSN, pg.Config{
		MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Storage.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("build store: %w", err)
	}
	c.Store = store

	users := pg.NewUserRepository(store)
	apps := pg.NewApplicationRepository(store)
	sessions := pg.NewSessionRepository(store)
	notifications := pg.NewNotificationRepository(store)

	// Registro de sesiones activas
	switch cfg.Registry.Kind {
	case "redis":
		c.redisClient = rdb.NewClient(&rdb.Options{
			Addr: cfg.Registry.Redis.Addr,
			DB:   cfg.Registry.Redis.DB,
		})
		c.Reg = regredis.NewWithClient(c.redisClient, cfg.Registry.Redis.Prefix)
	default:
		c.Reg = regmem.New()
	}

	// Cache (geolocalización)
	var geoCache cache.Cache
	switch cfg.Cache.Kind {
	case "redis":
		geoCache = cacheredis.New(cfg.Cache.Redis.Addr, cfg.Cache.Redis.DB, cfg.Cache.Redis.Prefix)
	default:
		geoCache = cachemem.New(config.Duration(cfg.Cache.Memory.DefaultTTL, 2*time.Minute))
	}

	// Issuer
	kp, err := jwtx.LoadOrGenerate(cfg.JWT.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("load signing key: %w", err)
	}
	c.Issuer = jwtx.NewIssuer(cfg.JWT.Issuer, kp, config.Duration(cfg.JWT.AccessTTL, 12*time.Hour))

	// Resolver de ubicación
	var resolver location.Resolver = location.Noop{}
	if cfg.Location.Enabled && cfg.Location.BaseURL != "" {
		resolver = location.NewHTTPResolver(
			cfg.Location.BaseURL,
			config.Duration(cfg.Location.Timeout, 2*time.Second),
			geoCache,
			config.Duration(cfg.Location.CacheTTL, 24*time.Hour),
		)
	}

	// Notificaciones: siempre al store; email solo si está habilitado.
	sinks := []notify.Sink{&notify.StoreSink{Repo: notifications}}
	if cfg.Notify.EmailEnabled && cfg.SMTP.Host != "" {
		sinks = append(sinks, &notify.SMTPSink{
			Host:    cfg.SMTP.Host,
			Port:    cfg.SMTP.Port,
			From:    cfg.SMTP.From,
			User:    cfg.SMTP.Username,
			Pass:    cfg.SMTP.Password,
			TLSMode: cfg.SMTP.TLS,
			Users:   users,
		})
	}

	// Service principal
	c.Auth = auth.NewService(auth.Deps{
		Users:    users,
		Apps:     apps,
		Sessions: sessions,
		Registry: c.Reg,
		Issuer:   c.Issuer,
		Notifier: notify.NewMulti(sinks...),
		Detector: clientinfo.NewDetector(),
		Location: resolver,
		Lockout: auth.LockoutPolicy{
			Threshold: cfg.Lockout.Threshold,
			Window:    config.Duration(cfg.Lockout.Window, time.Hour),
		},
	})

	// Rate limiting del login
	var loginLimiter rate.Limiter
	if cfg.Rate.Enabled {
		window := config.Duration(cfg.Rate.Login.Window, time.Minute)
		if c.redisClient != nil {
			loginLimiter = rate.NewRedisLimiter(c.redisClient, "rl:login:", cfg.Rate.Login.Limit, window)
		} else {
			loginLimiter = rate.NewMemoryLimiter(cfg.Rate.Login.Limit, window)
		}
	}

	// Métricas
	if err := metrics.RegisterAuth(nil); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	metricsHandler, err := httpx.RegisterMetrics(httpx.MetricsConfig{Pool: store.Pool})
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	// Router
	c.Handler = router.New(router.Deps{
		Auth:           authctrl.NewControllers(c.Auth),
		Admin:          adminctrl.NewSessionsController(c.Auth),
		Issuer:         c.Issuer,
		Registry:       c.Reg,
		LoginLimiter:   loginLimiter,
		AdminAPIKey:    cfg.Server.AdminAPIKey,
		MetricsHandler: metricsHandler,
		CheckDB:        store.Ping,
		CheckRegistry:  c.registryCheck(),
	})

	logger.L().Info("container built",
		logger.String("registry", cfg.Registry.Kind),
		logger.String("cache", cfg.Cache.Kind),
		logger.Bool("location", cfg.Location.Enabled),
		logger.Bool("rate", cfg.Rate.Enabled),
	)
	return c, nil
}

// registryCheck retorna el health check del backend del registro, o nil si
// el registro vive en memoria.
func (c *Container) registryCheck() func(ctx context.Context) error {
	if c.redisClient == nil {
		return nil
	}
	client := c.redisClient
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// Close libera los recursos del contenedor.
func (c *Container) Close() {
	if c.redisClient != nil {
		_ = c.redisClient.Close()
	}
	if c.Store != nil {
		c.Store.Close()
	}
}
