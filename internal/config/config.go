package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
		// debug | info | warn | error
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
		// AdminAPIKey protege la superficie /v1/admin (logout por session id,
		// listado de sesiones). También puede venir por env ADMIN_API_KEY.
		AdminAPIKey string `yaml:"admin_api_key"`
	} `yaml:"server"`

	Storage struct {
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MaxIdleConns    int    `yaml:"max_idle_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	// Registry configura el registro de sesiones activas (cache derivado,
	// la fila de sesión sigue siendo la fuente de verdad).
	Registry struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"registry"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	JWT struct {
		Issuer    string `yaml:"issuer"`
		AccessTTL string `yaml:"access_ttl"`
		// KeyFile apunta a la clave ed25519 en PEM. Si no existe se genera
		// y escribe; vacío = clave efímera (solo dev).
		KeyFile string `yaml:"key_file"`
	} `yaml:"jwt"`

	Lockout struct {
		Threshold int    `yaml:"threshold"`
		Window    string `yaml:"window"`
	} `yaml:"lockout"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
	} `yaml:"rate"`

	Location struct {
		Enabled  bool   `yaml:"enabled"`
		BaseURL  string `yaml:"base_url"`
		Timeout  string `yaml:"timeout"`
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"location"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
		TLS      string `yaml:"tls"` // auto | starttls | ssl | none
	} `yaml:"smtp"`

	Notify struct {
		// EmailEnabled activa el sink SMTP para notificaciones de seguridad
		// (cuenta bloqueada, intento fallido, password cambiado).
		EmailEnabled bool `yaml:"email_enabled"`
	} `yaml:"notify"`
}

// Load lee el YAML, aplica defaults y valida las duraciones.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.AdminAPIKey == "" {
		c.Server.AdminAPIKey = os.Getenv("ADMIN_API_KEY")
	}
	if c.Registry.Kind == "" {
		c.Registry.Kind = "memory"
	}
	if c.Registry.Redis.Prefix == "" {
		c.Registry.Redis.Prefix = "sess:"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "2m"
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "sessiond"
	}
	if c.JWT.AccessTTL == "" {
		c.JWT.AccessTTL = "12h"
	}
	if c.Lockout.Threshold == 0 {
		c.Lockout.Threshold = 5
	}
	if c.Lockout.Window == "" {
		c.Lockout.Window = "1h"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}
	if c.Location.Timeout == "" {
		c.Location.Timeout = "2s"
	}
	if c.Location.CacheTTL == "" {
		c.Location.CacheTTL = "24h"
	}
	if c.SMTP.TLS == "" {
		c.SMTP.TLS = "auto"
	}

	// validate string durations
	for name, v := range map[string]string{
		"storage.postgres.conn_max_lifetime": c.Storage.Postgres.ConnMaxLifetime,
		"cache.memory.default_ttl":           c.Cache.Memory.DefaultTTL,
		"jwt.access_ttl":                     c.JWT.AccessTTL,
		"lockout.window":                     c.Lockout.Window,
		"rate.login.window":                  c.Rate.Login.Window,
		"location.timeout":                   c.Location.Timeout,
		"location.cache_ttl":                 c.Location.CacheTTL,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("config: %s: %w", name, err)
		}
	}

	return &c, nil
}

// Duration parsea una duración ya validada por Load. Pánico-free: ante un
// valor inválido retorna el fallback.
func Duration(v string, fallback time.Duration) time.Duration {
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
