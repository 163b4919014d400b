package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "storage:\n  dsn: postgres://localhost/sessiond\n")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.App.Env != "dev" || c.App.LogLevel != "info" {
		t.Fatalf("app defaults: %+v", c.App)
	}
	if c.Server.Addr != ":8080" {
		t.Fatalf("addr = %q", c.Server.Addr)
	}
	if c.Registry.Kind != "memory" || c.Cache.Kind != "memory" {
		t.Fatalf("kinds: registry=%q cache=%q", c.Registry.Kind, c.Cache.Kind)
	}
	if c.JWT.Issuer != "sessiond" || c.JWT.AccessTTL != "12h" {
		t.Fatalf("jwt defaults: %+v", c.JWT)
	}
	if c.Lockout.Threshold != 5 || c.Lockout.Window != "1h" {
		t.Fatalf("lockout defaults: %+v", c.Lockout)
	}
	if c.Rate.Login.Limit != 10 || c.Rate.Login.Window != "1m" {
		t.Fatalf("rate defaults: %+v", c.Rate.Login)
	}
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfig(t, `
app:
  env: prod
  log_level: warn
server:
  addr: ":9090"
  admin_api_key: sekrit
registry:
  kind: redis
  redis:
    addr: localhost:6379
lockout:
  threshold: 3
  window: 30m
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Addr != ":9090" || c.Server.AdminAPIKey != "sekrit" {
		t.Fatalf("server: %+v", c.Server)
	}
	if c.Registry.Kind != "redis" || c.Registry.Redis.Prefix != "sess:" {
		t.Fatalf("registry: %+v", c.Registry)
	}
	if c.Lockout.Threshold != 3 || c.Lockout.Window != "30m" {
		t.Fatalf("lockout: %+v", c.Lockout)
	}
}

func TestLoadAdminKeyFromEnv(t *testing.T) {
	t.Setenv("ADMIN_API_KEY", "from-env")
	c, err := Load(writeConfig(t, "server:\n  addr: \":8080\"\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.AdminAPIKey != "from-env" {
		t.Fatalf("admin key = %q", c.Server.AdminAPIKey)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	_, err := Load(writeConfig(t, "lockout:\n  window: sixty-minutes\n"))
	if err == nil {
		t.Fatal("invalid duration accepted")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestDuration(t *testing.T) {
	if got := Duration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("got %v", got)
	}
	if got := Duration("", time.Minute); got != time.Minute {
		t.Fatalf("empty: %v", got)
	}
	if got := Duration("garbage", time.Minute); got != time.Minute {
		t.Fatalf("garbage: %v", got)
	}
}
