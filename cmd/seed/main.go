// seed crea una aplicación y un usuario de desarrollo. Idempotente: corre
// sobre ON CONFLICT y puede ejecutarse más de una vez.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/dropDatabas3/sessiond/internal/config"
	"github.com/dropDatabas3/sessiond/internal/security/password"
)

func strEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func main() {
	configPath := flag.String("config", "configs/config.example.yaml", "Path to YAML config")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	var (
		appID     = strEnv("SEED_APP_ID", "dev-app")
		appSecret = strEnv("SEED_APP_SECRET", "dev-secret")
		appName   = strEnv("SEED_APP_NAME", "Dev Application")
		userLogin = strEnv("SEED_USER_LOGIN", "dev@example.com")
		userPass  = strEnv("SEED_USER_PASSWORD", "dev-password")
	)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
	if err != nil {
		log.Fatalf("pgxpool: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, `
		INSERT INTO application (id, app_id, app_secret, name, short_name)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (app_id) DO UPDATE SET app_secret = EXCLUDED.app_secret, name = EXCLUDED.name`,
		uuid.NewString(), appID, appSecret, appName, appName,
	); err != nil {
		log.Fatalf("seed application: %v", err)
	}
	log.Printf("application %q ready", appID)

	hash, err := password.Hash(password.Default, userPass)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	if _, err := pool.Exec(ctx, `
		INSERT INTO app_user (id, login, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (login) DO UPDATE SET password_hash = EXCLUDED.password_hash`,
		uuid.NewString(), userLogin, hash,
	); err != nil {
		log.Fatalf("seed user: %v", err)
	}
	log.Printf("user %q ready", userLogin)
}
