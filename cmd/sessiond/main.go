// sessiond es el servicio de autenticación y ciclo de vida de sesiones.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/sessiond/internal/app"
	"github.com/dropDatabas3/sessiond/internal/config"
	httpserver "github.com/dropDatabas3/sessiond/internal/http"
	"github.com/dropDatabas3/sessiond/internal/observability/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.example.yaml", "Path to YAML config")
	flag.Parse()

	// .env es opcional: en producción las vars vienen del entorno.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	container, err := app.Build(ctx, cfg)
	cancel()
	if err != nil {
		logger.L().Fatal("build container", logger.Err(err))
	}
	defer container.Close()

	srv := httpserver.NewServer(cfg.Server.Addr, container.Handler)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.L().Fatal("http server", logger.Err(err))
		}
	case sig := <-stop:
		logger.L().Info("signal received", logger.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.L().Error("shutdown", logger.Err(err))
		}
	}
}
