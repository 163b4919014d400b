// Package logger provee un logger zap singleton con helpers de campos
// estándar y propagación por contexto.
//
// Uso típico:
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: "info"})
//	defer logger.Sync()
//
//	log := logger.From(ctx).With(
//		logger.Component("auth.login"),
//		logger.Op("Login"),
//	)
//	log.Info("login successful", logger.UserID(u.ID))
package logger
