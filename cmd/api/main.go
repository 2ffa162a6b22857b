// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/agrourbano/farmdash/internal/alert"
	"github.com/agrourbano/farmdash/internal/auth"
	"github.com/agrourbano/farmdash/internal/config"
	"github.com/agrourbano/farmdash/internal/core"
	"github.com/agrourbano/farmdash/internal/dashboard"
	"github.com/agrourbano/farmdash/internal/health"
	"github.com/agrourbano/farmdash/internal/measurement"
	"github.com/agrourbano/farmdash/internal/middleware"
	"github.com/agrourbano/farmdash/internal/migrations"
	"github.com/agrourbano/farmdash/internal/plot"
	"github.com/agrourbano/farmdash/internal/sensor"
	"github.com/agrourbano/farmdash/internal/server"
	"github.com/agrourbano/farmdash/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(cfg.Database.URL); err != nil {
			return err
		}
		logger.Info("schema migrated")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis, cfg.Database.ConnectTimeout)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.KeyID(),
	)

	userSvc := user.NewService(user.NewRepository(db.DB))
	userHandler := user.NewHandler(userSvc)

	denylist := auth.NewRedisDenylist(redis.Client)
	authSvc := auth.NewService(auth.NewRepository(db.DB), jwtManager, userSvc, denylist)
	authHandler := auth.NewHandler(authSvc)

	plotHandler := plot.NewHandler(plot.NewService(plot.NewRepository(db.DB)))

	sensorSvc := sensor.NewService(sensor.NewRepository(db.DB))
	sensorHandler := sensor.NewHandler(sensorSvc)

	measurementHandler := measurement.NewHandler(
		measurement.NewService(measurement.NewRepository(db.DB), sensorSvc),
	)

	alertSvc := alert.NewService(alert.NewRepository(db.DB))
	alertHandler := alert.NewHandler(alertSvc)

	dashboardHandler := dashboard.NewHandler(
		dashboard.NewService(dashboard.NewRepository(db.DB), alertSvc),
	)
	statsHandler := dashboard.NewStatsHandler(db, redis, cfg.App.Version)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "postgres", Checker: db},
		health.Dependency{Name: "redis", Checker: redis, Optional: true},
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(metrics.Handler)
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Scope: "global",
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, metrics.Exporter())
	}

	router.Get("/.well-known/jwks.json", jwtManager.JWKSHandler())

	authenticator := middleware.Authenticator(auth.NewVerifier(jwtManager, denylist))
	adminOnly := middleware.RequireAdmin

	authLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Scope: "login",
		Limit: middleware.PerMinute(cfg.RateLimit.Login, cfg.RateLimit.Login),
		Key:   middleware.KeyByIP,
	}).Handler

	exportLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Scope: "export",
		Limit: middleware.PerMinute(cfg.RateLimit.Export, cfg.RateLimit.Export),
		Key:   middleware.KeyByUserAndEndpoint,
	}).Handler

	router.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimit)
			authHandler.RegisterRoutes(r, authenticator)
		})

		userHandler.RegisterRoutes(r, authenticator, adminOnly)
		plotHandler.RegisterRoutes(r, authenticator)
		sensorHandler.RegisterRoutes(r, authenticator)
		measurementHandler.RegisterRoutes(r, authenticator, exportLimit)
		alertHandler.RegisterRoutes(r, authenticator)
		dashboardHandler.RegisterRoutes(r, authenticator)
		statsHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
