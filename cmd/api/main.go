package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/kavirajan452/poel-step-registeration-form/internal/config"
	"github.com/kavirajan452/poel-step-registeration-form/internal/database"
	"github.com/kavirajan452/poel-step-registeration-form/internal/database/migration"
	handlers "github.com/kavirajan452/poel-step-registeration-form/internal/http/handler"
	"github.com/kavirajan452/poel-step-registeration-form/internal/http/middleware"
	"github.com/kavirajan452/poel-step-registeration-form/internal/notify"
	"github.com/kavirajan452/poel-step-registeration-form/internal/otel"
	"github.com/kavirajan452/poel-step-registeration-form/internal/repository/postgres"
	"github.com/kavirajan452/poel-step-registeration-form/internal/service"
	"github.com/kavirajan452/poel-step-registeration-form/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	ctx := context.Background()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		logger.Fatal("failed to initialize object storage", zap.Error(err))
	}

	// Optional read-through cache for location lookups
	var cache *redis.Client
	if cfg.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer cache.Close()
	}

	// Notifications are best effort; without SMTP config they are skipped
	var sender notify.Sender
	if cfg.SMTP.Host != "" {
		sender = notify.NewSMTPSender(cfg.SMTP, logger)
	} else {
		logger.Warn("SMTP not configured, notifications disabled")
	}

	// Initialize repositories and services
	regRepo := postgres.NewRegistrationPostgres(db)
	locRepo := postgres.NewLocationPostgres(db)
	subSvc := service.NewSubmissionService(objStore, regRepo, sender, cfg.IntakeToken, cfg.SMTP.AdminEmail, logger)
	locSvc := service.NewLocationService(locRepo, cache, time.Duration(cfg.Redis.TTLSec)*time.Second, logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// Structured logger middleware for request logs
	app.Use(middleware.Logger(logger))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMw, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		logger.Fatal("failed to initialize metrics", zap.Error(err))
	}
	app.Use(promMw.Handler())

	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	)
	app.Get("/metrics", func(c *fiber.Ctx) error {
		metricsHandler(c.Context())
		return nil
	})

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, subSvc, locSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
