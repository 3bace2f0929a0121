package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"convertapi/internal/config"
	"convertapi/internal/convert"
	"convertapi/internal/database"
	"convertapi/internal/database/migration"
	handlers "convertapi/internal/http/handler"
	"convertapi/internal/http/middleware"
	"convertapi/internal/logging"
	tracing "convertapi/internal/otel"
	"convertapi/internal/payment"
	"convertapi/internal/pdfkit"
	"convertapi/internal/repository"
	mongorepo "convertapi/internal/repository/mongo"
	"convertapi/internal/repository/postgres"
	"convertapi/internal/service"
	"convertapi/internal/storage"
)

// @title Convert API
// @version 1.0
// @description File conversion, PDF toolkit, JSON records and Stripe payments.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	loc := cfg.Location()
	logger := logging.Stdout(loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, logger)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize blob storage: %v", err)
	}

	// Upload catalog is optional
	var files repository.FileRepository
	if cfg.Database.Enabled() {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to catalog database: %v", err)
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			log.Fatalf("catalog migration failed: %v", err)
		}
		files = postgres.NewFilePostgres(db)
	}

	mongoClient, mongoDB, err := database.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	uploads := service.NewUploadService(store, files, time.Duration(cfg.Storage.PresignExpiryMin)*time.Minute)
	svcs := handlers.Services{
		Uploads:  uploads,
		Convert:  service.NewConvertService(uploads, convert.Default(), metrics),
		PDF:      service.NewPDFService(uploads, pdfkit.New()),
		Records:  service.NewRecordService(mongorepo.NewRecordMongo(mongoDB)),
		Payments: service.NewPaymentService(payment.NewStripe(cfg.Stripe, logger)),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.BodyLimit(),
	})

	// Register global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSAllowOrigins}))
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(loc))
	app.Use(metrics.Handler())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/swagger")
	})))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", handlers.Swagger(cfg.AppHost))

	handlers.RegisterRoutes(app, svcs)

	go func() {
		<-ctx.Done()
		logger.Info("shutdown_started", nil)
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown_failed", err, nil)
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("server_started", map[string]any{
		"addr":            addr,
		"storage_backend": cfg.Storage.Backend,
		"catalog_enabled": files != nil,
	})

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}

	tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(tctx); err != nil {
		logger.Error("tracing_shutdown_failed", err, nil)
	}
}
