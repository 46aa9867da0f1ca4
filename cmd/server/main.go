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
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"osmdev/docs"
	"osmdev/internal/browser"
	"osmdev/internal/config"
	"osmdev/internal/database"
	"osmdev/internal/database/migration"
	handlers "osmdev/internal/http/handler"
	"osmdev/internal/http/middleware"
	appotel "osmdev/internal/otel"
	"osmdev/internal/repository/sqlite"
	"osmdev/internal/service"
	"osmdev/internal/storage"
)

// @title OSM Export Dev Server
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	// Tracing is a no-op unless explicitly enabled
	shutdownTracing, err := appotel.Init(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Open the export index and ensure its schema exists
	db, err := database.NewSQLite(cfg.Database)
	if err != nil {
		log.Fatalf("failed to open export index: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db); err != nil {
		log.Fatalf("failed to migrate export index: %v", err)
	}

	// Export directory is created here, once, before any request is served
	store, err := storage.NewDisk(cfg.ExportDir)
	if err != nil {
		log.Fatalf("failed to initialize export store: %v", err)
	}

	repo := sqlite.NewExportSQLite(db)
	svc, err := service.NewExportService(store, repo, cfg.PublicURL, cfg.DefaultSequenceID)
	if err != nil {
		log.Fatalf("failed to initialize export service: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON logger gives the operator a timestamped line per request
	app.Use(middleware.Logger())
	// Permissive CORS + no-cache on every response, OPTIONS short-circuit
	app.Use(middleware.DevCORS())
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	// Register HTTP routes with injected service; static serving goes last
	handlers.RegisterRoutes(app, db, svc, cfg.StaticRoot)

	// Shut down gracefully on interrupt
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("shutting down...")
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	log.Printf("dev server running at %s", cfg.PublicURL)
	log.Printf("export directory: %s", cfg.ExportDir)
	log.Println("press Ctrl+C to stop")

	if cfg.OpenBrowser {
		browser.Open(cfg.PublicURL)
	}

	// A second instance on the same port fails here with the OS
	// address-in-use error, which is exactly what we want
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}

	log.Println("server stopped.")
}
