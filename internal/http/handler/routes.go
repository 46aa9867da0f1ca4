package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"osmdev/internal/service"
)

// RegisterRoutes attaches the HTTP routes to the provided Fiber app.
// Handlers stay thin; business logic lives in the injected service.
//
// The static catch-all is registered last. Fiber's static handler falls
// through to the 404 path when no file matches, so routes registered after
// it (swagger, metrics) still resolve.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.ExportService, staticRoot string) {
	app.Post("/export", ExportSequence(svc))
	app.Get("/exports", ListExports(svc))
	app.Get("/exports/:filename", GetExport(svc))

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Everything else is the editor's working directory. Directory browsing
	// and arbitrary file exposure are deliberate for this dev-only tool.
	app.Static("/", staticRoot, fiber.Static{
		Browse: true,
	})
}
