package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	handler "github.com/zdziszkee/swiftatlas/internal/api/handlers"
	"github.com/zdziszkee/swiftatlas/internal/api/middleware"
)

// SetupRoutes configures all API routes. Metrics are served from gatherer;
// a nil gatherer uses the default registry.
func SetupRoutes(swiftHandler *handler.SwiftHandler, logger *zap.Logger, gatherer prometheus.Gatherer) *fiber.App {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal server error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}

			return c.Status(code).JSON(fiber.Map{
				"message": message,
			})
		},
	})

	// Add global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(logger))
	app.Use(cors.New())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// API versioning
	v1 := app.Group("/v1")

	// SWIFT codes endpoints
	v1.Get("/swift-codes/country/:countryISO2code", swiftHandler.GetByCountry)
	v1.Get("/swift-codes/:swiftCode", swiftHandler.GetByCode)
	v1.Post("/swift-codes", swiftHandler.Create)
	v1.Patch("/swift-codes/:swiftCode", swiftHandler.Update)
	v1.Put("/swift-codes/id/:id", swiftHandler.Replace)
	v1.Delete("/swift-codes/:swiftCode", swiftHandler.Delete)
	return app
}
