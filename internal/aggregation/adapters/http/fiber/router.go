package fiber

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
)

// NewApp builds the HTTP app with every route registered.
func NewApp(h *AggregationHandler) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Post("/aggregate", h.Aggregate)
	app.Get("/health", Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	return app
}
