package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalytics "github.com/dhruvrakesh/satguruerp-sub001/internal/application/analytics"
	appflow "github.com/dhruvrakesh/satguruerp-sub001/internal/application/flow"
	apptransfer "github.com/dhruvrakesh/satguruerp-sub001/internal/application/transfer"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RecorderUC  *appflow.RecorderUseCase
	TrackerUC   *apptransfer.TrackerUseCase
	AnalyticsUC *appanalytics.ChainAnalyticsUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Infraestructura (público)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	flowHandler := NewFlowHandler(deps.RecorderUC)
	transferHandler := NewTransferHandler(deps.TrackerUC)
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)

	// Registros de flujo de material
	api.Post("/flows", flowHandler.RecordFlow)
	api.Get("/orders/:orderId/flows", flowHandler.ListFlows)
	api.Get("/orders/:orderId/stages/:stageId/available-output", flowHandler.AvailableOutput)

	// Traspasos entre etapas
	transfers := api.Group("/transfers")
	transfers.Post("/", transferHandler.Initiate)
	transfers.Post("/auto", transferHandler.AutoTransfer)
	transfers.Post("/:id/dispatch", transferHandler.Dispatch)
	transfers.Post("/:id/receive", transferHandler.Receive)
	api.Get("/orders/:orderId/stages/:stageId/pending-receives", transferHandler.PendingReceives)

	// Analítica de cadena (read-only)
	api.Get("/orders/:orderId/chain-yield", analyticsHandler.ChainYield)
	api.Get("/orders/:orderId/bottlenecks", analyticsHandler.Bottlenecks)
}
