package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	appanalytics "github.com/dhruvrakesh/satguruerp-sub001/internal/application/analytics"
	appflow "github.com/dhruvrakesh/satguruerp-sub001/internal/application/flow"
	apptransfer "github.com/dhruvrakesh/satguruerp-sub001/internal/application/transfer"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/infrastructure/postgres"
	httpRouter "github.com/dhruvrakesh/satguruerp-sub001/internal/interfaces/http"
	"github.com/dhruvrakesh/satguruerp-sub001/pkg/config"
	"github.com/dhruvrakesh/satguruerp-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando motor de trazabilidad de flujo de material")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	flowRepo := postgres.NewMaterialFlowRepository(pool)
	transferRepo := postgres.NewProcessTransferRepository(pool)
	routeRepo := postgres.NewRouteRepository(pool)
	bomRepo := postgres.NewBOMRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	recorderUC := appflow.NewRecorderUseCase(flowRepo, transferRepo, routeRepo)
	trackerUC := apptransfer.NewTrackerUseCase(
		txRunner, transferRepo, routeRepo, recorderUC,
		decimal.NewFromFloat(cfg.Flow.ReceiptTolerance),
	)
	analyticsUC := appanalytics.NewChainAnalyticsUseCase(flowRepo, routeRepo, bomRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		RecorderUC:  recorderUC,
		TrackerUC:   trackerUC,
		AnalyticsUC: analyticsUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Fatal().Err(err).Msg("servidor HTTP")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("API escuchando")

	// Apagado ordenado: esperar señal y cerrar el servidor antes que el pool.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("señal recibida, apagando")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("shutdown del servidor HTTP")
	}
}
