package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	httpapi "github.com/harvesthorizon/harvest-horizon/internal/api/http"
	"github.com/harvesthorizon/harvest-horizon/internal/climate"
	"github.com/harvesthorizon/harvest-horizon/internal/climate/power"
	"github.com/harvesthorizon/harvest-horizon/internal/config"
	"github.com/harvesthorizon/harvest-horizon/internal/game"
	"github.com/harvesthorizon/harvest-horizon/internal/scenario"
	"github.com/harvesthorizon/harvest-horizon/internal/scheduler"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Shared HTTP client for outbound data-feed calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Climate provider: live POWER source, synthetic fallback, injected cache.
	source := power.NewClient(httpClient, cfg.PowerBaseURL)
	provider := climate.NewProvider(source, climate.NewFallback(), climate.NewMemoryCache(), log)

	// Static scenario catalog, loaded once.
	catalog, err := scenario.Load(scenario.LoadOptions{
		FilePath:       cfg.ScenarioFile,
		GeocoderAPIKey: cfg.GeocoderAPIKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load scenario catalog")
	}

	svc := game.NewService(catalog, provider, cfg.WindowDays, log)

	// Cache warmer retries the live feed for catalog locations.
	warmer := scheduler.New(catalog.Locations(), cfg.WindowDays, cfg.WarmInterval, provider, log)
	if err := warmer.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start cache warmer")
	}
	defer warmer.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "harvest-horizon",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "harvest-horizon",
		})
	})

	httpapi.RegisterRoutes(app, svc, provider)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
