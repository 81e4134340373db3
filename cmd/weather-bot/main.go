package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/weather-bot/internal/api/http"
	"github.com/i474232898/weather-bot/internal/chat"
	"github.com/i474232898/weather-bot/internal/config"
	"github.com/i474232898/weather-bot/internal/resolver"
	"github.com/i474232898/weather-bot/internal/scheduler"
	"github.com/i474232898/weather-bot/internal/store"
	"github.com/i474232898/weather-bot/internal/telegram"
	"github.com/i474232898/weather-bot/internal/weather"
	"github.com/i474232898/weather-bot/internal/weather/providers"
)

func main() {
	level := zap.NewAtomicLevel()
	zcfg := zap.NewProductionConfig()
	zcfg.Level = level
	base, err := zcfg.Build()
	if err != nil {
		panic(err)
	}
	defer base.Sync() //nolint:errcheck
	log := base.Sugar()

	// Load configuration; missing credentials stop the process here.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Warnw("invalid LOG_LEVEL, keeping info", "value", cfg.LogLevel)
	}

	shortcuts := resolver.DefaultShortcuts
	if cfg.LocationsFile != "" {
		shortcuts, err = resolver.LoadShortcuts(cfg.LocationsFile)
		if err != nil {
			log.Fatalw("failed to load shortcuts", "error", err)
		}
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewWeatherAPIProvider(
		providers.HTTPClientConfig{Client: httpClient},
		cfg.WeatherAPIURL, cfg.WeatherAPIKey, cfg.WeatherLang,
	)
	service := weather.NewService(provider, cfg.HTTPTimeout, log.Named("weather"))
	responder := chat.NewResponder(resolver.New(shortcuts), service)

	// Provider probes feed the health endpoint.
	probes := store.NewMemoryStore(cfg.ProbeMaxHistory, cfg.ProbeMaxAge)
	sched := scheduler.New(service, probes, provider.Name(), cfg.ProbeQuery, cfg.ProbeInterval, log.Named("scheduler"))
	if err := sched.Start(); err != nil {
		log.Fatalw("failed to start scheduler", "error", err)
	}
	defer sched.Stop()

	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalw("failed to connect to telegram", "error", err)
	}
	botAPI.Debug = cfg.TelegramDebug
	log.Infow("authorized on telegram", "account", botAPI.Self.UserName)

	bot := telegram.New(botAPI, botAPI.Self.UserName, responder, log.Named("telegram"))

	app := fiber.New(fiber.Config{
		AppName:               "weather-bot",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		ReadBufferSize:        httpapi.ReadBufferSize,
		WriteTimeout:          2 * cfg.HTTPTimeout,
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

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, responder, probes)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorw("fiber server stopped", "error", err)
		}
	}()

	// Poll until a termination signal arrives.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bot.Run(ctx); err != nil {
		log.Errorw("bot stopped", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorw("error during shutdown", "error", err)
	}
}
