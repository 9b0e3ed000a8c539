// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"itinerary-planner/internal/agents/itinerary"
	"itinerary-planner/internal/agents/transport"
	"itinerary-planner/internal/agents/weather"
	"itinerary-planner/internal/common/cache"
	"itinerary-planner/internal/common/config"
	"itinerary-planner/internal/common/logger"
	"itinerary-planner/internal/common/observability"
	"itinerary-planner/internal/events"
	"itinerary-planner/internal/genai"
	"itinerary-planner/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrap := logger.New("info", "console")
		bootstrap.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting itinerary planner...",
		zap.String("environment", cfg.App.Environment),
		zap.String("address", cfg.Server.Address),
	)

	obs := observability.New("itinerary-planner", os.Getenv("JAEGER_ENDPOINT"))
	defer obs.Shutdown()

	// --- Optional weather cache ---
	var weatherCache *redis.Client
	if cfg.Redis.Enabled {
		weatherCache = cache.NewRedis(cfg.Redis)
		if err := cache.Ping(context.Background(), weatherCache); err != nil {
			zapLog.Warn("redis unavailable, weather cache disabled", zap.Error(err))
			weatherCache = nil
		}
	}

	// --- Agents ---
	generator := genai.NewClient(cfg.Providers.GeminiBaseURL, cfg.Providers.GeminiModel, cfg.Providers.GeminiAPIKey, log)

	weatherAgent := weather.NewAgent(weather.Config{
		WeatherAPIKey:      cfg.Providers.WeatherAPIKey,
		WeatherBaseURL:     cfg.Providers.WeatherBaseURL,
		TicketmasterAPIKey: cfg.Providers.TicketmasterAPIKey,
		TicketmasterURL:    cfg.Providers.TicketmasterURL,
		CacheTTL:           cfg.Redis.TTL,
	}, weatherCache, log)

	transportAgent := transport.NewAgent(generator, log)

	itineraryAgent := itinerary.NewAgent(generator, itinerary.Config{
		MaxRetries:     cfg.Generator.MaxRetries,
		InitialBackoff: cfg.Generator.InitialBackoff,
		AttemptTimeout: cfg.Generator.AttemptTimeout,
	}, log)

	store := events.NewStore()

	handlers := server.NewHandlers(weatherAgent, transportAgent, itineraryAgent, store, obs, log)
	srv := server.New(cfg.Server, handlers)

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	if weatherCache != nil {
		_ = weatherCache.Close()
	}
	zapLog.Info("Shutdown complete")
}
