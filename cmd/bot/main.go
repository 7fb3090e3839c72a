package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"syscall"

	"github.com/ViBiOh/httputils/v4/pkg/health"
	"github.com/ViBiOh/httputils/v4/pkg/httputils"
	"github.com/ViBiOh/httputils/v4/pkg/logger"
	"github.com/ViBiOh/httputils/v4/pkg/recoverer"
	"github.com/ViBiOh/httputils/v4/pkg/server"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	config := newConfiguration()

	ctx := context.Background()

	logger.Init(config.logger)

	healthService := health.New(ctx, config.health)

	services, err := newServices(config)
	if err != nil {
		slog.LogAttrs(ctx, slog.LevelError, "services", slog.Any("error", err))
		os.Exit(1)
	}

	defer func() {
		if err := services.Close(); err != nil {
			slog.LogAttrs(ctx, slog.LevelError, "close services", slog.Any("error", err))
		}
	}()

	appServer := server.New(config.server)

	slog.LogAttrs(ctx, slog.LevelInfo, "starting", slog.Int("guilds", len(services.store.Guilds())))

	go appServer.Start(healthService.EndCtx(), newHandler(services.discord.Handler(), healthService))

	healthService.WaitForTermination(appServer.Done(), syscall.SIGTERM, os.Interrupt)
	server.GracefulWait(appServer.Done())

	cache := services.resolver.Cache()
	slog.LogAttrs(ctx, slog.LevelInfo, "stopped", slog.Int("cached_assets", cache.Len()), slog.Int64("cache_bytes", cache.MemoryEstimate()))
}

// newHandler serves the interactions webhook next to the health, readiness and version endpoints
func newHandler(webhook http.Handler, healthService *health.Service) http.Handler {
	return httputils.Handler(webhook, healthService, recoverer.Middleware)
}
