package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ViBiOh/flags"
	"github.com/ViBiOh/httputils/v4/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/riftlens/riftlens/asset"
	"github.com/riftlens/riftlens/render"
	"github.com/riftlens/riftlens/riot"
)

func main() {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("render", flag.ExitOnError)
	fs.Usage = flags.Usage(fs)

	loggerConfig := logger.Flags(fs, "logger")
	riotConfig := riot.Flags(fs, "riot")
	assetConfig := asset.Flags(fs, "asset")
	renderConfig := render.Flags(fs, "render")

	matchID := flags.New("Match", "Match ID, e.g. EUW1_123").DocPrefix("render").String(fs, "", nil)
	region := flags.New("Region", "Region of the match").DocPrefix("render").String(fs, "EUW", nil)
	output := flags.New("Output", "Output file").DocPrefix("render").String(fs, "overview.png", nil)
	timeout := flags.New("Timeout", "Render timeout").DocPrefix("render").Duration(fs, time.Minute, nil)

	_ = fs.Parse(os.Args[1:])

	ctx := context.Background()

	logger.Init(loggerConfig)

	if err := run(ctx, riotConfig, assetConfig, renderConfig, *matchID, *region, *output, *timeout); err != nil {
		slog.LogAttrs(ctx, slog.LevelError, "render", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, riotConfig *riot.Config, assetConfig *asset.Config, renderConfig *render.Config, matchID, region, output string, timeout time.Duration) error {
	if len(matchID) == 0 {
		return errors.New("match is required")
	}

	riotClient, err := riot.New(riotConfig)
	if err != nil {
		return fmt.Errorf("riot: %w", err)
	}

	defer func() {
		if err := riotClient.Close(); err != nil {
			slog.LogAttrs(ctx, slog.LevelWarn, "close riot", slog.Any("error", err))
		}
	}()

	resolver, err := asset.New(assetConfig)
	if err != nil {
		return fmt.Errorf("asset: %w", err)
	}

	compositor, err := render.New(renderConfig, resolver, riotClient, nil)
	if err != nil {
		return fmt.Errorf("compositor: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	match, err := riotClient.Match(ctx, matchID, region)
	if err != nil {
		return fmt.Errorf("match: %w", err)
	}

	content, err := compositor.Render(ctx, match, region)
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, content, 0o644); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	slog.LogAttrs(ctx, slog.LevelInfo, "overview written", slog.String("path", output), slog.Int("size", len(content)), slog.Int("cached_assets", resolver.Cache().Len()))

	return nil
}
