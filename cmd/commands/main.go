package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ViBiOh/httputils/v4/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/riftlens/riftlens/bot"
	"github.com/riftlens/riftlens/discord"
)

func main() {
	_ = godotenv.Load()

	config := newConfiguration()

	ctx := context.Background()

	logger.Init(config.logger)

	discordService, err := discord.New(config.discord, nil, nil)
	if err != nil {
		slog.LogAttrs(ctx, slog.LevelError, "discord", slog.Any("error", err))
		os.Exit(1)
	}

	commands := bot.Commands()
	for i := range commands {
		commands[i].Guilds = *config.guilds
	}

	if err := discordService.ConfigureCommands(ctx, commands); err != nil {
		slog.LogAttrs(ctx, slog.LevelError, "configure commands", slog.Any("error", err))
		os.Exit(1)
	}
}
