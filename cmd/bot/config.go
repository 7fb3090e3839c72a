package main

import (
	"flag"
	"os"

	"github.com/ViBiOh/flags"
	"github.com/ViBiOh/httputils/v4/pkg/health"
	"github.com/ViBiOh/httputils/v4/pkg/logger"
	"github.com/ViBiOh/httputils/v4/pkg/server"
	"github.com/riftlens/riftlens/asset"
	"github.com/riftlens/riftlens/bot"
	"github.com/riftlens/riftlens/discord"
	"github.com/riftlens/riftlens/render"
	"github.com/riftlens/riftlens/riot"
	"github.com/riftlens/riftlens/track"
)

type configuration struct {
	logger  *logger.Config
	server  *server.Config
	health  *health.Config
	discord *discord.Config
	riot    *riot.Config
	asset   *asset.Config
	render  *render.Config
	track   *track.Config
	bot     *bot.Config
}

func newConfiguration() configuration {
	config, _ := parseConfiguration(flag.ExitOnError, os.Args[1:])

	return config
}

func parseConfiguration(handling flag.ErrorHandling, args []string) (configuration, error) {
	fs := flag.NewFlagSet("bot", handling)
	fs.Usage = flags.Usage(fs)

	config := configuration{
		logger:  logger.Flags(fs, "logger"),
		server:  server.Flags(fs, "http"),
		health:  health.Flags(fs, ""),
		discord: discord.Flags(fs, "discord"),
		riot:    riot.Flags(fs, "riot"),
		asset:   asset.Flags(fs, "asset"),
		render:  render.Flags(fs, "render"),
		track:   track.Flags(fs, "track"),
		bot:     bot.Flags(fs, "bot"),
	}

	return config, fs.Parse(args)
}
