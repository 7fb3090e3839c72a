package main

import (
	"flag"
	"os"

	"github.com/ViBiOh/flags"
	"github.com/ViBiOh/httputils/v4/pkg/logger"
	"github.com/riftlens/riftlens/discord"
)

type configuration struct {
	logger  *logger.Config
	discord *discord.Config
	guilds  *[]string
}

func newConfiguration() configuration {
	fs := flag.NewFlagSet("commands", flag.ExitOnError)
	fs.Usage = flags.Usage(fs)

	config := configuration{
		logger:  logger.Flags(fs, "logger"),
		discord: discord.Flags(fs, "discord"),
		guilds:  flags.New("Guilds", "Guild IDs to register commands in, globally if empty").Prefix("commands").StringSlice(fs, nil, nil),
	}

	_ = fs.Parse(os.Args[1:])

	return config
}
