package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/riftlens/riftlens/asset"
	"github.com/riftlens/riftlens/bot"
	"github.com/riftlens/riftlens/discord"
	"github.com/riftlens/riftlens/render"
	"github.com/riftlens/riftlens/riot"
	"github.com/riftlens/riftlens/track"
	"go.opentelemetry.io/otel"
)

type services struct {
	resolver *asset.Resolver
	store    *track.Store
	discord  discord.Service
	riot     riot.Client
}

func newServices(config configuration) (output services, err error) {
	tracerProvider := otel.GetTracerProvider()

	riotClient, err := riot.New(config.riot)
	if err != nil {
		return services{}, fmt.Errorf("riot: %w", err)
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, riotClient.Close())
		}
	}()

	resolver, err := asset.New(config.asset)
	if err != nil {
		return services{}, fmt.Errorf("asset: %w", err)
	}

	compositor, err := render.New(config.render, resolver, riotClient, tracerProvider)
	if err != nil {
		return services{}, fmt.Errorf("render: %w", err)
	}

	store, err := track.New(config.track)
	if err != nil {
		return services{}, fmt.Errorf("track: %w", err)
	}

	var app bot.App

	discordService, err := discord.New(config.discord, func(ctx context.Context, webhook discord.InteractionRequest) (discord.InteractionResponse, func(context.Context) discord.InteractionResponse) {
		return app.Handle(ctx, webhook)
	}, tracerProvider)
	if err != nil {
		return services{}, fmt.Errorf("discord: %w", err)
	}

	app = bot.New(config.bot, store, riotClient, compositor, discordService)

	return services{
		resolver: resolver,
		store:    store,
		discord:  discordService,
		riot:     riotClient,
	}, nil
}

func (s services) Close() error {
	if err := s.riot.Close(); err != nil {
		return fmt.Errorf("riot: %w", err)
	}

	return nil
}
