package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/riftlens/riftlens/discord"
	"github.com/riftlens/riftlens/riot"
)

func (a App) overviewCommand(webhook discord.InteractionRequest) (discord.InteractionResponse, func(context.Context) discord.InteractionResponse) {
	discordID := webhook.Option(userOption)

	if _, ok := a.store.Member(webhook.GuildID, discordID); !ok {
		return discord.NewEphemeral(false, fmt.Sprintf("<@%s> is not tracked.", discordID)), nil
	}

	return discord.AsyncResponse(false, false), func(ctx context.Context) discord.InteractionResponse {
		return a.overview(ctx, webhook.GuildID, discordID)
	}
}

func (a App) handleComponent(webhook discord.InteractionRequest) (discord.InteractionResponse, func(context.Context) discord.InteractionResponse) {
	discordID, ok := strings.CutPrefix(webhook.Data.CustomID, overviewPrefix)
	if !ok || len(discordID) == 0 {
		return discord.NewEphemeral(true, "Unknown action"), nil
	}

	return discord.AsyncResponse(true, false), func(ctx context.Context) discord.InteractionResponse {
		return a.overview(ctx, webhook.GuildID, discordID)
	}
}

// overview renders the latest match of a tracked member, with a button to render it again
func (a App) overview(ctx context.Context, guildID, discordID string) discord.InteractionResponse {
	member, ok := a.store.Member(guildID, discordID)
	if !ok {
		return discord.NewEphemeral(false, fmt.Sprintf("<@%s> is not tracked.", discordID))
	}

	matchID, err := a.riot.LatestMatchID(ctx, member.PUUID, member.Region)
	if err != nil {
		if errors.Is(err, riot.ErrNotFound) {
			return discord.NewEphemeral(false, fmt.Sprintf("No match found for <@%s>.", discordID))
		}

		return discord.NewError(false, err)
	}

	if _, err := a.store.RecordMatch(guildID, discordID, matchID); err != nil {
		slog.LogAttrs(ctx, slog.LevelWarn, "record match", slog.String("match", matchID), slog.Any("error", err))
	}

	match, err := a.riot.Match(ctx, matchID, member.Region)
	if err != nil {
		return discord.NewError(false, err)
	}

	content, err := a.renderer.Render(ctx, match, member.Region)
	if err != nil {
		return discord.NewError(false, err)
	}

	return discord.NewResponse(discord.ChannelMessageWithSource, fmt.Sprintf("Latest match of <@%s>, `%s`", discordID, matchID)).
		AddAttachment(matchID+".png", content).
		AddComponent(discord.NewActionRow(discord.NewButton(discord.SecondaryButton, "Refresh", overviewPrefix+discordID)))
}
