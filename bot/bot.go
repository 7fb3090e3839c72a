package bot

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ViBiOh/flags"
	"github.com/riftlens/riftlens/discord"
	"github.com/riftlens/riftlens/riot"
	"github.com/riftlens/riftlens/track"
)

const maxEmbedFields = 25

type Store interface {
	AddMember(guildID, discordID, puuid, region string) (track.Member, error)
	RemoveMember(guildID, discordID string) error
	Members(guildID string) []track.Member
	Member(guildID, discordID string) (track.Member, bool)
	RecordMatch(guildID, discordID, matchID string) (track.Member, error)
}

type Riot interface {
	PUUID(ctx context.Context, gameName, tagLine, region string) (string, error)
	LatestMatchID(ctx context.Context, puuid, region string) (string, error)
	Match(ctx context.Context, matchID, region string) (riot.Match, error)
}

type Renderer interface {
	Render(ctx context.Context, match riot.Match, region string) ([]byte, error)
}

type Directory interface {
	User(ctx context.Context, id string) (discord.User, error)
}

type Config struct {
	developers *[]string
}

func Flags(fs *flag.FlagSet, prefix string, overrides ...flags.Override) *Config {
	return &Config{
		developers: flags.New("Developers", "Discord user IDs allowed to manage tracked players").Prefix(prefix).DocPrefix("bot").StringSlice(fs, nil, overrides),
	}
}

// App answers the Discord interactions of the bot
type App struct {
	store      Store
	riot       Riot
	renderer   Renderer
	directory  Directory
	developers map[string]struct{}
}

func New(config *Config, store Store, riotClient Riot, renderer Renderer, directory Directory) App {
	developers := make(map[string]struct{})
	for _, id := range *config.developers {
		if id = strings.TrimSpace(id); len(id) != 0 {
			developers[id] = struct{}{}
		}
	}

	return App{
		store:      store,
		riot:       riotClient,
		renderer:   renderer,
		directory:  directory,
		developers: developers,
	}
}

// Handle is the discord.OnMessage of the bot
func (a App) Handle(ctx context.Context, webhook discord.InteractionRequest) (discord.InteractionResponse, func(context.Context) discord.InteractionResponse) {
	if len(webhook.GuildID) == 0 {
		return discord.NewEphemeral(false, "This bot only works in a server."), nil
	}

	if webhook.Type == discord.MessageComponentInteraction {
		return a.handleComponent(webhook)
	}

	switch webhook.Data.Name {
	case addUserCommand:
		return a.addUser(webhook)
	case removeUserCommand:
		return a.removeUser(webhook)
	case showAllUsersCommand:
		return a.showAllUsers(webhook)
	case overviewCommand:
		return a.overviewCommand(webhook)
	default:
		return discord.NewEphemeral(false, "Unknown command"), nil
	}
}

func (a App) isDeveloper(webhook discord.InteractionRequest) bool {
	_, ok := a.developers[webhook.Member.User.ID]
	return ok
}

func (a App) addUser(webhook discord.InteractionRequest) (discord.InteractionResponse, func(context.Context) discord.InteractionResponse) {
	if !a.isDeveloper(webhook) {
		return discord.NewEphemeral(false, "You are not allowed to track players."), nil
	}

	discordID := webhook.Option(userOption)

	if user, ok := webhook.ResolvedUser(discordID); ok && user.Bot {
		return discord.NewEphemeral(false, fmt.Sprintf("<@%s> is a bot and cannot be tracked.", discordID)), nil
	}

	region := riot.NormalizeRegion(webhook.Option(regionOption))

	if !riot.ValidRegion(region) {
		return discord.NewEphemeral(false, fmt.Sprintf("Invalid region `%s`, expected one of %s", webhook.Option(regionOption), strings.Join(riot.Regions(), ", "))), nil
	}

	gameName, tagLine, ok := riot.SplitRiotID(webhook.Option(riotNameOption))
	if !ok {
		return discord.NewEphemeral(false, "Riot ID must be formatted as `Name#Tag`"), nil
	}

	if _, ok := a.store.Member(webhook.GuildID, discordID); ok {
		return discord.NewEphemeral(false, fmt.Sprintf("<@%s> is already tracked.", discordID)), nil
	}

	return discord.AsyncResponse(false, true), func(ctx context.Context) discord.InteractionResponse {
		puuid, err := a.riot.PUUID(ctx, gameName, tagLine, region)
		if err != nil {
			if errors.Is(err, riot.ErrNotFound) {
				return discord.NewEphemeral(false, fmt.Sprintf("No Riot account found for `%s#%s`", gameName, tagLine))
			}

			return discord.NewError(false, err)
		}

		matchID, err := a.riot.LatestMatchID(ctx, puuid, region)
		if err != nil && !errors.Is(err, riot.ErrNotFound) {
			slog.LogAttrs(ctx, slog.LevelWarn, "latest match of new member", slog.String("puuid", puuid), slog.Any("error", err))
		}

		if _, err := a.store.AddMember(webhook.GuildID, discordID, puuid, region); err != nil {
			if errors.Is(err, track.ErrUserExists) {
				return discord.NewEphemeral(false, fmt.Sprintf("<@%s> is already tracked.", discordID))
			}

			return discord.NewError(false, err)
		}

		if _, err := a.store.RecordMatch(webhook.GuildID, discordID, matchID); err != nil {
			slog.LogAttrs(ctx, slog.LevelWarn, "record match", slog.String("match", matchID), slog.Any("error", err))
		}

		return discord.NewEphemeral(false, fmt.Sprintf("<@%s> is now tracked as `%s#%s` on %s.", discordID, gameName, tagLine, region))
	}
}

func (a App) removeUser(webhook discord.InteractionRequest) (discord.InteractionResponse, func(context.Context) discord.InteractionResponse) {
	if !a.isDeveloper(webhook) {
		return discord.NewEphemeral(false, "You are not allowed to untrack players."), nil
	}

	discordID := webhook.Option(userOption)

	if err := a.store.RemoveMember(webhook.GuildID, discordID); err != nil {
		if errors.Is(err, track.ErrUserNotFound) {
			return discord.NewEphemeral(false, fmt.Sprintf("<@%s> is not tracked.", discordID)), nil
		}

		return discord.NewError(false, err), nil
	}

	return discord.NewEphemeral(false, fmt.Sprintf("<@%s> is no longer tracked.", discordID)), nil
}

func (a App) showAllUsers(webhook discord.InteractionRequest) (discord.InteractionResponse, func(context.Context) discord.InteractionResponse) {
	members := a.store.Members(webhook.GuildID)
	if len(members) == 0 {
		return discord.NewEphemeral(false, "No tracked players in this server."), nil
	}

	return discord.AsyncResponse(false, true), func(ctx context.Context) discord.InteractionResponse {
		return discord.NewEphemeral(false, "").AddEmbed(a.membersEmbed(ctx, members))
	}
}

func (a App) membersEmbed(ctx context.Context, members []track.Member) discord.Embed {
	embed := discord.Embed{
		Title: fmt.Sprintf("Tracked players (%d)", len(members)),
	}.SetColor(discord.ColorGold)

	for i, member := range members {
		if i == maxEmbedFields {
			embed.Description = fmt.Sprintf("And %d more.", len(members)-maxEmbedFields)
			break
		}

		embed = embed.AddField(discord.NewField(a.username(ctx, member.DiscordID), fmt.Sprintf("ID: `%s`\nPUUID: `%s`\nRegion: %s", member.DiscordID, member.PUUID, member.Region)))
	}

	return embed
}

func (a App) username(ctx context.Context, id string) string {
	if a.directory == nil {
		return id
	}

	user, err := a.directory.User(ctx, id)
	if err != nil {
		slog.LogAttrs(ctx, slog.LevelWarn, "get discord user", slog.String("id", id), slog.Any("error", err))
		return id
	}

	return user.Username
}
