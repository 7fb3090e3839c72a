package bot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/riftlens/riftlens/discord"
	"github.com/riftlens/riftlens/riot"
	"github.com/riftlens/riftlens/track"
)

const (
	guildID     = "1000"
	developerID = "1"
	playerID    = "2"
)

type fakeRiot struct {
	latest string
}

func (f fakeRiot) PUUID(_ context.Context, gameName, tagLine, _ string) (string, error) {
	if gameName == "Nobody" {
		return "", riot.ErrNotFound
	}

	return gameName + "-" + tagLine, nil
}

func (f fakeRiot) LatestMatchID(_ context.Context, puuid, _ string) (string, error) {
	if len(f.latest) == 0 {
		return "", riot.ErrNotFound
	}

	return f.latest, nil
}

func (f fakeRiot) Match(_ context.Context, matchID, _ string) (riot.Match, error) {
	var match riot.Match
	match.Metadata.MatchID = matchID

	return match, nil
}

type fakeRenderer struct {
	calls atomic.Int32
}

func (f *fakeRenderer) Render(_ context.Context, match riot.Match, _ string) ([]byte, error) {
	f.calls.Add(1)
	return []byte("png:" + match.Metadata.MatchID), nil
}

type fakeDirectory struct{}

func (fakeDirectory) User(_ context.Context, id string) (discord.User, error) {
	if id == playerID {
		return discord.User{ID: id, Username: "faker"}, nil
	}

	return discord.User{}, errors.New("unknown user")
}

func newTestApp(t *testing.T, latest string) (App, *track.Store, *fakeRenderer) {
	t.Helper()

	store, err := track.Open(filepath.Join(t.TempDir(), "track.json"))
	if err != nil {
		t.Fatalf("track.Open() error = %s", err)
	}

	developers := []string{developerID, " "}
	renderer := &fakeRenderer{}

	return New(&Config{developers: &developers}, store, fakeRiot{latest: latest}, renderer, fakeDirectory{}), store, renderer
}

func command(name, author string, options map[string]string) discord.InteractionRequest {
	var webhook discord.InteractionRequest

	webhook.Type = discord.ApplicationCommandInteraction
	webhook.GuildID = guildID
	webhook.Member.User.ID = author
	webhook.Data.Name = name

	for key, value := range options {
		webhook.Data.Options = append(webhook.Data.Options, discord.CommandOption{Name: key, Value: value})
	}

	return webhook
}

func withResolved(webhook discord.InteractionRequest, users ...discord.User) discord.InteractionRequest {
	webhook.Data.Resolved.Users = make(map[string]discord.User, len(users))

	for _, user := range users {
		webhook.Data.Resolved.Users[user.ID] = user
	}

	return webhook
}

func run(ctx context.Context, response discord.InteractionResponse, async func(context.Context) discord.InteractionResponse) discord.InteractionResponse {
	if async == nil {
		return response
	}

	return async(ctx)
}

func TestHandle(t *testing.T) {
	cases := map[string]struct {
		request     discord.InteractionRequest
		wantAsync   bool
		wantContent string
	}{
		"direct message": {
			discord.InteractionRequest{},
			false,
			"only works in a server",
		},
		"unknown command": {
			command("dance", developerID, nil),
			false,
			"Unknown command",
		},
		"add by non developer": {
			command(addUserCommand, playerID, map[string]string{userOption: playerID, riotNameOption: "Faker#KR1", regionOption: "KR"}),
			false,
			"not allowed",
		},
		"add with invalid region": {
			command(addUserCommand, developerID, map[string]string{userOption: playerID, riotNameOption: "Faker#KR1", regionOption: "MOON"}),
			false,
			"Invalid region `MOON`",
		},
		"add with invalid riot id": {
			command(addUserCommand, developerID, map[string]string{userOption: playerID, riotNameOption: "Faker", regionOption: "KR"}),
			false,
			"Name#Tag",
		},
		"add a bot": {
			withResolved(command(addUserCommand, developerID, map[string]string{userOption: "3", riotNameOption: "Bot#0000", regionOption: "KR"}), discord.User{ID: "3", Username: "helper", Bot: true}),
			false,
			"is a bot",
		},
		"add resolved human": {
			withResolved(command(addUserCommand, developerID, map[string]string{userOption: "4", riotNameOption: "Nobody#0000", regionOption: "KR"}), discord.User{ID: "4", Username: "human"}),
			true,
			"No Riot account found",
		},
		"add unknown account": {
			command(addUserCommand, developerID, map[string]string{userOption: playerID, riotNameOption: "Nobody#0000", regionOption: "kr"}),
			true,
			"No Riot account found",
		},
		"remove by non developer": {
			command(removeUserCommand, playerID, map[string]string{userOption: playerID}),
			false,
			"not allowed",
		},
		"remove untracked": {
			command(removeUserCommand, developerID, map[string]string{userOption: playerID}),
			false,
			"is not tracked",
		},
		"show without members": {
			command(showAllUsersCommand, playerID, nil),
			false,
			"No tracked players",
		},
		"overview untracked": {
			command(overviewCommand, playerID, map[string]string{userOption: playerID}),
			false,
			"is not tracked",
		},
	}

	app, _, _ := newTestApp(t, "KR_1")

	for intention, testCase := range cases {
		t.Run(intention, func(t *testing.T) {
			response, async := app.Handle(context.Background(), testCase.request)

			if gotAsync := async != nil; gotAsync != testCase.wantAsync {
				t.Fatalf("Handle() async = %t, want %t", gotAsync, testCase.wantAsync)
			}

			got := run(context.Background(), response, async)

			if !strings.Contains(got.Data.Content, testCase.wantContent) {
				t.Errorf("Handle() content = `%s`, want `%s`", got.Data.Content, testCase.wantContent)
			}

			if got.Data.Flags&discord.EphemeralMessage == 0 {
				t.Errorf("Handle() response is not ephemeral")
			}
		})
	}
}

func TestAddAndRemoveUser(t *testing.T) {
	app, store, _ := newTestApp(t, "KR_42")
	ctx := context.Background()

	response, async := app.Handle(ctx, command(addUserCommand, developerID, map[string]string{userOption: playerID, riotNameOption: "Faker#KR1", regionOption: " kr "}))
	if async == nil || response.Type != discord.DeferredChannelMessageWithSource {
		t.Fatalf("Handle(add_user) = %+v, want deferred response", response)
	}

	if got := async(ctx).Data.Content; !strings.Contains(got, "now tracked as `Faker#KR1` on KR") {
		t.Errorf("add_user content = `%s`", got)
	}

	member, ok := store.Member(guildID, playerID)
	if !ok || member.PUUID != "Faker-KR1" || member.Region != "KR" || member.LatestMatch() != "KR_42" {
		t.Errorf("Member() = (%+v, %t)", member, ok)
	}

	response, _ = app.Handle(ctx, command(addUserCommand, developerID, map[string]string{userOption: playerID, riotNameOption: "Faker#KR1", regionOption: "KR"}))
	if !strings.Contains(response.Data.Content, "already tracked") {
		t.Errorf("add_user twice content = `%s`", response.Data.Content)
	}

	response, _ = app.Handle(ctx, command(removeUserCommand, developerID, map[string]string{userOption: playerID}))
	if !strings.Contains(response.Data.Content, "no longer tracked") {
		t.Errorf("remove_user content = `%s`", response.Data.Content)
	}

	if _, ok := store.Member(guildID, playerID); ok {
		t.Error("member still tracked after remove_user")
	}
}

func TestShowAllUsers(t *testing.T) {
	app, store, _ := newTestApp(t, "")
	ctx := context.Background()

	for _, id := range []string{playerID, "3"} {
		if _, err := store.AddMember(guildID, id, "puuid-"+id, "EUW"); err != nil {
			t.Fatal(err)
		}
	}

	_, async := app.Handle(ctx, command(showAllUsersCommand, playerID, nil))
	if async == nil {
		t.Fatal("Handle(show_all_users) is not deferred")
	}

	got := async(ctx)
	if len(got.Data.Embeds) != 1 {
		t.Fatalf("embeds = %d, want 1", len(got.Data.Embeds))
	}

	fields := got.Data.Embeds[0].Fields
	if len(fields) != 2 {
		t.Fatalf("fields = %d, want 2", len(fields))
	}

	if fields[0].Name != "faker" || !strings.Contains(fields[0].Value, "puuid-2") {
		t.Errorf("fields[0] = %+v", fields[0])
	}

	if fields[1].Name != "3" || !strings.Contains(fields[1].Value, "EUW") {
		t.Errorf("fields[1] = %+v, want id as fallback name", fields[1])
	}
}

func TestMembersEmbedCapped(t *testing.T) {
	app, _, _ := newTestApp(t, "")

	members := make([]track.Member, maxEmbedFields+3)
	for i := range members {
		members[i] = track.Member{DiscordID: fmt.Sprintf("%d", i+10)}
	}

	embed := app.membersEmbed(context.Background(), members)

	if len(embed.Fields) != maxEmbedFields {
		t.Errorf("fields = %d, want %d", len(embed.Fields), maxEmbedFields)
	}

	if embed.Description != "And 3 more." {
		t.Errorf("description = `%s`", embed.Description)
	}
}

func TestOverview(t *testing.T) {
	app, store, renderer := newTestApp(t, "EUW1_7")
	ctx := context.Background()

	if _, err := store.AddMember(guildID, playerID, "puuid", "EUW"); err != nil {
		t.Fatal(err)
	}

	response, async := app.Handle(ctx, command(overviewCommand, playerID, map[string]string{userOption: playerID}))
	if async == nil || response.Type != discord.DeferredChannelMessageWithSource {
		t.Fatalf("Handle(overview) = %+v, want deferred response", response)
	}

	got := async(ctx)

	if len(got.Data.Attachments) != 1 || got.Data.Attachments[0].Filename != "EUW1_7.png" || got.Data.Attachments[0].Size != int64(len("png:EUW1_7")) {
		t.Errorf("attachments = %+v", got.Data.Attachments)
	}

	if len(got.Data.Components) != 1 || got.Data.Components[0].Components[0].CustomID != "overview:"+playerID {
		t.Errorf("components = %+v", got.Data.Components)
	}

	if member, _ := store.Member(guildID, playerID); member.LatestMatch() != "EUW1_7" {
		t.Errorf("recorded matches = %v", member.Matches)
	}

	var refresh discord.InteractionRequest
	refresh.Type = discord.MessageComponentInteraction
	refresh.GuildID = guildID
	refresh.Data.CustomID = "overview:" + playerID

	response, async = app.Handle(ctx, refresh)
	if async == nil || response.Type != discord.DeferredUpdateMessage {
		t.Fatalf("Handle(refresh) = %+v, want deferred update", response)
	}

	if got := async(ctx); len(got.Data.Attachments) != 1 {
		t.Errorf("refresh attachments = %+v", got.Data.Attachments)
	}

	if got := renderer.calls.Load(); got != 2 {
		t.Errorf("renders = %d, want 2", got)
	}

	if member, _ := store.Member(guildID, playerID); len(member.Matches) != 1 {
		t.Errorf("recorded matches after refresh = %v, want a single one", member.Matches)
	}
}

func TestOverviewWithoutMatch(t *testing.T) {
	app, store, renderer := newTestApp(t, "")
	ctx := context.Background()

	if _, err := store.AddMember(guildID, playerID, "puuid", "EUW"); err != nil {
		t.Fatal(err)
	}

	_, async := app.Handle(ctx, command(overviewCommand, playerID, map[string]string{userOption: playerID}))
	if async == nil {
		t.Fatal("Handle(overview) is not deferred")
	}

	if got := async(ctx).Data.Content; !strings.Contains(got, "No match found") {
		t.Errorf("content = `%s`", got)
	}

	if got := renderer.calls.Load(); got != 0 {
		t.Errorf("renders = %d, want 0", got)
	}
}

func TestUnknownComponent(t *testing.T) {
	app, _, _ := newTestApp(t, "")

	var webhook discord.InteractionRequest
	webhook.Type = discord.MessageComponentInteraction
	webhook.GuildID = guildID
	webhook.Data.CustomID = "delete:2"

	response, async := app.Handle(context.Background(), webhook)
	if async != nil || response.Type != discord.UpdateMessageCallback {
		t.Errorf("Handle() = %+v, want immediate update", response)
	}
}

func TestCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, command := range Commands() {
		names[command.Name] = true

		for _, option := range command.Options {
			if option.Type == 0 || !option.Required {
				t.Errorf("%s option %s = %+v", command.Name, option.Name, option)
			}
		}
	}

	for _, name := range []string{addUserCommand, removeUserCommand, showAllUsersCommand, overviewCommand} {
		if !names[name] {
			t.Errorf("command `%s` not defined", name)
		}
	}
}
