package bot

import (
	"strings"

	"github.com/riftlens/riftlens/discord"
	"github.com/riftlens/riftlens/riot"
)

const (
	addUserCommand      = "add_user"
	removeUserCommand   = "remove_user"
	showAllUsersCommand = "show_all_users"
	overviewCommand     = "overview"

	userOption     = "user"
	riotNameOption = "riot_name"
	regionOption   = "region"

	overviewPrefix = "overview:"
)

// Commands are the application commands handled by the bot
func Commands() []discord.Command {
	userParam := discord.CommandOption{
		Name:        userOption,
		Description: "Discord user",
		Type:        discord.UserOption,
		Required:    true,
	}

	return []discord.Command{
		{
			Name:        addUserCommand,
			Description: "Track a League of Legends player",
			Options: []discord.CommandOption{
				userParam,
				{
					Name:        riotNameOption,
					Description: "Riot ID, as Name#Tag",
					Type:        discord.StringOption,
					Required:    true,
				},
				{
					Name:        regionOption,
					Description: "Region, one of " + strings.Join(riot.Regions(), ", "),
					Type:        discord.StringOption,
					Required:    true,
				},
			},
		},
		{
			Name:        removeUserCommand,
			Description: "Stop tracking a player",
			Options:     []discord.CommandOption{userParam},
		},
		{
			Name:        showAllUsersCommand,
			Description: "List tracked players of this server",
		},
		{
			Name:        overviewCommand,
			Description: "Render the latest match of a tracked player",
			Options:     []discord.CommandOption{userParam},
		},
	}
}
