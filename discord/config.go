package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/ViBiOh/httputils/v4/pkg/httpjson"
	"github.com/ViBiOh/httputils/v4/pkg/request"
)

const rateLimitWait = time.Second * 5

type oauthToken struct {
	AccessToken string `json:"access_token"`
}

// ConfigureCommands registers the given commands, globally or for their guilds
func (s Service) ConfigureCommands(ctx context.Context, commands []Command) error {
	if len(s.applicationID) == 0 {
		return errors.New("application id is required")
	}

	data := url.Values{}
	data.Add("grant_type", "client_credentials")
	data.Add("scope", "applications.commands.update")

	resp, err := s.api.Method(http.MethodPost).Path("/oauth2/token").BasicAuth(s.clientID, s.clientSecret).Form(ctx, data)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	var token oauthToken
	if err := httpjson.Read(resp, &token); err != nil {
		return fmt.Errorf("read oauth token: %w", err)
	}

	rootURL := fmt.Sprintf("/applications/%s", s.applicationID)

	for _, command := range commands {
		for _, registerURL := range getRegisterURLs(command) {
			absoluteURL := rootURL + registerURL

		configure:
			resp, err := s.api.Method(http.MethodPost).Path(absoluteURL).Header("Authorization", "Bearer "+token.AccessToken).StreamJSON(ctx, command)
			if err != nil {
				if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
					slog.LogAttrs(ctx, slog.LevelWarn, "Rate-limited, waiting before retrying...", slog.String("url", absoluteURL), slog.Duration("wait", rateLimitWait))
					time.Sleep(rateLimitWait)

					goto configure
				}

				return fmt.Errorf("configure `%s` command for url `%s`: %w", command.Name, registerURL, err)
			}

			if err := request.DiscardBody(resp.Body); err != nil {
				return fmt.Errorf("discard `%s` body: %w", command.Name, err)
			}
		}

		slog.LogAttrs(ctx, slog.LevelInfo, fmt.Sprintf("Command `%s` configured!", command.Name))
	}

	return nil
}

func getRegisterURLs(command Command) []string {
	if len(command.Guilds) == 0 {
		return []string{"/commands"}
	}

	urls := make([]string, len(command.Guilds))

	for i, guild := range command.Guilds {
		urls[i] = fmt.Sprintf("/guilds/%s/commands", guild)
	}

	return urls
}
