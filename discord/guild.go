package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ViBiOh/httputils/v4/pkg/httpjson"
	"github.com/ViBiOh/httputils/v4/pkg/request"
)

var ErrNoBotToken = errors.New("no bot token configured")

type Guild struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s Service) botRequest() (request.Request, error) {
	if len(s.botToken) == 0 {
		return request.Request{}, ErrNoBotToken
	}

	return s.api.Header("Authorization", "Bot "+s.botToken), nil
}

func (s Service) Guild(ctx context.Context, id string) (Guild, error) {
	req, err := s.botRequest()
	if err != nil {
		return Guild{}, err
	}

	resp, err := req.Path("/guilds/%s", id).Method(http.MethodGet).Send(ctx, nil)
	if err != nil {
		return Guild{}, fmt.Errorf("get: %w", err)
	}

	var output Guild
	err = httpjson.Read(resp, &output)

	return output, err
}

func (s Service) User(ctx context.Context, id string) (User, error) {
	req, err := s.botRequest()
	if err != nil {
		return User{}, err
	}

	resp, err := req.Path("/users/%s", id).Method(http.MethodGet).Send(ctx, nil)
	if err != nil {
		return User{}, fmt.Errorf("get: %w", err)
	}

	var output User
	err = httpjson.Read(resp, &output)

	return output, err
}
