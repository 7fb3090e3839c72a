package discord

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ViBiOh/httputils/v4/pkg/httperror"
	"github.com/ViBiOh/httputils/v4/pkg/request"
)

// handleOauth completes the bot install flow started from the Discord authorize URL
func (s Service) handleOauth(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if len(code) == 0 {
		httperror.BadRequest(r.Context(), w, errors.New("code is required"))
		return
	}

	params := url.Values{}
	params.Set("code", code)
	params.Set("client_id", s.clientID)
	params.Set("client_secret", s.clientSecret)
	params.Set("grant_type", "authorization_code")
	params.Set("redirect_uri", s.website)

	resp, err := s.api.Path("/oauth2/token").Method(http.MethodPost).Form(r.Context(), params)
	if err != nil {
		httperror.InternalServerError(r.Context(), w, fmt.Errorf("confirm oauth request: %w", err))
		return
	}

	if err := request.DiscardBody(resp.Body); err != nil {
		httperror.InternalServerError(r.Context(), w, fmt.Errorf("discard body: %w", err))
		return
	}

	slog.LogAttrs(r.Context(), slog.LevelInfo, "Bot installed", slog.String("guild", r.URL.Query().Get("guild_id")))

	if len(s.website) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Redirect(w, r, s.website, http.StatusFound)
}
