package riot

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ViBiOh/flags"
	"github.com/ViBiOh/httputils/v4/pkg/httpjson"
	"github.com/ViBiOh/httputils/v4/pkg/request"
	"golang.org/x/time/rate"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUnknownRegion = errors.New("unknown region")
)

type Config struct {
	token      *string
	rateLimit  *float64
	rateBurst  *int
	standingDB *StandingCacheConfig
}

func Flags(fs *flag.FlagSet, prefix string, overrides ...flags.Override) *Config {
	return &Config{
		token:      flags.New("Token", "Riot API token").Prefix(prefix).DocPrefix("riot").String(fs, "", overrides),
		rateLimit:  flags.New("RateLimit", "Riot API requests per second").Prefix(prefix).DocPrefix("riot").Float64(fs, 15, overrides),
		rateBurst:  flags.New("RateBurst", "Riot API burst").Prefix(prefix).DocPrefix("riot").Int(fs, 20, overrides),
		standingDB: standingCacheFlags(fs, prefix+"Standing", overrides...),
	}
}

// Client of the Riot Games API
type Client struct {
	limiter   *rate.Limiter
	standings StandingCache
	regional  func(string) (string, bool)
	platform  func(string) (string, bool)
	token     string
}

func New(config *Config) (Client, error) {
	if len(*config.token) == 0 {
		return Client{}, errors.New("riot token is required")
	}

	standings, err := newStandingCache(config.standingDB)
	if err != nil {
		return Client{}, fmt.Errorf("standing cache: %w", err)
	}

	return Client{
		token:     *config.token,
		limiter:   rate.NewLimiter(rate.Limit(*config.rateLimit), *config.rateBurst),
		standings: standings,
		regional:  lookupIn(regionalRouting),
		platform:  lookupIn(platformRouting),
	}, nil
}

func lookupIn(routing map[string]string) func(string) (string, bool) {
	return func(region string) (string, bool) {
		base, ok := routing[NormalizeRegion(region)]
		return base, ok
	}
}

func (c Client) Close() error {
	if c.standings == nil {
		return nil
	}

	return c.standings.Close()
}

func (c Client) request(ctx context.Context, base string) (request.Request, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return request.Request{}, fmt.Errorf("rate limit: %w", err)
	}

	return request.New().URL(base).Header("X-Riot-Token", c.token).Method(http.MethodGet), nil
}

func (c Client) get(ctx context.Context, base, path string, args ...any) (*http.Response, error) {
	req, err := c.request(ctx, base)
	if err != nil {
		return nil, err
	}

	resp, err := req.Path(path, args...).Send(ctx, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}

		return resp, err
	}

	return resp, nil
}

// PUUID resolves a Riot ID into the player's PUUID
func (c Client) PUUID(ctx context.Context, gameName, tagLine, region string) (string, error) {
	base, ok := c.regional(region)
	if !ok {
		return "", ErrUnknownRegion
	}

	resp, err := c.get(ctx, base, "/riot/account/v1/accounts/by-riot-id/%s/%s", url.PathEscape(gameName), url.PathEscape(tagLine))
	if err != nil {
		return "", fmt.Errorf("get account: %w", err)
	}

	var account struct {
		PUUID string `json:"puuid"`
	}

	if err := httpjson.Read(resp, &account); err != nil {
		return "", fmt.Errorf("read account: %w", err)
	}

	return account.PUUID, nil
}

// LatestMatchID returns the most recent match of a player
func (c Client) LatestMatchID(ctx context.Context, puuid, region string) (string, error) {
	base, ok := c.regional(region)
	if !ok {
		return "", ErrUnknownRegion
	}

	resp, err := c.get(ctx, base, "/lol/match/v5/matches/by-puuid/%s/ids?start=0&count=1", url.PathEscape(puuid))
	if err != nil {
		return "", fmt.Errorf("list matches: %w", err)
	}

	var ids []string
	if err := httpjson.Read(resp, &ids); err != nil {
		return "", fmt.Errorf("read matches: %w", err)
	}

	if len(ids) == 0 {
		return "", ErrNotFound
	}

	return ids[0], nil
}

func (c Client) Match(ctx context.Context, matchID, region string) (Match, error) {
	base, ok := c.regional(region)
	if !ok {
		return Match{}, ErrUnknownRegion
	}

	resp, err := c.get(ctx, base, "/lol/match/v5/matches/%s", url.PathEscape(matchID))
	if err != nil {
		return Match{}, fmt.Errorf("get match: %w", err)
	}

	var match Match
	if err := httpjson.Read(resp, &match); err != nil {
		return Match{}, fmt.Errorf("read match: %w", err)
	}

	return match, nil
}

// RankStanding never fails: problems are reported through the standing status
func (c Client) RankStanding(ctx context.Context, puuid, region string) Standing {
	base, ok := c.platform(region)
	if !ok {
		return Standing{Status: StatusError}
	}

	key := NormalizeRegion(region) + ":" + puuid

	if c.standings != nil {
		if standing, ok := c.standings.Load(ctx, key); ok {
			return standing
		}
	}

	resp, err := c.get(ctx, base, "/lol/league/v4/entries/by-puuid/%s", url.PathEscape(puuid))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusForbidden {
			return Standing{Status: StatusUnfetchable}
		}

		slog.LogAttrs(ctx, slog.LevelWarn, "get rank standing", slog.String("puuid", puuid), slog.Any("error", err))
		return Standing{Status: StatusError}
	}

	var entries []LeagueEntry
	if err := httpjson.Read(resp, &entries); err != nil {
		slog.LogAttrs(ctx, slog.LevelWarn, "read rank standing", slog.String("puuid", puuid), slog.Any("error", err))
		return Standing{Status: StatusError}
	}

	standing := newStanding(entries)

	if c.standings != nil {
		c.standings.Store(ctx, key, standing)
	}

	return standing
}
