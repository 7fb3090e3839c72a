package riot

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/ViBiOh/flags"
	"github.com/ViBiOh/httputils/v4/pkg/hash"
	"github.com/redis/go-redis/v9"
)

var cacheVersion = hash.Hash("riftlens/standing/1")[:8]

func cacheKey(content string) string {
	return fmt.Sprintf("standing:%s:%s", cacheVersion, content)
}

// StandingCache keeps recent rank standings, sparing the league endpoint on repeated renders
type StandingCache interface {
	Load(context.Context, string) (Standing, bool)
	Store(context.Context, string, Standing)
	Close() error
}

type StandingCacheConfig struct {
	address  *string
	password *string
	database *int
	ttl      *time.Duration
}

func standingCacheFlags(fs *flag.FlagSet, prefix string, overrides ...flags.Override) *StandingCacheConfig {
	return &StandingCacheConfig{
		address:  flags.New("RedisAddress", "Redis address for rank standings, blank to disable").Prefix(prefix).DocPrefix("riot").String(fs, "", overrides),
		password: flags.New("RedisPassword", "Redis password").Prefix(prefix).DocPrefix("riot").String(fs, "", overrides),
		database: flags.New("RedisDatabase", "Redis database").Prefix(prefix).DocPrefix("riot").Int(fs, 0, overrides),
		ttl:      flags.New("TTL", "Rank standing retention").Prefix(prefix).DocPrefix("riot").Duration(fs, time.Minute*10, overrides),
	}
}

func newStandingCache(config *StandingCacheConfig) (StandingCache, error) {
	if config == nil || len(*config.address) == 0 {
		return nil, nil
	}

	if *config.ttl <= 0 {
		return nil, errors.New("ttl must be positive")
	}

	return NewRedisStandings(redis.NewClient(&redis.Options{
		Addr:     *config.address,
		Password: *config.password,
		DB:       *config.database,
	}), *config.ttl), nil
}

type RedisStandings struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisStandings(client redis.UniversalClient, ttl time.Duration) RedisStandings {
	return RedisStandings{
		client: client,
		ttl:    ttl,
	}
}

func (r RedisStandings) Load(ctx context.Context, key string) (Standing, bool) {
	content, err := r.client.Get(ctx, cacheKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.LogAttrs(ctx, slog.LevelWarn, "load standing", slog.String("key", key), slog.Any("error", err))
		}

		return Standing{}, false
	}

	var standing Standing
	if err := json.Unmarshal(content, &standing); err != nil {
		slog.LogAttrs(ctx, slog.LevelWarn, "unmarshal standing", slog.String("key", key), slog.Any("error", err))
		return Standing{}, false
	}

	return standing, true
}

// Store only keeps successful standings, failures are retried on next render
func (r RedisStandings) Store(ctx context.Context, key string, standing Standing) {
	if standing.Status != StatusOK {
		return
	}

	content, err := json.Marshal(standing)
	if err != nil {
		slog.LogAttrs(ctx, slog.LevelWarn, "marshal standing", slog.String("key", key), slog.Any("error", err))
		return
	}

	if err := r.client.Set(ctx, cacheKey(key), content, r.ttl).Err(); err != nil {
		slog.LogAttrs(ctx, slog.LevelWarn, "store standing", slog.String("key", key), slog.Any("error", err))
	}
}

func (r RedisStandings) Close() error {
	return r.client.Close()
}
