package asset

import (
	"flag"
	"fmt"
	"time"

	"github.com/ViBiOh/flags"
)

type Config struct {
	dragonURL    *string
	version      *string
	rankIconURL  *string
	perkDataURL  *string
	perkIconURL  *string
	concurrency  *int
	batchLimit   *int
	cacheSize    *int
	fetchTimeout *time.Duration
}

func Flags(fs *flag.FlagSet, prefix string, overrides ...flags.Override) *Config {
	return &Config{
		dragonURL:    flags.New("DragonURL", "Data Dragon CDN root").Prefix(prefix).DocPrefix("asset").String(fs, "https://ddragon.leagueoflegends.com/cdn/", overrides),
		version:      flags.New("Version", "Data Dragon version").Prefix(prefix).DocPrefix("asset").String(fs, "16.3.1", overrides),
		rankIconURL:  flags.New("RankIconURL", "Ranked emblem URL prefix, tier and `.png` are appended").Prefix(prefix).DocPrefix("asset").String(fs, "https://raw.communitydragon.org/latest/plugins/rcp-fe-lol-static-assets/global/default/images/ranked-emblem/emblem-", overrides),
		perkDataURL:  flags.New("PerkDataURL", "Perks metadata URL").Prefix(prefix).DocPrefix("asset").String(fs, "https://raw.communitydragon.org/latest/plugins/rcp-be-lol-game-data/global/default/v1/perks.json", overrides),
		perkIconURL:  flags.New("PerkIconURL", "Perks icon root").Prefix(prefix).DocPrefix("asset").String(fs, "https://raw.communitydragon.org/latest/plugins/rcp-be-lol-game-data/global/default", overrides),
		concurrency:  flags.New("Concurrency", "Maximum concurrent asset requests, for all renders").Prefix(prefix).DocPrefix("asset").Int(fs, 8, overrides),
		batchLimit:   flags.New("BatchLimit", "Maximum concurrent resolutions in one batch, 0 for unlimited").Prefix(prefix).DocPrefix("asset").Int(fs, 0, overrides),
		cacheSize:    flags.New("CacheSize", "Maximum cached assets, 0 to never evict").Prefix(prefix).DocPrefix("asset").Int(fs, 0, overrides),
		fetchTimeout: flags.New("FetchTimeout", "Timeout of one asset request").Prefix(prefix).DocPrefix("asset").Duration(fs, time.Second*5, overrides),
	}
}

func (c *Config) Sources() Sources {
	return Sources{
		DragonURL:   *c.dragonURL,
		Version:     *c.version,
		RankIconURL: *c.rankIconURL,
		PerkDataURL: *c.perkDataURL,
		PerkIconURL: *c.perkIconURL,
	}
}

// New builds the process-wide resolver and its cache
func New(config *Config) (*Resolver, error) {
	cache, err := NewCache(*config.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	sources := config.Sources()
	fetcher := NewFetcher(*config.concurrency, *config.fetchTimeout)

	return NewResolver(cache, NewLookups(fetcher, sources), fetcher, sources, *config.batchLimit), nil
}
