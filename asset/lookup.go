package asset

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

const gameDataPrefix = "/lol-game-data/assets"

// rune tree styles are not part of perks.json
var styleIcons = map[int]string{
	8000: "7201_precision.png",
	8100: "7200_domination.png",
	8200: "7202_sorcery.png",
	8300: "7203_whimsy.png",
	8400: "7204_resolve.png",
}

type perk struct {
	IconPath string `json:"iconPath"`
	ID       int    `json:"id"`
}

type summonerSpells struct {
	Data map[string]struct {
		Key string `json:"key"`
		ID  string `json:"id"`
	} `json:"data"`
}

// Lookups memoizes the tables translating numeric game ids into asset locations. A failed
// fetch is not memoized so the next caller retries.
type Lookups struct {
	runes   map[int]string
	spells  map[int]string
	group   singleflight.Group
	fetcher Fetcher
	sources Sources
	mu      sync.RWMutex
}

func NewLookups(fetcher Fetcher, sources Sources) *Lookups {
	return &Lookups{
		fetcher: fetcher,
		sources: sources,
	}
}

// Runes returns rune and style id to icon URL, empty when unavailable
func (l *Lookups) Runes(ctx context.Context) map[int]string {
	return l.load(ctx, "runes", &l.runes, l.fetchRunes)
}

// Spells returns summoner spell key to ddragon name, empty when unavailable
func (l *Lookups) Spells(ctx context.Context) map[int]string {
	return l.load(ctx, "spells", &l.spells, l.fetchSpells)
}

func (l *Lookups) load(ctx context.Context, name string, table *map[int]string, fetch func(context.Context) (map[int]string, error)) map[int]string {
	l.mu.RLock()
	memoized := *table
	l.mu.RUnlock()

	if memoized != nil {
		return memoized
	}

	flightCtx := context.WithoutCancel(ctx)

	value, err, _ := l.group.Do(name, func() (any, error) {
		l.mu.RLock()
		current := *table
		l.mu.RUnlock()

		if current != nil {
			return current, nil
		}

		content, err := fetch(flightCtx)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		*table = content
		l.mu.Unlock()

		return content, nil
	})
	if err != nil {
		slog.LogAttrs(ctx, slog.LevelWarn, "lookup table unavailable", slog.String("table", name), slog.Any("error", err))
		return map[int]string{}
	}

	return value.(map[int]string)
}

func (l *Lookups) fetchRunes(ctx context.Context) (map[int]string, error) {
	perks, err := fetchJSON[[]perk](ctx, l.fetcher, l.sources.PerkDataURL)
	if err != nil {
		return nil, fmt.Errorf("fetch perks: %w", err)
	}

	output := make(map[int]string, len(perks)+len(styleIcons))

	for _, item := range perks {
		output[item.ID] = l.sources.PerkIconURL + strings.ToLower(strings.Replace(item.IconPath, gameDataPrefix, "", 1))
	}

	for id, filename := range styleIcons {
		output[id] = l.sources.PerkIconURL + "/v1/perk-images/styles/" + filename
	}

	return output, nil
}

func (l *Lookups) fetchSpells(ctx context.Context) (map[int]string, error) {
	spells, err := fetchJSON[summonerSpells](ctx, l.fetcher, l.sources.spellDataURL())
	if err != nil {
		return nil, fmt.Errorf("fetch spells: %w", err)
	}

	output := make(map[int]string, len(spells.Data))

	for _, spell := range spells.Data {
		key, err := strconv.Atoi(spell.Key)
		if err != nil {
			continue
		}

		output[key] = spell.ID
	}

	return output, nil
}
