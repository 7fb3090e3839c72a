package asset

import (
	"fmt"
	"strconv"
	"strings"
)

type Category uint8

const (
	Champion Category = iota
	Item
	Rune
	Spell
	Rank
)

var categoryNames = [...]string{
	Champion: "champion",
	Item:     "item",
	Rune:     "rune",
	Spell:    "spell",
	Rank:     "rank",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}

	return fmt.Sprintf("category(%d)", c)
}

// Identity addresses one visual asset
type Identity struct {
	Key      string
	Category Category
}

func Named(category Category, name string) Identity {
	return Identity{Category: category, Key: name}
}

func ID(category Category, id int) Identity {
	return Identity{Category: category, Key: strconv.Itoa(id)}
}

func (i Identity) String() string {
	return i.Category.String() + "/" + i.Key
}

// Sources holds the remote locations assets are read from
type Sources struct {
	DragonURL   string
	Version     string
	RankIconURL string
	PerkDataURL string
	PerkIconURL string
}

func (s Sources) spellDataURL() string {
	return s.DragonURL + s.Version + "/data/en_US/summoner.json"
}

func (s Sources) dragonImageURL(category Category, name string) string {
	return fmt.Sprintf("%s%s/img/%s/%s.png", s.DragonURL, s.Version, category, name)
}

type tables struct {
	runes  map[int]string
	spells map[int]string
}

// urlStrategy builds the source URL of an identity. The bool is false when it cannot be resolved.
type urlStrategy func(Sources, tables, string) (string, bool)

var strategies = map[Category]urlStrategy{
	Champion: directURL(Champion),
	Item:     directURL(Item),
	Rank:     rankURL,
	Rune:     runeURL,
	Spell:    spellURL,
}

// needs reports which lookup tables a category requires before its URL can be built
func needs(category Category) (runes, spells bool) {
	return category == Rune, category == Spell
}

func directURL(category Category) urlStrategy {
	return func(sources Sources, _ tables, key string) (string, bool) {
		if len(key) == 0 {
			return "", false
		}

		return sources.dragonImageURL(category, key), true
	}
}

func rankURL(sources Sources, _ tables, tier string) (string, bool) {
	if len(tier) == 0 {
		return "", false
	}

	return sources.RankIconURL + strings.ToLower(tier) + ".png", true
}

func runeURL(_ Sources, lookup tables, key string) (string, bool) {
	id, err := strconv.Atoi(key)
	if err != nil {
		return "", false
	}

	url, ok := lookup.runes[id]
	return url, ok && len(url) != 0
}

func spellURL(sources Sources, lookup tables, key string) (string, bool) {
	id, err := strconv.Atoi(key)
	if err != nil {
		return "", false
	}

	name, ok := lookup.spells[id]
	if !ok || len(name) == 0 {
		return "", false
	}

	return sources.dragonImageURL(Spell, name), true
}

func sourceURL(sources Sources, lookup tables, identity Identity) (string, bool) {
	strategy, ok := strategies[identity.Category]
	if !ok {
		return "", false
	}

	return strategy(sources, lookup, identity.Key)
}
