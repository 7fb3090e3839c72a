package riot

const (
	primaryStyle = "primaryStyle"
	subStyle     = "subStyle"

	SoloQueue = "RANKED_SOLO_5x5"
	FlexQueue = "RANKED_FLEX_SR"
)

type Match struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info struct {
		GameMode     string        `json:"gameMode"`
		Participants []Participant `json:"participants"`
		GameDuration int64         `json:"gameDuration"`
	} `json:"info"`
}

func (m Match) Participants() []Participant {
	return m.Info.Participants
}

type Participant struct {
	PUUID          string `json:"puuid"`
	ChampionName   string `json:"championName"`
	RiotIDGameName string `json:"riotIdGameName"`
	Perks          Perks  `json:"perks"`
	Summoner1ID    int    `json:"summoner1Id"`
	Summoner2ID    int    `json:"summoner2Id"`
	TeamID         int    `json:"teamId"`
	Win            bool   `json:"win"`
}

type Perks struct {
	Styles []PerkStyle `json:"styles"`
}

type PerkStyle struct {
	Description string `json:"description"`
	Selections  []struct {
		Perk int `json:"perk"`
	} `json:"selections"`
	Style int `json:"style"`
}

func (p Participant) style(description string) (PerkStyle, bool) {
	for _, style := range p.Perks.Styles {
		if style.Description == description {
			return style, true
		}
	}

	return PerkStyle{}, false
}

// PrimaryRune is the keystone, 0 if unknown
func (p Participant) PrimaryRune() int {
	style, ok := p.style(primaryStyle)
	if !ok || len(style.Selections) == 0 {
		return 0
	}

	return style.Selections[0].Perk
}

// SecondaryStyle is the secondary rune tree, 0 if unknown
func (p Participant) SecondaryStyle() int {
	style, ok := p.style(subStyle)
	if !ok {
		return 0
	}

	return style.Style
}

type LeagueEntry struct {
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

type Status string

const (
	StatusOK          Status = "ok"
	StatusUnfetchable Status = "unfetchable"
	StatusError       Status = "error"
)

// Standing is the ranked state of a player in the solo and flex queues
type Standing struct {
	Solo   *LeagueEntry `json:"solo,omitempty"`
	Flex   *LeagueEntry `json:"flex,omitempty"`
	Status Status       `json:"status"`
}

func newStanding(entries []LeagueEntry) Standing {
	standing := Standing{Status: StatusOK}

	for _, entry := range entries {
		switch entry.QueueType {
		case SoloQueue:
			standing.Solo = &entry
		case FlexQueue:
			standing.Flex = &entry
		}
	}

	return standing
}
