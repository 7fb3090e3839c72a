package render

import "image"

const (
	TeamSize        = 5
	MaxParticipants = TeamSize * 2

	rowHeight = 190

	ChampionSize   = 80
	leftChampionX  = 109
	rightChampionX = 1730
	championY      = 139

	leftNameX  = 190
	rightNameX = 1730
	nameY      = 142

	runeOffsetY     = 85
	PrimaryRuneSize = 30
	StyleRuneSize   = 25

	SpellSize      = 30
	pairGap        = 4
	spellPairWidth = SpellSize*2 + pairGap

	leftSpellX  = 190
	rightSpellX = rightChampionX - spellPairWidth
	spellY      = 220

	soloRankY = 168
	flexRankY = 188

	leftRankX  = 192
	rightRankX = 1728

	nameSize = 18
	rankSize = 12
)

type Anchor uint8

const (
	AnchorLeft Anchor = iota
	AnchorRight
)

// ParticipantLayout holds every drawing position of one participant on the overview
type ParticipantLayout struct {
	Champion image.Point
	Name     image.Point
	// Runes is the horizontal center and the top of the rune pair
	Runes  image.Point
	Spells image.Point
	Solo   image.Point
	Flex   image.Point
	Anchor Anchor
}

// Layout is a pure function of the participant index: 0-4 on the left side, 5-9 on the right side
func Layout(index int) ParticipantLayout {
	row := index % TeamSize
	offset := rowHeight * row

	layout := ParticipantLayout{
		Champion: image.Pt(leftChampionX, championY+offset),
		Name:     image.Pt(leftNameX, nameY+offset),
		Spells:   image.Pt(leftSpellX, spellY+offset),
		Solo:     image.Pt(leftRankX, soloRankY+offset),
		Flex:     image.Pt(leftRankX, flexRankY+offset),
		Anchor:   AnchorLeft,
	}

	if index >= TeamSize {
		layout.Champion.X = rightChampionX
		layout.Name.X = rightNameX
		layout.Spells.X = rightSpellX
		layout.Solo.X = rightRankX
		layout.Flex.X = rightRankX
		layout.Anchor = AnchorRight
	}

	layout.Runes = image.Pt(layout.Champion.X+ChampionSize/2, layout.Champion.Y+runeOffsetY)

	return layout
}

// Layouts of the first count participants, capped to a full game
func Layouts(count int) []ParticipantLayout {
	count = min(count, MaxParticipants)

	output := make([]ParticipantLayout, count)
	for i := range output {
		output[i] = Layout(i)
	}

	return output
}
