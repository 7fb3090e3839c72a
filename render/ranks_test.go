package render

import (
	"image"
	"testing"

	"github.com/riftlens/riftlens/riot"
)

func TestRankLines(t *testing.T) {
	cases := map[string]struct {
		standing riot.Standing
		want     [2]rankLine
	}{
		"unfetchable": {
			riot.Standing{Status: riot.StatusUnfetchable},
			[2]rankLine{
				{text: "unfetchable", color: white},
				{text: "unfetchable", color: white},
			},
		},
		"error": {
			riot.Standing{Status: riot.StatusError},
			[2]rankLine{
				{text: "error", color: white},
				{text: "error", color: white},
			},
		},
		"unknown status": {
			riot.Standing{},
			[2]rankLine{
				{text: "error", color: white},
				{text: "error", color: white},
			},
		},
		"unranked": {
			riot.Standing{Status: riot.StatusOK},
			[2]rankLine{
				{text: unranked, color: white},
				{text: unranked, color: white},
			},
		},
		"solo only": {
			riot.Standing{
				Status: riot.StatusOK,
				Solo:   &riot.LeagueEntry{Tier: "GOLD", Rank: "II", LeaguePoints: 45},
			},
			[2]rankLine{
				{text: "G2 45 LP", tier: "GOLD", color: tierColors["GOLD"]},
				{text: unranked, color: white},
			},
		},
		"apex flex": {
			riot.Standing{
				Status: riot.StatusOK,
				Solo:   &riot.LeagueEntry{Tier: "emerald", Rank: "IV", LeaguePoints: 0},
				Flex:   &riot.LeagueEntry{Tier: "GRANDMASTER", Rank: "I", LeaguePoints: 612},
			},
			[2]rankLine{
				{text: "E4 0 LP", tier: "EMERALD", color: tierColors["EMERALD"]},
				{text: "GM 612 LP", tier: "GRANDMASTER", color: tierColors["GRANDMASTER"]},
			},
		},
	}

	for intention, testCase := range cases {
		t.Run(intention, func(t *testing.T) {
			if got := rankLines(testCase.standing); got != testCase.want {
				t.Errorf("rankLines() = %+v, want %+v", got, testCase.want)
			}
		})
	}
}

func TestCompactRank(t *testing.T) {
	cases := map[string]struct {
		tier     string
		division string
		lp       int
		want     string
	}{
		"iron":       {"IRON", "IV", 12, "I4 12 LP"},
		"diamond":    {"DIAMOND", "I", 99, "D1 99 LP"},
		"master":     {"MASTER", "I", 210, "M 210 LP"},
		"challenger": {"CHALLENGER", "I", 1203, "C 1203 LP"},
		"unknown":    {"WOOD", "V", 3, "WV 3 LP"},
	}

	for intention, testCase := range cases {
		t.Run(intention, func(t *testing.T) {
			if got := compactRank(testCase.tier, testCase.division, testCase.lp); got != testCase.want {
				t.Errorf("compactRank() = `%s`, want `%s`", got, testCase.want)
			}
		})
	}
}

func TestRankPositionsSymmetric(t *testing.T) {
	left := Layout(0)
	right := Layout(5)

	leftBadge, leftText := rankPositions(left.Solo, left.Anchor, true)
	rightBadge, rightText := rankPositions(right.Solo, right.Anchor, true)

	if leftBadge.Y != rightBadge.Y || leftText.Y != rightText.Y {
		t.Errorf("rank rows differ: left (%v, %v), right (%v, %v)", leftBadge, leftText, rightBadge, rightText)
	}

	if got := leftText.X - left.Solo.X; got != badgeWidth+badgeGap {
		t.Errorf("left text offset = %d, want %d", got, badgeWidth+badgeGap)
	}

	if got := right.Solo.X - rightText.X; got != badgeWidth+badgeGap {
		t.Errorf("right text offset = %d, want %d", got, badgeWidth+badgeGap)
	}

	if got := rightBadge.X + badgeWidth; got != right.Solo.X {
		t.Errorf("right badge ends at %d, want %d", got, right.Solo.X)
	}

	if _, text := rankPositions(left.Flex, left.Anchor, false); text != (image.Pt(192, 188)) {
		t.Errorf("rankPositions() without badge = %v, want label point", text)
	}
}
