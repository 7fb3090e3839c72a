package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/riftlens/riftlens/asset"
	"github.com/riftlens/riftlens/riot"
)

const (
	unranked = "Unranked"

	badgeWidth  = 32
	badgeHeight = 18
	badgeGap    = 4
	badgeShiftY = -3
)

var tierAbbreviations = map[string]string{
	"IRON":        "I",
	"BRONZE":      "B",
	"SILVER":      "S",
	"GOLD":        "G",
	"PLATINUM":    "P",
	"EMERALD":     "E",
	"DIAMOND":     "D",
	"MASTER":      "M",
	"GRANDMASTER": "GM",
	"CHALLENGER":  "C",
}

var divisions = map[string]int{
	"I":   1,
	"II":  2,
	"III": 3,
	"IV":  4,
}

var apexTiers = map[string]bool{
	"MASTER":      true,
	"GRANDMASTER": true,
	"CHALLENGER":  true,
}

var tierColors = map[string]color.RGBA{
	"IRON":        {R: 75, G: 75, B: 75, A: 255},
	"BRONZE":      {R: 200, G: 136, B: 73, A: 255},
	"SILVER":      {R: 192, G: 192, B: 192, A: 255},
	"GOLD":        {R: 255, G: 215, A: 255},
	"PLATINUM":    {R: 37, G: 150, B: 190, A: 255},
	"EMERALD":     {G: 200, B: 100, A: 255},
	"DIAMOND":     {R: 185, G: 242, B: 255, A: 255},
	"MASTER":      {R: 155, G: 89, B: 182, A: 255},
	"GRANDMASTER": {R: 231, G: 76, B: 60, A: 255},
	"CHALLENGER":  {R: 241, G: 196, B: 15, A: 255},
}

type rankLine struct {
	text  string
	tier  string
	color color.RGBA
}

func (r rankLine) hasBadge() bool {
	return len(r.tier) != 0
}

// rankLines plans the solo and flex lines of a standing
func rankLines(standing riot.Standing) [2]rankLine {
	if standing.Status != riot.StatusOK {
		status := string(standing.Status)
		if len(status) == 0 {
			status = string(riot.StatusError)
		}

		line := rankLine{text: status, color: white}
		return [2]rankLine{line, line}
	}

	return [2]rankLine{entryLine(standing.Solo), entryLine(standing.Flex)}
}

func entryLine(entry *riot.LeagueEntry) rankLine {
	if entry == nil || len(entry.Tier) == 0 {
		return rankLine{text: unranked, color: white}
	}

	tier := strings.ToUpper(entry.Tier)

	tierColor, ok := tierColors[tier]
	if !ok {
		tierColor = white
	}

	return rankLine{
		text:  compactRank(tier, entry.Rank, entry.LeaguePoints),
		tier:  tier,
		color: tierColor,
	}
}

// compactRank formats a rank as `G2 45 LP`, apex tiers having no division
func compactRank(tier, division string, leaguePoints int) string {
	abbreviation, ok := tierAbbreviations[tier]
	if !ok && len(tier) > 0 {
		abbreviation = tier[:1]
	}

	if !apexTiers[tier] {
		if number, ok := divisions[division]; ok {
			abbreviation = fmt.Sprintf("%s%d", abbreviation, number)
		} else {
			abbreviation += division
		}
	}

	return fmt.Sprintf("%s %d LP", abbreviation, leaguePoints)
}

// rankPositions returns where the badge and the text of a line go, mirrored on the right side
func rankPositions(point image.Point, anchor Anchor, badge bool) (image.Point, image.Point) {
	if !badge {
		return image.Point{}, point
	}

	if anchor == AnchorRight {
		return image.Pt(point.X-badgeWidth, point.Y+badgeShiftY), image.Pt(point.X-badgeWidth-badgeGap, point.Y)
	}

	return image.Pt(point.X, point.Y+badgeShiftY), image.Pt(point.X+badgeWidth+badgeGap, point.Y)
}

// drawRanks draws the rank lines of every participant, badges being fetched in one batch.
// It must be called from the goroutine owning the faces.
func drawRanks(ctx context.Context, canvas *Canvas, faces typefaces, assets Assets, layouts []ParticipantLayout, standings []riot.Standing) int {
	plans := make([][2]rankLine, len(standings))

	var identities []asset.Identity
	for i, standing := range standings {
		plans[i] = rankLines(standing)

		for _, line := range plans[i] {
			if line.hasBadge() {
				identities = append(identities, asset.Named(asset.Rank, line.tier))
			}
		}
	}

	var badges []*image.RGBA
	if len(identities) != 0 {
		badges = assets.Images(ctx, identities)
	}

	var badgeIndex, missing int

	for i, plan := range plans {
		layout := layouts[i]

		for queue, line := range plan {
			point := layout.Solo
			if queue == 1 {
				point = layout.Flex
			}

			badgeAt, textAt := rankPositions(point, layout.Anchor, line.hasBadge())

			if line.hasBadge() {
				if badge := badges[badgeIndex]; badge != nil {
					canvas.PasteScaled(badge, badgeAt, badgeWidth, badgeHeight)
				} else {
					missing++
				}

				badgeIndex++
			}

			drawText(canvas.Image(), faces.rank, textAt, layout.Anchor, line.text, line.color)
		}
	}

	return missing
}
