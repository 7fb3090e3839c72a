package render

import (
	"context"
	"image"

	"github.com/riftlens/riftlens/asset"
)

// Assets resolves batches of identities, output aligned with input and nil for absent ones
type Assets interface {
	Images(context.Context, []asset.Identity) []*image.RGBA
}

type championDraw struct {
	name string
	at   image.Point
}

type runePairDraw struct {
	primary int
	style   int
	// center is the horizontal center and the top of the pair
	center image.Point
}

type spellPairDraw struct {
	first  int
	second int
	at     image.Point
}

func drawChampions(ctx context.Context, canvas *Canvas, assets Assets, draws []championDraw) []bool {
	identities := make([]asset.Identity, len(draws))
	for i, item := range draws {
		identities[i] = asset.Named(asset.Champion, item.name)
	}

	images := assets.Images(ctx, identities)
	drawn := make([]bool, len(draws))

	for i, item := range draws {
		if images[i] == nil {
			continue
		}

		canvas.PasteCircle(images[i], item.at, ChampionSize)
		drawn[i] = true
	}

	return drawn
}

func runePairStart(center image.Point) int {
	return center.X - (PrimaryRuneSize+pairGap+StyleRuneSize)/2
}

// drawRunePairs draws the keystone then the secondary tree, vertically centered on the keystone
func drawRunePairs(ctx context.Context, canvas *Canvas, assets Assets, draws []runePairDraw) []bool {
	identities := make([]asset.Identity, 0, len(draws)*2)
	for _, item := range draws {
		identities = append(identities, asset.ID(asset.Rune, item.primary), asset.ID(asset.Rune, item.style))
	}

	images := assets.Images(ctx, identities)
	drawn := make([]bool, len(draws))

	for i, item := range draws {
		primary, style := images[i*2], images[i*2+1]
		x := runePairStart(item.center)

		if primary != nil {
			canvas.PasteScaled(primary, image.Pt(x, item.center.Y), PrimaryRuneSize, PrimaryRuneSize)
		}

		if style != nil {
			at := image.Pt(x+PrimaryRuneSize+pairGap, item.center.Y+(PrimaryRuneSize-StyleRuneSize)/2)
			canvas.PasteScaled(style, at, StyleRuneSize, StyleRuneSize)
		}

		drawn[i] = primary != nil && style != nil
	}

	return drawn
}

func drawSpellPairs(ctx context.Context, canvas *Canvas, assets Assets, draws []spellPairDraw) []bool {
	identities := make([]asset.Identity, 0, len(draws)*2)
	for _, item := range draws {
		identities = append(identities, asset.ID(asset.Spell, item.first), asset.ID(asset.Spell, item.second))
	}

	images := assets.Images(ctx, identities)
	drawn := make([]bool, len(draws))

	for i, item := range draws {
		first, second := images[i*2], images[i*2+1]

		if first != nil {
			canvas.PasteScaled(first, item.at, SpellSize, SpellSize)
		}

		if second != nil {
			canvas.PasteScaled(second, item.at.Add(image.Pt(SpellSize+pairGap, 0)), SpellSize, SpellSize)
		}

		drawn[i] = first != nil && second != nil
	}

	return drawn
}
