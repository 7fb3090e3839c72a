package asset

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Decoded sizes kept in cache for categories whose sources are much larger than drawn
const (
	RankBadgeWidth  = 128
	RankBadgeHeight = 72
	RuneIconSize    = 64
)

// Resolver turns identities into bitmaps, through the cache, the lookup tables and the fetcher.
// Failures are never returned: an unresolved asset is reported as absent.
type Resolver struct {
	cache      *Cache
	lookups    *Lookups
	group      singleflight.Group
	fetcher    Fetcher
	sources    Sources
	batchLimit int
}

func NewResolver(cache *Cache, lookups *Lookups, fetcher Fetcher, sources Sources, batchLimit int) *Resolver {
	return &Resolver{
		cache:      cache,
		lookups:    lookups,
		fetcher:    fetcher,
		sources:    sources,
		batchLimit: batchLimit,
	}
}

func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Image resolves one asset, false when it cannot be fetched or decoded
func (r *Resolver) Image(ctx context.Context, identity Identity) (*image.RGBA, bool) {
	if img, ok := r.cache.Get(identity); ok {
		return img, true
	}

	// Shared by every waiting caller: the first one's cancellation must not fail the others.
	flightCtx := context.WithoutCancel(ctx)

	value, _, _ := r.group.Do(identity.String(), func() (any, error) {
		return r.resolve(flightCtx, identity), nil
	})

	img, _ := value.(*image.RGBA)

	return img, img != nil
}

// Images resolves all identities concurrently. Output is aligned with input, nil where absent.
func (r *Resolver) Images(ctx context.Context, identities []Identity) []*image.RGBA {
	output := make([]*image.RGBA, len(identities))

	var group errgroup.Group
	if r.batchLimit > 0 {
		group.SetLimit(r.batchLimit)
	}

	for i, identity := range identities {
		group.Go(func() error {
			output[i], _ = r.Image(ctx, identity)
			return nil
		})
	}

	_ = group.Wait()

	return output
}

func (r *Resolver) resolve(ctx context.Context, identity Identity) *image.RGBA {
	if img, ok := r.cache.Get(identity); ok {
		return img
	}

	var lookup tables

	needRunes, needSpells := needs(identity.Category)
	if needRunes {
		lookup.runes = r.lookups.Runes(ctx)
	}
	if needSpells {
		lookup.spells = r.lookups.Spells(ctx)
	}

	url, ok := sourceURL(r.sources, lookup, identity)
	if !ok {
		slog.LogAttrs(ctx, slog.LevelWarn, "no source for asset", slog.String("asset", identity.String()))
		return nil
	}

	payload, err := r.fetcher.Bytes(ctx, url)
	if err != nil {
		slog.LogAttrs(ctx, slog.LevelWarn, "fetch asset", slog.String("asset", identity.String()), slog.Any("error", err))
		return nil
	}

	decoded, _, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		slog.LogAttrs(ctx, slog.LevelWarn, "decode asset", slog.String("asset", identity.String()), slog.Any("error", err))
		return nil
	}

	img := shrink(identity.Category, ToRGBA(decoded))
	r.cache.Put(identity, img)

	slog.LogAttrs(ctx, slog.LevelDebug, "asset cached", slog.String("asset", identity.String()), slog.Int("entries", r.cache.Len()))

	return img
}

func shrink(category Category, img *image.RGBA) *image.RGBA {
	switch category {
	case Rank:
		return Scale(img, RankBadgeWidth, RankBadgeHeight)
	case Rune:
		return Scale(img, RuneIconSize, RuneIconSize)
	default:
		return img
	}
}

// ToRGBA returns img as an RGBA bitmap whose bounds start at the origin
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}

	bounds := img.Bounds()
	output := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(output, output.Bounds(), img, bounds.Min, draw.Src)

	return output
}

// Scale resamples img to the given size, returning img itself when already sized
func Scale(img *image.RGBA, width, height int) *image.RGBA {
	if size := img.Bounds().Size(); size.X == width && size.Y == height {
		return img
	}

	output := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(output, output.Bounds(), img, img.Bounds(), draw.Src, nil)

	return output
}
