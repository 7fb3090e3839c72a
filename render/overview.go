package render

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/ViBiOh/flags"
	"github.com/ViBiOh/httputils/v4/pkg/telemetry"
	"github.com/google/uuid"
	"github.com/riftlens/riftlens/asset"
	"github.com/riftlens/riftlens/riot"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

//go:embed assets/overview.png
var embeddedTemplate []byte

var ErrNoTemplate = errors.New("no template loaded")

// RankFetcher provides the ranked standing of a player. Failures are carried by the standing status.
type RankFetcher interface {
	RankStanding(ctx context.Context, puuid, region string) riot.Standing
}

type Config struct {
	template *string
}

func Flags(fs *flag.FlagSet, prefix string, overrides ...flags.Override) *Config {
	return &Config{
		template: flags.New("Template", "Path of the overview background PNG, embedded one if blank").Prefix(prefix).DocPrefix("render").String(fs, "", overrides),
	}
}

// Compositor renders match overviews. It is safe for concurrent use, every render owning its canvas.
type Compositor struct {
	tracer   trace.Tracer
	assets   Assets
	ranks    RankFetcher
	template *image.RGBA
}

func New(config *Config, assets Assets, ranks RankFetcher, tracerProvider trace.TracerProvider) (Compositor, error) {
	content := embeddedTemplate

	if path := *config.template; len(path) != 0 {
		var err error

		content, err = os.ReadFile(path)
		if err != nil {
			return Compositor{}, fmt.Errorf("read template: %w", err)
		}
	}

	template, err := decodeTemplate(content)
	if err != nil {
		return Compositor{}, err
	}

	compositor := newCompositor(template, assets, ranks)

	if tracerProvider != nil {
		compositor.tracer = tracerProvider.Tracer("render")
	}

	return compositor, nil
}

func newCompositor(template *image.RGBA, assets Assets, ranks RankFetcher) Compositor {
	return Compositor{
		assets:   assets,
		ranks:    ranks,
		template: template,
	}
}

func decodeTemplate(content []byte) (*image.RGBA, error) {
	img, err := png.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}

	return asset.ToRGBA(img), nil
}

// Render the overview of a match, region being the one of the tracked player
func (c Compositor) Render(ctx context.Context, match riot.Match, region string) ([]byte, error) {
	return c.RenderParticipants(ctx, match.Participants(), region)
}

// RenderParticipants draws the participants on a copy of the template and encodes it as PNG.
// Missing sprites and ranks degrade the image, only template and encoding failures are errors.
func (c Compositor) RenderParticipants(ctx context.Context, participants []riot.Participant, region string) (output []byte, err error) {
	if c.template == nil {
		return nil, ErrNoTemplate
	}

	ctx, end := telemetry.StartSpan(ctx, c.tracer, "render")
	defer end(&err)

	renderID := uuid.NewString()
	start := time.Now()

	faces, err := newTypefaces()
	if err != nil {
		return nil, fmt.Errorf("typefaces: %w", err)
	}

	defer func() {
		if closeErr := faces.Close(); closeErr != nil {
			slog.LogAttrs(ctx, slog.LevelWarn, "close typefaces", slog.String("render_id", renderID), slog.Any("error", closeErr))
		}
	}()

	if len(participants) > MaxParticipants {
		participants = participants[:MaxParticipants]
	}

	canvas := newCanvas(c.template)
	layouts := Layouts(len(participants))

	champions := make([]championDraw, len(participants))
	runes := make([]runePairDraw, len(participants))
	spells := make([]spellPairDraw, len(participants))

	for i, participant := range participants {
		layout := layouts[i]

		champions[i] = championDraw{name: participant.ChampionName, at: layout.Champion}
		runes[i] = runePairDraw{primary: participant.PrimaryRune(), style: participant.SecondaryStyle(), center: layout.Runes}
		spells[i] = spellPairDraw{first: participant.Summoner1ID, second: participant.Summoner2ID, at: layout.Spells}

		drawText(canvas.Image(), faces.name, layout.Name, layout.Anchor, participant.RiotIDGameName, white)
	}

	var championsDrawn, runesDrawn, spellsDrawn []bool
	standings := make([]riot.Standing, len(participants))

	var group errgroup.Group

	group.Go(func() error {
		championsDrawn = drawChampions(ctx, canvas, c.assets, champions)
		return nil
	})

	group.Go(func() error {
		runesDrawn = drawRunePairs(ctx, canvas, c.assets, runes)
		return nil
	})

	group.Go(func() error {
		spellsDrawn = drawSpellPairs(ctx, canvas, c.assets, spells)
		return nil
	})

	for i, participant := range participants {
		group.Go(func() error {
			standings[i] = c.standing(ctx, participant.PUUID, region)
			return nil
		})
	}

	_ = group.Wait()

	missingBadges := drawRanks(ctx, canvas, faces, c.assets, layouts, standings)

	var buffer bytes.Buffer

	encoder := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := encoder.Encode(&buffer, canvas.Image()); err != nil {
		return nil, fmt.Errorf("encode overview: %w", err)
	}

	slog.LogAttrs(ctx, slog.LevelInfo, "overview rendered",
		slog.String("render_id", renderID),
		slog.Int("participants", len(participants)),
		slog.Int("missing_champions", countMissing(championsDrawn)),
		slog.Int("missing_runes", countMissing(runesDrawn)),
		slog.Int("missing_spells", countMissing(spellsDrawn)),
		slog.Int("missing_badges", missingBadges),
		slog.Duration("duration", time.Since(start)),
	)

	return buffer.Bytes(), nil
}

func (c Compositor) standing(ctx context.Context, puuid, region string) riot.Standing {
	if c.ranks == nil {
		return riot.Standing{Status: riot.StatusError}
	}

	return c.ranks.RankStanding(ctx, puuid, region)
}

func countMissing(drawn []bool) int {
	var count int

	for _, ok := range drawn {
		if !ok {
			count++
		}
	}

	return count
}
