package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const shadowOffset = 2

var (
	white  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	shadow = color.RGBA{A: 255}
)

type fonts struct {
	bold    *opentype.Font
	regular *opentype.Font
}

var parsedFonts = sync.OnceValues(func() (fonts, error) {
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return fonts{}, fmt.Errorf("parse bold: %w", err)
	}

	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return fonts{}, fmt.Errorf("parse regular: %w", err)
	}

	return fonts{bold: bold, regular: regular}, nil
})

// typefaces are the faces of one render, a font.Face is not safe for concurrent use
type typefaces struct {
	name font.Face
	rank font.Face
}

func newTypefaces() (typefaces, error) {
	parsed, err := parsedFonts()
	if err != nil {
		return typefaces{}, err
	}

	name, err := newFace(parsed.bold, nameSize)
	if err != nil {
		return typefaces{}, fmt.Errorf("name face: %w", err)
	}

	rank, err := newFace(parsed.regular, rankSize)
	if err != nil {
		return typefaces{}, errors.Join(fmt.Errorf("rank face: %w", err), name.Close())
	}

	return typefaces{name: name, rank: rank}, nil
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func (t typefaces) Close() error {
	return errors.Join(t.name.Close(), t.rank.Close())
}

// drawText writes text with a drop shadow, y being the top of the text
func drawText(dst *image.RGBA, face font.Face, at image.Point, anchor Anchor, text string, fill color.Color) {
	if len(text) == 0 {
		return
	}

	x := fixed.I(at.X)
	if anchor == AnchorRight {
		x -= font.MeasureString(face, text)
	}

	dot := fixed.Point26_6{X: x, Y: fixed.I(at.Y) + face.Metrics().Ascent}

	drawer := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(shadow),
		Face: face,
		Dot:  dot.Add(fixed.P(shadowOffset, shadowOffset)),
	}
	drawer.DrawString(text)

	drawer.Src = image.NewUniform(fill)
	drawer.Dot = dot
	drawer.DrawString(text)
}
