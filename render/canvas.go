package render

import (
	"image"
	"image/color"
	"math"

	"github.com/riftlens/riftlens/asset"
	"golang.org/x/image/draw"
)

// Canvas is the bitmap of a single render. Drawers of that render paste into disjoint regions.
type Canvas struct {
	img *image.RGBA
}

func newCanvas(template *image.RGBA) *Canvas {
	img := image.NewRGBA(template.Bounds())
	copy(img.Pix, template.Pix)

	return &Canvas{img: img}
}

func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Paste draws img over the canvas with its top-left corner at the given point
func (c *Canvas) Paste(img image.Image, at image.Point) {
	bounds := img.Bounds()
	draw.Draw(c.img, image.Rectangle{Min: at, Max: at.Add(bounds.Size())}, img, bounds.Min, draw.Over)
}

// PasteScaled scales img to the given size before pasting it
func (c *Canvas) PasteScaled(img *image.RGBA, at image.Point, width, height int) {
	c.Paste(asset.Scale(img, width, height), at)
}

// PasteCircle scales img to the given square size and pastes only its inscribed circle
func (c *Canvas) PasteCircle(img *image.RGBA, at image.Point, size int) {
	scaled := asset.Scale(img, size, size)
	target := image.Rectangle{Min: at, Max: at.Add(image.Pt(size, size))}

	draw.DrawMask(c.img, target, scaled, scaled.Bounds().Min, circle{diameter: size}, image.Point{}, draw.Over)
}

// circle is an alpha mask of a disc inscribed in a square starting at the origin, with an antialiased edge
type circle struct {
	diameter int
}

func (c circle) ColorModel() color.Model {
	return color.AlphaModel
}

func (c circle) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.diameter, c.diameter)
}

func (c circle) At(x, y int) color.Color {
	radius := float64(c.diameter) / 2
	distance := math.Hypot(float64(x)+0.5-radius, float64(y)+0.5-radius)

	coverage := min(max(radius-distance+0.5, 0), 1)

	return color.Alpha{A: uint8(coverage * math.MaxUint8)}
}
