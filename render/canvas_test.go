package render

import (
	"image"
	"image/color"
	"testing"
)

func uniform(width, height int, fill color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = fill.R
		img.Pix[i+1] = fill.G
		img.Pix[i+2] = fill.B
		img.Pix[i+3] = fill.A
	}

	return img
}

var (
	black = color.RGBA{A: 255}
	red   = color.RGBA{R: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

func TestCircleMask(t *testing.T) {
	mask := circle{diameter: ChampionSize}

	cases := map[string]struct {
		x, y int
		want uint8
	}{
		"center":       {40, 40, 255},
		"top left":     {0, 0, 0},
		"bottom right": {79, 79, 0},
		"edge middle":  {2, 40, 255},
		"near corner":  {8, 8, 0},
	}

	for intention, testCase := range cases {
		t.Run(intention, func(t *testing.T) {
			if got := mask.At(testCase.x, testCase.y).(color.Alpha).A; got != testCase.want {
				t.Errorf("At(%d, %d) = %d, want %d", testCase.x, testCase.y, got, testCase.want)
			}
		})
	}
}

func TestPasteCircle(t *testing.T) {
	canvas := newCanvas(uniform(200, 200, black))

	canvas.PasteCircle(uniform(ChampionSize, ChampionSize, red), image.Pt(100, 100), ChampionSize)

	if got := canvas.Image().RGBAAt(140, 140); got != red {
		t.Errorf("center = %v, want %v", got, red)
	}

	if got := canvas.Image().RGBAAt(100, 100); got != black {
		t.Errorf("corner = %v, want %v", got, black)
	}

	if got := canvas.Image().RGBAAt(99, 140); got != black {
		t.Errorf("outside = %v, want %v", got, black)
	}
}

func TestNewCanvasCopiesTemplate(t *testing.T) {
	template := uniform(10, 10, black)

	canvas := newCanvas(template)
	canvas.Paste(uniform(2, 2, red), image.Pt(0, 0))

	if got := template.RGBAAt(0, 0); got != black {
		t.Errorf("template modified: %v", got)
	}

	if got := canvas.Image().RGBAAt(1, 1); got != red {
		t.Errorf("canvas = %v, want %v", got, red)
	}
}
