package plot

import (
	"fmt"
	"image/color"
	"math/rand"

	"assaystat/internal/errors"
)

// Style is the complete look of a chart. Renderers copy it at
// construction; nothing is shared between renderers.
type Style struct {
	Fills    []color.Color // box and bar fills, cycled per group
	Lines    []color.Color // interaction lines, cycled per level
	Edge     color.Color
	Median   color.Color
	Points   color.Color
	JitterSD float64 // spread of raw points around their group position
	Seed     int64
	Width    int
	Height   int
}

var (
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	green = color.RGBA{G: 0x80, A: 0xff}
	red   = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	blue  = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	black = color.RGBA{A: 0xff}
)

// DefaultStyle is white and green boxes with green edges
func DefaultStyle() Style {
	return Style{
		Fills:    []color.Color{white, green},
		Lines:    []color.Color{red, blue},
		Edge:     green,
		Median:   color.RGBA{R: 0xff, G: 0x7f, A: 0xff},
		Points:   color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xb0},
		JitterSD: 0.1,
		Seed:     1,
		Width:    900,
		Height:   1500,
	}
}

// Validate checks sizes and palettes
func (s Style) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return errors.Newf(errors.CodeConfigInvalid, "plot size %dx%d must be positive", s.Width, s.Height)
	}
	if len(s.Fills) == 0 || len(s.Lines) == 0 {
		return errors.ConfigInvalid("plot style needs fill and line colors")
	}
	if s.JitterSD < 0 {
		return errors.ConfigInvalid("jitter spread cannot be negative")
	}
	return nil
}

// Fill returns the fill color of group i
func (s Style) Fill(i int) color.Color {
	return s.Fills[i%len(s.Fills)]
}

// Line returns the line color of level i
func (s Style) Line(i int) color.Color {
	return s.Lines[i%len(s.Lines)]
}

// jitter returns a fresh seeded source so that every chart of a run
// places its points identically
func (s Style) jitter() *rand.Rand {
	return rand.New(rand.NewSource(s.Seed))
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
