package sfmview

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"
)

// Axes is the coordinate frame glyph drawn at the origin: X red, Y green, Z blue.
type Axes struct {
	Length float64
}

var _ Renderable = Axes{}

// Actors returns a single Lines actor with the three axes.
func (ax Axes) Actors() []Actor {
	l := ax.Length
	if l <= 0 {
		l = 1
	}
	red := color.NRGBA{R: 255, A: 255}
	green := color.NRGBA{G: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	return []Actor{{
		Kind:     Lines,
		Vertices: []r3.Vec{{}, {X: l}, {}, {Y: l}, {}, {Z: l}},
		Colors:   []color.NRGBA{red, red, green, green, blue, blue},
	}}
}
