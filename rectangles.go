package sfmview

import (
	"image/color"

	"github.com/pkg/errors"
	"github.com/soypat/sfmview/bundle"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultRectMax is the default capacity of OrientedRectangles.
	DefaultRectMax = 100
	// DefaultRectSize is the default half-width, half-height and focal
	// offset of a camera glyph.
	DefaultRectSize = 0.03
)

// frustumStrip connects the glyph vertices: the image plane rectangle
// 0-1-2-3-0 followed by the fan from the corners to the focal vertex 4.
var frustumStrip = []uint32{0, 1, 2, 3, 0, 4, 3, 4, 2, 4, 1, 4}

// OrientedRectangles draws camera poses as frustum glyphs: a rectangle
// representing the image plane and lines from its corners to a focal vertex
// behind it. A full OrientedRectangles rejects new glyphs with ErrCapacity.
type OrientedRectangles struct {
	maxNum int
	width  float64
	height float64
	focal  float64
	color  color.NRGBA
	actors []Actor
}

var _ Renderable = (*OrientedRectangles)(nil)

// NewOrientedRectangles returns an empty glyph set holding at most maxNum glyphs
// with half-width w, half-height h and focal vertex offset f.
func NewOrientedRectangles(maxNum int, w, h, f float64) *OrientedRectangles {
	if maxNum < 1 {
		panic("OrientedRectangles capacity must be positive")
	}
	return &OrientedRectangles{
		maxNum: maxNum,
		width:  w,
		height: h,
		focal:  f,
		color:  white,
	}
}

// SetColor sets the color of glyphs added afterwards.
func (or *OrientedRectangles) SetColor(c color.Color) { or.color = toNRGBA(c) }

// Cap returns the maximum number of glyphs stored.
func (or *OrientedRectangles) Cap() int { return or.maxNum }

// Len returns the number of glyphs stored.
func (or *OrientedRectangles) Len() int { return len(or.actors) }

// Glyph returns the glyph vertices for a camera at position with orientation
// rot: the corners (-w,-h), (+w,-h), (+w,+h), (-w,+h) in the camera plane
// followed by the focal vertex at -f along the camera axis. Offsets are rotated
// by rot about position; a nil rot is the identity. If focalLength is
// positive it replaces the half-width and half-height of this glyph.
func (or *OrientedRectangles) Glyph(position r3.Vec, rot bundle.Rotation, focalLength float64) [5]r3.Vec {
	w, h := or.width, or.height
	if focalLength > 0 {
		w, h = focalLength, focalLength
	}
	p := position
	local := []r3.Vec{
		{X: p.X - w, Y: p.Y - h, Z: p.Z},
		{X: p.X + w, Y: p.Y - h, Z: p.Z},
		{X: p.X + w, Y: p.Y + h, Z: p.Z},
		{X: p.X - w, Y: p.Y + h, Z: p.Z},
		{X: p.X, Y: p.Y, Z: p.Z - or.focal},
	}
	world := bundle.RotateAbout(local, p, rot)
	var g [5]r3.Vec
	copy(g[:], world)
	return g
}

// AddRect adds a glyph for a camera at position with orientation rot.
// See Glyph for the meaning of focalLength.
func (or *OrientedRectangles) AddRect(position r3.Vec, rot bundle.Rotation, focalLength float64) error {
	if len(or.actors) >= or.maxNum {
		return errors.Wrapf(ErrCapacity, "too many oriented rectangles to render (max %d)", or.maxNum)
	}
	g := or.Glyph(position, rot, focalLength)
	or.actors = append(or.actors, Actor{
		Kind:     LineStrip,
		Vertices: g[:],
		Indices:  frustumStrip,
		Colors:   []color.NRGBA{or.color},
	})
	return nil
}

// Clear discards all glyphs.
func (or *OrientedRectangles) Clear() { or.actors = nil }

// Actors returns one LineStrip actor per glyph.
func (or *OrientedRectangles) Actors() []Actor {
	return append([]Actor(nil), or.actors...)
}
