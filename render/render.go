// Package render holds the camera model shared by the viewers and a headless
// software renderer that draws scenes to images.
package render

import (
	"image/color"
	"math"

	"github.com/soypat/sfmview/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultFovy is the default vertical field of view in degrees.
const DefaultFovy = 30

// View is a perspective camera.
type View struct {
	// where the camera/eye is located (point)
	Eye r3.Vec
	// what position (point) to look at
	Center r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// vertical field of view in degrees
	Fovy      float64
	Near, Far float64
}

// Frame returns a view looking down the -Z axis at the center of b from
// far enough away that the sphere enclosing b fits the field of view.
// An empty or degenerate box is framed as a unit sphere.
func Frame(b d3.Box, fovy float64) View {
	if fovy <= 0 || fovy >= 180 {
		fovy = DefaultFovy
	}
	center := r3.Vec{}
	radius := 1.0
	if !b.Empty() {
		center = b.Center()
		if r := b.Radius(); r > 0 {
			radius = r
		}
	}
	dist := radius / math.Sin(0.5*fovy*math.Pi/180)
	v := View{
		Eye:    r3.Add(center, r3.Vec{Z: dist}),
		Center: center,
		Up:     r3.Vec{Y: 1},
		Fovy:   fovy,
	}
	v.Near, v.Far = clipRange(dist, radius)
	return v
}

// clipRange returns near and far clipping planes for a camera dist away
// from the center of a sphere of the given radius.
func clipRange(dist, radius float64) (near, far float64) {
	near = math.Max(dist-2*radius, 1e-3*dist)
	far = dist + 2*radius
	return near, far
}

// Config describes the image produced by the headless renderer.
type Config struct {
	Width, Height int
	Background    color.NRGBA
	// vertical field of view in degrees
	Fovy float64
	// Supersample renders at this multiple of the output size and
	// downsamples for antialiasing. Values below 2 disable it.
	Supersample int
}

// DefaultConfig returns a 768x432 black background configuration.
func DefaultConfig() Config {
	return Config{
		Width:       768,
		Height:      432,
		Background:  color.NRGBA{A: 255},
		Fovy:        DefaultFovy,
		Supersample: 2,
	}
}
