package sfmview

import (
	"image/color"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultPixelMax is the default capacity of a PixelCloud.
	DefaultPixelMax = 1_000_000
	// depthScalarName names the depth field attached to PixelCloud actors.
	depthScalarName = "DepthArray"
)

// ColorMode selects how a PixelCloud is shaded.
type ColorMode uint8

const (
	// ColorExplicit shades each point with the color it was added with.
	ColorExplicit ColorMode = iota
	// ColorDepth shades each point by its depth (z coordinate at insertion)
	// through a colormap spanning the scalar range.
	ColorDepth
)

// PixelCloud draws each point as a single pixel. It is the fastest way
// to draw many points, but individual points are hard to see.
//
// Once full, each new point overwrites the coordinates of a uniformly random
// existing point. The color and depth of the overwritten slot are kept.
type PixelCloud struct {
	maxNum     int
	points     []r3.Vec
	depth      []float64
	colors     []color.NRGBA
	cells      []uint32
	scalarName string
	zmin, zmax float64
	mode       ColorMode
	rng        *rand.Rand
}

var _ PointCloud = (*PixelCloud)(nil)

// NewPixelCloud returns an empty PixelCloud holding at most maxNum points.
// The depth scalar range defaults to [-1, 1].
func NewPixelCloud(maxNum int) *PixelCloud {
	if maxNum < 1 {
		panic("PixelCloud capacity must be positive")
	}
	pc := &PixelCloud{
		maxNum: maxNum,
		zmin:   -1,
		zmax:   1,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	pc.Clear()
	return pc
}

// SetRand sets the source used to pick overwritten slots once the cloud is full.
func (pc *PixelCloud) SetRand(rng *rand.Rand) { pc.rng = rng }

// SetScalarRange sets the depth range mapped to the colormap ends.
func (pc *PixelCloud) SetScalarRange(zmin, zmax float64) {
	pc.zmin, pc.zmax = zmin, zmax
}

// SetColorMode chooses between explicit colors (the default) and depth shading.
func (pc *PixelCloud) SetColorMode(mode ColorMode) { pc.mode = mode }

// Cap returns the maximum number of points stored.
func (pc *PixelCloud) Cap() int { return pc.maxNum }

// Len returns the number of points stored.
func (pc *PixelCloud) Len() int { return len(pc.points) }

// AddObject adds p to the cloud. If c is nil the point is colored by its
// direction from the origin. AddObject never fails.
func (pc *PixelCloud) AddObject(p r3.Vec, c color.Color) error {
	var rgb color.NRGBA
	if c == nil {
		rgb = directionColor(p)
	} else {
		rgb = toNRGBA(c)
	}
	if len(pc.points) < pc.maxNum {
		pc.cells = append(pc.cells, uint32(len(pc.points)))
		pc.points = append(pc.points, p)
		pc.depth = append(pc.depth, p.Z)
		pc.colors = append(pc.colors, rgb)
		return nil
	}
	pc.points[pc.rng.Intn(pc.maxNum)] = p
	return nil
}

// Clear erases all points and makes depth the active scalar field.
func (pc *PixelCloud) Clear() {
	pc.points = nil
	pc.cells = nil
	pc.depth = nil
	pc.colors = nil
	pc.scalarName = depthScalarName
}

// Actors returns a single Points actor with one vertex cell per point.
func (pc *PixelCloud) Actors() []Actor {
	a := Actor{
		Kind:        Points,
		Vertices:    pc.points,
		Indices:     pc.cells,
		Scalars:     pc.depth,
		ScalarName:  pc.scalarName,
		ScalarRange: [2]float64{pc.zmin, pc.zmax},
		PointSize:   1,
	}
	switch pc.mode {
	case ColorDepth:
		a.Colors = scalarColors(pc.depth, pc.zmin, pc.zmax)
	default:
		a.Colors = pc.colors
	}
	return []Actor{cloneActor(a)}
}
