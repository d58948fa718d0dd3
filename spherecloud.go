package sfmview

import (
	"image/color"
	"sync"

	"github.com/fogleman/fauxgl"
	"github.com/pkg/errors"
	"github.com/soypat/sfmview/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultSphereMax is the default capacity of a SphereCloud.
	DefaultSphereMax = 500
	// DefaultSphereRadius is the default radius of SphereCloud spheres.
	DefaultSphereRadius = 0.003
	// sphereDetail is the number of icosahedron subdivisions of the sphere mesh.
	sphereDetail = 2
)

// SphereCloud draws every point as a small sphere. Spheres are easier to see
// than pixels but much more expensive to draw. A full SphereCloud rejects
// new points with ErrCapacity.
type SphereCloud struct {
	maxNum int
	radius float64
	actors []Actor
}

var _ PointCloud = (*SphereCloud)(nil)

// NewSphereCloud returns an empty SphereCloud holding at most maxNum spheres
// of the given radius.
func NewSphereCloud(maxNum int, radius float64) *SphereCloud {
	if maxNum < 1 {
		panic("SphereCloud capacity must be positive")
	}
	if radius <= 0 {
		panic("SphereCloud radius must be positive")
	}
	return &SphereCloud{maxNum: maxNum, radius: radius}
}

// Cap returns the maximum number of spheres stored.
func (sc *SphereCloud) Cap() int { return sc.maxNum }

// Len returns the number of spheres stored.
func (sc *SphereCloud) Len() int { return len(sc.actors) }

// AddObject adds a sphere centered at p. If c is nil the sphere is colored
// by its position as 0.7*p + 0.3, which suits scenes normalized to [-1,1].
func (sc *SphereCloud) AddObject(p r3.Vec, c color.Color) error {
	if len(sc.actors) >= sc.maxNum {
		return errors.Wrapf(ErrCapacity, "too many spheres to render (max %d)", sc.maxNum)
	}
	var rgb color.NRGBA
	if c == nil {
		rgb = positionColor(p)
	} else {
		rgb = toNRGBA(c)
	}
	verts, normals := unitSphere()
	sc.actors = append(sc.actors, Actor{
		Kind:      Triangles,
		Vertices:  verts,
		Normals:   normals,
		Colors:    []color.NRGBA{rgb},
		Transform: d3.ComposeTransform(p, d3.Elem(sc.radius), r3.Rotation{Real: 1}),
	})
	return nil
}

// Clear discards all spheres.
func (sc *SphereCloud) Clear() { sc.actors = nil }

// Actors returns one Triangles actor per sphere. The sphere mesh is shared
// between actors.
func (sc *SphereCloud) Actors() []Actor {
	return append([]Actor(nil), sc.actors...)
}

var sphereMesh struct {
	once     sync.Once
	vertices []r3.Vec
	normals  []r3.Vec
}

// unitSphere returns the triangle soup of a radius 1 sphere at the origin
// and its normals. The slices are shared and must not be modified.
func unitSphere() (vertices, normals []r3.Vec) {
	sphereMesh.once.Do(func() {
		mesh := fauxgl.NewSphere(sphereDetail)
		n := 3 * len(mesh.Triangles)
		sphereMesh.vertices = make([]r3.Vec, 0, n)
		sphereMesh.normals = make([]r3.Vec, 0, n)
		for _, t := range mesh.Triangles {
			for _, v := range [3]fauxgl.Vertex{t.V1, t.V2, t.V3} {
				u := r3.Unit(r3.Vec{X: v.Position.X, Y: v.Position.Y, Z: v.Position.Z})
				sphereMesh.vertices = append(sphereMesh.vertices, u)
				sphereMesh.normals = append(sphereMesh.normals, u)
			}
		}
	})
	return sphereMesh.vertices, sphereMesh.normals
}
