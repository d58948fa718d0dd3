// Package sfmview builds debug scenes for structure-from-motion and bundle
// adjustment output: point clouds drawn as pixels or small spheres, and camera
// poses drawn as frustum glyphs. Scenes are handed to a Viewer, either the
// interactive window in package glview or the headless renderer in package render.
package sfmview

import (
	"image/color"

	"github.com/pkg/errors"
	"github.com/soypat/sfmview/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrCapacity is returned when a bounded renderable is full and has no
	// overwrite policy.
	ErrCapacity = errors.New("renderable capacity exceeded")
	// ErrMismatchedInput is returned by the driver when input slices that
	// must be index aligned differ in length.
	ErrMismatchedInput = errors.New("mismatched input lengths")
	// ErrNonFinite is returned by the driver when a coordinate or the focal
	// length is NaN or infinite.
	ErrNonFinite = errors.New("non-finite input")
	// ErrNotImplemented is returned by the methods of Base.
	ErrNotImplemented = errors.New("not implemented")
)

// Renderable is anything that can be drawn in a scene.
type Renderable interface {
	// Actors returns a snapshot of the drawable primitives. The returned
	// actors must not be modified.
	Actors() []Actor
}

// PointCloud is a Renderable that accumulates points one at a time.
type PointCloud interface {
	Renderable
	// Clear erases all points.
	Clear()
	// AddObject adds a point. A nil color selects the default color
	// of the implementation.
	AddObject(p r3.Vec, c color.Color) error
	// Len returns the number of stored points.
	Len() int
}

// Base is embedded by partial PointCloud implementations. Methods the
// embedding type does not override draw nothing and reject points.
type Base struct{}

var _ PointCloud = Base{}

func (Base) Actors() []Actor { return nil }

func (Base) Clear() {}

func (Base) AddObject(r3.Vec, color.Color) error { return ErrNotImplemented }

func (Base) Len() int { return 0 }

// Kind is the primitive type of an Actor.
type Kind uint8

const (
	// Points draws each vertex as a single screen-space point.
	Points Kind = iota + 1
	// Lines draws a segment for each consecutive pair of vertices.
	Lines
	// LineStrip draws a connected polyline through the vertices.
	LineStrip
	// Triangles draws a filled triangle for each consecutive triple of vertices.
	Triangles
)

func (k Kind) String() string {
	switch k {
	case Points:
		return "points"
	case Lines:
		return "lines"
	case LineStrip:
		return "linestrip"
	case Triangles:
		return "triangles"
	}
	return "<unknown kind>"
}

// Actor is a single drawable primitive together with its appearance.
type Actor struct {
	Kind Kind
	// Vertices in model coordinates.
	Vertices []r3.Vec
	// Indices into Vertices. If nil the vertices are drawn in order.
	Indices []uint32
	// Normals per vertex. Only used for shading Triangles.
	Normals []r3.Vec
	// Colors holds one color per vertex or a single color for all vertices.
	// No colors means white.
	Colors []color.NRGBA
	// Scalars is an optional named per-vertex field. It is informational:
	// renderers shade from Colors, see PixelCloud.SetColorMode.
	Scalars     []float64
	ScalarName  string
	ScalarRange [2]float64
	// Transform takes model coordinates to world coordinates.
	Transform d3.Transform
	// PointSize is the size of Points in pixels. Zero means 1.
	PointSize float32
}

// VertexCount returns the number of vertices the actor draws.
func (a *Actor) VertexCount() int {
	if a.Indices != nil {
		return len(a.Indices)
	}
	return len(a.Vertices)
}

// Vertex returns the i'th drawn vertex in world coordinates.
func (a *Actor) Vertex(i int) r3.Vec {
	if a.Indices != nil {
		i = int(a.Indices[i])
	}
	return a.Transform.Transform(a.Vertices[i])
}

// Normal returns the i'th drawn normal in world coordinates, or the zero
// vector if the actor has no normals.
func (a *Actor) Normal(i int) r3.Vec {
	if len(a.Normals) == 0 {
		return r3.Vec{}
	}
	if a.Indices != nil {
		i = int(a.Indices[i])
	}
	n := a.Transform.TransformDir(a.Normals[i])
	if norm := r3.Norm(n); norm > 0 {
		n = r3.Scale(1/norm, n)
	}
	return n
}

// Color returns the color of the i'th drawn vertex.
func (a *Actor) Color(i int) color.NRGBA {
	switch len(a.Colors) {
	case 0:
		return white
	case 1:
		return a.Colors[0]
	}
	if a.Indices != nil {
		i = int(a.Indices[i])
	}
	return a.Colors[i]
}

// Bounds returns the world space bounding box of the actor. An actor
// without vertices returns an empty box.
func (a *Actor) Bounds() d3.Box {
	if len(a.Vertices) == 0 {
		return d3.EmptyBox()
	}
	b := d3.Set(a.Vertices).Bounds()
	if a.Transform == (d3.Transform{}) {
		return b
	}
	// The transformed corners enclose the transformed vertices for any affine transform.
	corners := b.Vertices()
	for i, c := range corners {
		corners[i] = a.Transform.Transform(c)
	}
	return corners.Bounds()
}

func cloneActor(a Actor) Actor {
	a.Vertices = append([]r3.Vec(nil), a.Vertices...)
	a.Colors = append([]color.NRGBA(nil), a.Colors...)
	a.Scalars = append([]float64(nil), a.Scalars...)
	if a.Indices != nil {
		a.Indices = append([]uint32(nil), a.Indices...)
	}
	return a
}
