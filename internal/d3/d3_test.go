package d3

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-12

func TestSetBounds(t *testing.T) {
	s := Set{{X: 1, Y: -2, Z: 3}, {X: -4, Y: 5, Z: 0}, {X: 0, Y: 0, Z: -6}}
	b := s.Bounds()
	assert.Equal(t, r3.Vec{X: -4, Y: -2, Z: -6}, b.Min)
	assert.Equal(t, r3.Vec{X: 1, Y: 5, Z: 3}, b.Max)
	assert.Equal(t, 6.0, s.MaxAbs())
	assert.Equal(t, 0.0, Set{}.MaxAbs())
}

func TestEmptyBoxExtend(t *testing.T) {
	b := EmptyBox()
	assert.True(t, b.Empty())
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	b = b.Extend(Set{p}.Bounds())
	assert.False(t, b.Empty())
	assert.Equal(t, p, b.Min)
	assert.Equal(t, p, b.Max)
	assert.Equal(t, 0.0, b.Radius())
}

func TestBoxVertices(t *testing.T) {
	b := Box{Min: Elem(-1), Max: Elem(1)}
	assert.InDelta(t, math.Sqrt(3), b.Radius(), tol)
	assert.Equal(t, r3.Vec{}, b.Center())
	corners := b.Vertices()
	assert.Len(t, corners, 8)
	seen := make(map[r3.Vec]bool)
	for _, c := range corners {
		seen[c] = true
	}
	assert.Len(t, seen, 8, "corners are distinct")
	assert.Equal(t, b, corners.Bounds())
}

func TestTransformIdentity(t *testing.T) {
	var id Transform
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	assert.Equal(t, p, id.Transform(p))
	composed := ComposeTransform(r3.Vec{}, Elem(1), r3.Rotation{Real: 1})
	assert.InDeltaSlice(t, id.SliceCopy(), composed.SliceCopy(), tol)
}

func TestTransformScaleTranslate(t *testing.T) {
	center := r3.Vec{X: 1, Y: -1, Z: 0.5}
	tr := ComposeTransform(center, Elem(0.5), r3.Rotation{Real: 1})
	got := tr.Transform(r3.Vec{X: 1})
	assert.InDelta(t, 0, r3.Norm(r3.Sub(got, r3.Vec{X: 1.5, Y: -1, Z: 0.5})), tol, "got %v", got)
	dir := tr.TransformDir(r3.Vec{Z: 2})
	assert.InDelta(t, 0, r3.Norm(r3.Sub(dir, r3.Vec{Z: 1})), tol, "got %v", dir)
}

func TestColMajor32(t *testing.T) {
	tr := ComposeTransform(r3.Vec{X: 1, Y: 2, Z: 3}, Elem(1), r3.Rotation{Real: 1})
	cm := tr.ColMajor32()
	assert.Equal(t, float32(1), cm[12])
	assert.Equal(t, float32(2), cm[13])
	assert.Equal(t, float32(3), cm[14])
	assert.Equal(t, float32(1), cm[0])
	assert.Equal(t, float32(1), cm[15])
}
