package glview

import (
	"image/color"

	"github.com/go-gl/gl/all-core/gl"
	"github.com/soypat/sfmview"
)

// vertex is the interleaved layout uploaded to the GPU.
type vertex struct {
	pos    [3]float32
	rgba   [4]uint8
	normal [3]float32
}

// mesh holds the vertices of one actor in model coordinates. Indices are
// nil when the vertices are drawn in order.
type mesh struct {
	mode      uint32
	vertices  []vertex
	indices   []uint32
	pointSize float32
	model     [16]float32
}

func newMesh(a *sfmview.Actor) mesh {
	m := mesh{
		mode:      drawMode(a.Kind),
		vertices:  make([]vertex, len(a.Vertices)),
		indices:   a.Indices,
		pointSize: a.PointSize,
		model:     a.Transform.ColMajor32(),
	}
	if m.pointSize <= 0 {
		m.pointSize = 1
	}
	for j, v := range a.Vertices {
		vx := &m.vertices[j]
		vx.pos = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
		c := rawColor(a, j)
		vx.rgba = [4]uint8{c.R, c.G, c.B, c.A}
		if j < len(a.Normals) {
			n := a.Normals[j]
			vx.normal = [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}
		}
	}
	return m
}

// count returns the number of vertices drawn.
func (m *mesh) count() int32 {
	if m.indices != nil {
		return int32(len(m.indices))
	}
	return int32(len(m.vertices))
}

func drawMode(k sfmview.Kind) uint32 {
	switch k {
	case sfmview.Points:
		return gl.POINTS
	case sfmview.Lines:
		return gl.LINES
	case sfmview.LineStrip:
		return gl.LINE_STRIP
	case sfmview.Triangles:
		return gl.TRIANGLES
	}
	panic("unknown actor kind " + k.String())
}

// rawColor returns the color of the j'th stored vertex of a, ignoring indices.
func rawColor(a *sfmview.Actor, j int) color.NRGBA {
	switch len(a.Colors) {
	case 0:
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	case 1:
		return a.Colors[0]
	}
	return a.Colors[j]
}
