package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"github.com/soypat/sfmview"
	"gonum.org/v1/gonum/spatial/r3"
)

// Snapshot draws the scene framed by its bounding box.
func Snapshot(scene sfmview.Scene, cfg Config) (image.Image, error) {
	return SnapshotView(scene, Frame(scene.Bounds(), cfg.Fovy), cfg)
}

// SnapshotView draws the scene as seen from v. Triangles are lit by a light
// at the eye, lines are unlit and points are drawn last over everything else.
func SnapshotView(scene sfmview.Scene, v View, cfg Config) (image.Image, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.Errorf("invalid image size %dx%d", cfg.Width, cfg.Height)
	}
	if v.Near <= 0 || v.Far <= v.Near {
		return nil, errors.Errorf("invalid clipping range [%g, %g]", v.Near, v.Far)
	}
	ss := cfg.Supersample
	if ss < 1 {
		ss = 1
	}
	width, height := cfg.Width*ss, cfg.Height*ss

	var (
		eye    = fauxV(v.Eye)
		center = fauxV(v.Center)
		up     = fauxV(v.Up)
		aspect = float64(width) / float64(height)
	)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(v.Fovy, aspect, v.Near, v.Far)
	ctx := fauxgl.NewContext(width, height)
	ctx.ClearColorBufferWith(fauxColor(cfg.Background))
	ctx.Cull = fauxgl.CullNone
	ctx.LineWidth = float64(ss)
	ctx.Shader = &headlightShader{
		matrix: matrix,
		light:  eye.Sub(center).Normalize(),
	}

	actors := scene.Actors()
	for i := range actors {
		a := &actors[i]
		switch a.Kind {
		case sfmview.Triangles:
			ctx.DrawTriangles(triangles(a))
		case sfmview.Lines, sfmview.LineStrip:
			ctx.DrawLines(lines(a))
		case sfmview.Points:
		default:
			return nil, errors.Errorf("actor %d: unknown kind %v", i, a.Kind)
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), ctx.Image(), image.Point{}, draw.Src)
	for i := range actors {
		if actors[i].Kind == sfmview.Points {
			drawPoints(img, &actors[i], matrix, ss)
		}
	}
	if ss == 1 {
		return img, nil
	}
	// downsample image for antialiasing
	return resize.Resize(uint(cfg.Width), uint(cfg.Height), img, resize.Bilinear), nil
}

// SavePNG writes img to a PNG file at path.
func SavePNG(path string, img image.Image) error {
	if err := fauxgl.SavePNG(path, img); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// PNGViewer is a sfmview.Viewer that writes a snapshot of the scene to a PNG file.
type PNGViewer struct {
	Path   string
	Config Config
}

var _ sfmview.Viewer = PNGViewer{}

// View composes renderables into a scene and saves its snapshot.
func (pv PNGViewer) View(renderables ...sfmview.Renderable) error {
	img, err := Snapshot(sfmview.NewScene(renderables...), pv.Config)
	if err != nil {
		return err
	}
	return SavePNG(pv.Path, img)
}

type headlightShader struct {
	matrix fauxgl.Matrix
	light  fauxgl.Vector
}

func (s *headlightShader) Vertex(v fauxgl.Vertex) fauxgl.Vertex {
	v.Output = s.matrix.MulPositionW(v.Position)
	return v
}

// Fragment applies a Lambert term from the headlight. Fragments without a
// normal keep their vertex color.
func (s *headlightShader) Fragment(v fauxgl.Vertex) fauxgl.Color {
	n := v.Normal
	if n.Length() == 0 {
		return v.Color
	}
	diffuse := math.Max(n.Normalize().Dot(s.light), 0)
	c := v.Color.MulScalar(0.3 + 0.7*diffuse)
	c.A = v.Color.A
	return c
}

func triangles(a *sfmview.Actor) []*fauxgl.Triangle {
	n := a.VertexCount() / 3
	tris := make([]*fauxgl.Triangle, 0, n)
	for i := 0; i < 3*n; i += 3 {
		tris = append(tris, &fauxgl.Triangle{
			V1: fauxVertex(a, i),
			V2: fauxVertex(a, i+1),
			V3: fauxVertex(a, i+2),
		})
	}
	return tris
}

func lines(a *sfmview.Actor) []*fauxgl.Line {
	n := a.VertexCount()
	var segs []*fauxgl.Line
	if a.Kind == sfmview.LineStrip {
		for i := 0; i+1 < n; i++ {
			segs = append(segs, &fauxgl.Line{V1: fauxVertex(a, i), V2: fauxVertex(a, i+1)})
		}
		return segs
	}
	for i := 0; i+1 < n; i += 2 {
		segs = append(segs, &fauxgl.Line{V1: fauxVertex(a, i), V2: fauxVertex(a, i+1)})
	}
	return segs
}

func fauxVertex(a *sfmview.Actor, i int) fauxgl.Vertex {
	return fauxgl.Vertex{
		Position: fauxV(a.Vertex(i)),
		Normal:   fauxV(a.Normal(i)),
		Color:    fauxColor(a.Color(i)),
	}
}

// drawPoints projects the points of a onto img as squares of the actor's
// point size scaled by ss. There is no depth test.
func drawPoints(img *image.NRGBA, a *sfmview.Actor, matrix fauxgl.Matrix, ss int) {
	size := int(a.PointSize)
	if size < 1 {
		size = 1
	}
	size *= ss
	w, h := float64(img.Rect.Dx()), float64(img.Rect.Dy())
	for i := 0; i < a.VertexCount(); i++ {
		p := matrix.MulPositionW(fauxV(a.Vertex(i)))
		if p.W <= 0 {
			continue
		}
		x, y, z := p.X/p.W, p.Y/p.W, p.Z/p.W
		if x < -1 || x > 1 || y < -1 || y > 1 || z < -1 || z > 1 {
			continue
		}
		px := int(math.Floor((x + 1) / 2 * w))
		py := int(math.Floor((1 - y) / 2 * h))
		r := image.Rect(px, py, px+size, py+size).Intersect(img.Rect)
		draw.Draw(img, r, image.NewUniform(a.Color(i)), image.Point{}, draw.Src)
	}
}

func fauxV(v r3.Vec) fauxgl.Vector {
	return fauxgl.V(v.X, v.Y, v.Z)
}

func fauxColor(c color.NRGBA) fauxgl.Color {
	return fauxgl.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}
