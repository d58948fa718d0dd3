package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/sfmview"
	"github.com/soypat/sfmview/internal/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/cmpimg"
)

const tol = 1e-9

func TestFrame(t *testing.T) {
	b := d3.Box{Min: d3.Elem(-1), Max: d3.Elem(1)}
	v := Frame(b, 60)
	radius := math.Sqrt(3)
	// sin(30°) = 1/2
	assert.InDelta(t, 2*radius, r3.Norm(r3.Sub(v.Eye, v.Center)), tol)
	assert.Equal(t, r3.Vec{}, v.Center)
	assert.Equal(t, r3.Vec{Y: 1}, v.Up)
	assert.Greater(t, v.Eye.Z, 0.0)
	assert.Greater(t, v.Near, 0.0)
	assert.Less(t, v.Near, 2*radius-radius)
	assert.Greater(t, v.Far, 2*radius+radius)
}

func TestFrameEmpty(t *testing.T) {
	v := Frame(d3.EmptyBox(), 0)
	assert.Equal(t, float64(DefaultFovy), v.Fovy)
	assert.Equal(t, r3.Vec{}, v.Center)
	want := 1 / math.Sin(0.5*DefaultFovy*math.Pi/180)
	assert.InDelta(t, want, v.Eye.Z, tol)
}

func TestClipRangeNearPositive(t *testing.T) {
	near, far := clipRange(1, 10)
	assert.Greater(t, near, 0.0)
	assert.Greater(t, far, near)
}

func TestTrackballMatchesFrame(t *testing.T) {
	b := d3.Box{Min: r3.Vec{X: -1, Y: -2, Z: -0.5}, Max: r3.Vec{X: 1, Y: 2, Z: 0.5}}
	tb := NewTrackball(b, 45)
	want := Frame(b, 45)
	got := tb.View()
	assert.InDelta(t, 0, r3.Norm(r3.Sub(want.Eye, got.Eye)), 1e-4)
	assert.InDelta(t, 0, r3.Norm(r3.Sub(want.Center, got.Center)), 1e-4)
	assert.InDelta(t, want.Near, got.Near, 1e-3)
	assert.InDelta(t, want.Far, got.Far, 1e-3)
}

func TestTrackballRotate(t *testing.T) {
	tb := NewTrackball(d3.Box{Min: r3.Vec{X: -1, Y: -0.5, Z: -0.5}, Max: r3.Vec{X: 1, Y: 0.5, Z: 0.5}}, DefaultFovy)
	dist := tb.Eye().Sub(tb.Target).Len()
	tb.Rotate(120, 35)
	assert.InDelta(t, dist, tb.Eye().Sub(tb.Target).Len(), 1e-4, "orbiting keeps the distance")
	assert.NotZero(t, tb.Yaw)

	tb.Rotate(0, 10000)
	assert.Equal(t, float32(maxPitch), tb.Pitch)
	tb.Rotate(0, -10000)
	assert.Equal(t, float32(-maxPitch), tb.Pitch)
}

func TestTrackballPanZoomReset(t *testing.T) {
	tb := NewTrackball(d3.Box{Min: r3.Vec{X: -1, Y: -0.5, Z: -0.5}, Max: r3.Vec{X: 1, Y: 0.5, Z: 0.5}}, DefaultFovy)
	target, dist := tb.Target, tb.Distance

	tb.Pan(10, 0, 100)
	moved := tb.Target.Sub(target)
	assert.InDelta(t, 0, moved.Dot(tb.Direction()), 1e-5, "pan stays in the view plane")
	assert.Greater(t, moved.Len(), float32(0))

	tb.Zoom(3)
	assert.Less(t, tb.Distance, dist)
	tb.Zoom(-6)
	assert.Greater(t, tb.Distance, dist)
	tb.Dolly(0)
	assert.Greater(t, tb.Distance, float32(0))

	require.True(t, tb.HandleKey('r'))
	assert.Equal(t, target, tb.Target)
	assert.Equal(t, dist, tb.Distance)
	assert.Zero(t, tb.Yaw)
	assert.False(t, tb.HandleKey('x'))
}

func TestTrackballClipFollowsPan(t *testing.T) {
	b := d3.Box{Min: r3.Vec{X: -1, Y: -0.5, Z: -0.5}, Max: r3.Vec{X: 1, Y: 0.5, Z: 0.5}}
	tb := NewTrackball(b, DefaultFovy)
	tb.Pan(5000, -3000, 100)
	v := tb.View()
	eyeDist := r3.Norm(r3.Sub(v.Eye, b.Center()))
	require.Greater(t, eyeDist, 10*b.Radius(), "pan moved the eye far from the scene")
	assert.Greater(t, v.Far, eyeDist+b.Radius(), "far plane behind the scene")
	assert.Less(t, v.Near, eyeDist-b.Radius(), "near plane in front of the scene")
	assert.Greater(t, v.Near, 0.0)

	// Eye inside the scene.
	tb.Reset()
	tb.Dolly(1e-3)
	v = tb.View()
	assert.Greater(t, v.Near, 0.0)
	assert.Greater(t, v.Far, b.Radius())
}

func TestTrackballKeyFunc(t *testing.T) {
	tb := NewTrackball(d3.EmptyBox(), DefaultFovy)
	var got []rune
	tb.KeyFunc = func(tb *Trackball, key rune) bool {
		got = append(got, key)
		if key == 'a' {
			tb.Rotate(10, 0)
			return true
		}
		return false
	}
	assert.True(t, tb.HandleKey('a'))
	assert.NotZero(t, tb.Yaw)
	assert.True(t, tb.HandleKey('r'), "unhandled keys fall through to the built-in bindings")
	assert.Zero(t, tb.Yaw)
	assert.Equal(t, []rune{'a', 'r'}, got)
}

type singlePoint struct {
	p r3.Vec
	c color.NRGBA
}

func (s singlePoint) Actors() []sfmview.Actor {
	return []sfmview.Actor{{
		Kind:     sfmview.Points,
		Vertices: []r3.Vec{s.p},
		Colors:   []color.NRGBA{s.c},
	}}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 160, 90
	cfg.Supersample = 1
	return cfg
}

func TestSnapshotBackgroundAndPoint(t *testing.T) {
	magenta := color.NRGBA{R: 255, B: 255, A: 255}
	// axes span the unit cube so the framed center is (.5, .5, .5).
	scene := sfmview.NewScene(singlePoint{p: r3.Vec{X: .5, Y: .5, Z: .5}, c: magenta})
	cfg := testConfig()
	img, err := Snapshot(scene, cfg)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, cfg.Width, cfg.Height), img.Bounds())

	assert.Equal(t, color.NRGBAModel.Convert(cfg.Background), color.NRGBAModel.Convert(img.At(0, 0)))
	cx, cy := cfg.Width/2, cfg.Height/2
	found := false
	for y := cy - 1; y <= cy+1; y++ {
		for x := cx - 1; x <= cx+1; x++ {
			if color.NRGBAModel.Convert(img.At(x, y)) == magenta {
				found = true
			}
		}
	}
	assert.True(t, found, "point not drawn at image center")
}

func TestSnapshotAxes(t *testing.T) {
	cfg := testConfig()
	img, err := Snapshot(sfmview.NewScene(), cfg)
	require.NoError(t, err)
	var red int
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.R > 200 && c.G < 50 && c.B < 50 {
				red++
			}
		}
	}
	assert.Greater(t, red, 0, "x axis not drawn")
}

func TestSnapshotSpheresDeterministic(t *testing.T) {
	sc := sfmview.NewSphereCloud(10, 0.1)
	require.NoError(t, sc.AddObject(r3.Vec{X: .3, Y: .2}, nil))
	require.NoError(t, sc.AddObject(r3.Vec{Z: .4}, color.NRGBA{G: 255, A: 255}))
	scene := sfmview.NewScene(sc)
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 120, 80

	a, err := Snapshot(scene, cfg)
	require.NoError(t, err)
	b, err := Snapshot(scene, cfg)
	require.NoError(t, err)
	equal, err := cmpimg.EqualApprox("png", encodePNG(t, a), encodePNG(t, b), 0)
	require.NoError(t, err)
	assert.True(t, equal)
}

func TestSnapshotInvalid(t *testing.T) {
	cfg := testConfig()
	cfg.Width = 0
	_, err := Snapshot(sfmview.NewScene(), cfg)
	assert.Error(t, err)

	v := Frame(d3.EmptyBox(), DefaultFovy)
	v.Near = 0
	_, err = SnapshotView(sfmview.NewScene(), v, testConfig())
	assert.Error(t, err)
}

func TestPNGViewer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.png")
	pv := PNGViewer{Path: path, Config: testConfig()}
	rects := sfmview.NewOrientedRectangles(1, 0.1, 0.1, 0.1)
	require.NoError(t, rects.AddRect(r3.Vec{Z: 1}, nil, 0))
	require.NoError(t, pv.View(rects))

	fp, err := os.Open(path)
	require.NoError(t, err)
	defer fp.Close()
	img, err := png.Decode(fp)
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dx())
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
