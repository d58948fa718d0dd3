package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/sfmview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesPackages(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	opts := cfg.Options()
	assert.Equal(t, sfmview.DefaultPixelMax, opts.PixelMax)
	assert.Equal(t, sfmview.DefaultSphereMax, opts.SphereMax)
	assert.Equal(t, sfmview.DefaultSphereRadius, opts.SphereRadius)
	assert.Equal(t, sfmview.DefaultRectMax, opts.RectMax)
	assert.Equal(t, sfmview.DefaultRectSize, opts.RectFocal)
	assert.Equal(t, sfmview.ColorExplicit, opts.ColorMode)
	assert.Equal(t, color.NRGBA{A: 255}, cfg.Render().Background)
	assert.Equal(t, color.NRGBA{A: 255}, cfg.GL().Background)
}

func TestDecodeEmpty(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDecodeOverrides(t *testing.T) {
	const src = `
window:
  title: reconstruction
  width: 640
background: [10, 20, 30]
fovy: 45
points:
  spheres: true
  sphere_radius: 0.01
  color_mode: depth
  depth_range: [-2, 3]
cameras:
  focal: 0.1
`
	cfg, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "reconstruction", cfg.Window.Title)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, Default().Window.Height, cfg.Window.Height, "missing keys keep defaults")

	opts := cfg.Options()
	assert.True(t, opts.UseSpheres)
	assert.Equal(t, 0.01, opts.SphereRadius)
	assert.Equal(t, sfmview.ColorDepth, opts.ColorMode)
	assert.Equal(t, [2]float64{-2, 3}, opts.DepthRange)
	assert.Equal(t, 0.1, opts.RectFocal)
	assert.Equal(t, sfmview.DefaultRectSize, opts.RectWidth)

	want := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	assert.Equal(t, want, cfg.Render().Background)
	assert.Equal(t, 45.0, cfg.Render().Fovy)
	gl := cfg.GL()
	assert.Equal(t, want, gl.Background)
	assert.Equal(t, "reconstruction", gl.Title)
}

func TestDecodeRejects(t *testing.T) {
	for name, src := range map[string]string{
		"unknown key":       "colour: red\n",
		"nested unknown":    "window:\n  depth: 3\n",
		"bad size":          "window:\n  width: 0\n",
		"bad fovy":          "fovy: 180\n",
		"bad capacity":      "points:\n  sphere_max: 0\n",
		"bad radius":        "points:\n  sphere_radius: -1\n",
		"bad mode":          "points:\n  color_mode: rainbow\n",
		"bad range":         "points:\n  depth_range: [1, 1]\n",
		"short background":  "background: [1, 2]\n",
		"background range":  "background: [1, 2, 256]\n",
		"bad glyph":         "cameras:\n  height: 0\n",
		"not a mapping":     "- 1\n- 2\n",
		"bad field type":    "fovy: wide\n",
		"bad snapshot size": "snapshot:\n  height: -3\n",
	} {
		_, err := Decode(strings.NewReader(src))
		assert.Error(t, err, name)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sfmview.yaml")
	require.NoError(t, os.WriteFile(path, []byte("snapshot:\n  supersample: 1\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Render().Supersample)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
