package scenefile

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/soypat/sfmview"
	"github.com/soypat/sfmview/bundle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

const scene = `
focal: 0.05
points:
  - [0.1, 0.2, 1.5]
  - [0.3, -0.1, 1.2]
colors:
  - [255, 0, 0]
  - [0, 255, 0]
cameras:
  - position: [0, 0, 0]
  - position: [1, 0, 0]
    rvec: [0, 0, 1.5707963267948966]
  - position: [0, 1, 0]
    quat: [0, 0, 0, 2]
  - position: [0, 0, 1]
    matrix: [[0, -1, 0], [1, 0, 0], [0, 0, 1]]
`

func TestDecode(t *testing.T) {
	in, err := Decode(strings.NewReader(scene))
	require.NoError(t, err)
	assert.Equal(t, 0.05, in.FocalLength)
	assert.Equal(t, []r3.Vec{{X: .1, Y: .2, Z: 1.5}, {X: .3, Y: -.1, Z: 1.2}}, in.Points)
	require.Len(t, in.Colors, 2)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, in.Colors[0])
	require.Len(t, in.CameraPositions, 4)
	require.Len(t, in.CameraRotations, 4)
	assert.Equal(t, r3.Vec{X: 1}, in.CameraPositions[1])

	x := r3.Vec{X: 1}
	assert.Equal(t, x, in.CameraRotations[0].Rotate(x))
	// quarter turn about z
	got := in.CameraRotations[1].Rotate(x)
	assert.InDelta(t, 0, r3.Norm(r3.Sub(got, r3.Vec{Y: 1})), tol)
	got = in.CameraRotations[3].Rotate(x)
	assert.InDelta(t, 0, r3.Norm(r3.Sub(got, r3.Vec{Y: 1})), tol)
	// half turn about z, from a non-unit quaternion
	got = in.CameraRotations[2].Rotate(x)
	assert.InDelta(t, 0, r3.Norm(r3.Sub(got, r3.Vec{X: -1})), tol)
}

func TestDecodeDrivesScene(t *testing.T) {
	in, err := Decode(strings.NewReader(scene))
	require.NoError(t, err)
	opts := sfmview.DefaultOptions()
	pc, rects, err := sfmview.BuildScene(in, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, pc.Len())
	assert.Equal(t, 4, rects.Len())
}

func TestDecodeEmpty(t *testing.T) {
	in, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, in.Points)
	assert.Nil(t, in.Colors)
	assert.Empty(t, in.CameraPositions)
}

func TestDecodeRejects(t *testing.T) {
	for name, src := range map[string]string{
		"unknown key":       "pointz: []\n",
		"short point":       "points: [[1, 2]]\n",
		"color range":       "points: [[1, 2, 3]]\ncolors: [[0, 0, 300]]\n",
		"color count":       "points: [[1, 2, 3], [1, 1, 1]]\ncolors: [[0, 0, 0]]\n",
		"missing position":  "cameras:\n  - rvec: [0, 0, 1]\n",
		"two orientations":  "cameras:\n  - position: [0, 0, 0]\n    rvec: [0, 0, 1]\n    quat: [1, 0, 0, 0]\n",
		"short quat":        "cameras:\n  - position: [0, 0, 0]\n    quat: [1, 0, 0]\n",
		"zero quat":         "cameras:\n  - position: [0, 0, 0]\n    quat: [0, 0, 0, 0]\n",
		"short matrix":      "cameras:\n  - position: [0, 0, 0]\n    matrix: [[1, 0, 0], [0, 1, 0]]\n",
		"short matrix row":  "cameras:\n  - position: [0, 0, 0]\n    matrix: [[1, 0], [0, 1, 0], [0, 0, 1]]\n",
		"negative focal":    "focal: -1\n",
		"not yaml sequence": "points: 3\n",
	} {
		_, err := Decode(strings.NewReader(src))
		assert.Error(t, err, name)
	}
}

func TestDecodeReflection(t *testing.T) {
	const src = "cameras:\n  - position: [0, 0, 0]\n    matrix: [[-1, 0, 0], [0, 1, 0], [0, 0, 1]]\n"
	_, err := Decode(strings.NewReader(src))
	require.Error(t, err)
	assert.True(t, errors.Is(err, bundle.ErrNotRotation))
}

func TestDecodeColorMismatch(t *testing.T) {
	_, err := Decode(strings.NewReader("points: [[1, 2, 3], [1, 1, 1]]\ncolors: [[0, 0, 0]]\n"))
	assert.True(t, errors.Is(err, sfmview.ErrMismatchedInput))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scene), 0o644))
	in, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, in.Points, 2)
	assert.Equal(t, 0.05, in.FocalLength)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
