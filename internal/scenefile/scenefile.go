// Package scenefile reads reconstructions to view from YAML files.
//
// A scene file lists points with optional colors and camera poses:
//
//	focal: 0.05
//	points:
//	  - [0.1, 0.2, 1.5]
//	  - [0.3, -0.1, 1.2]
//	colors:
//	  - [255, 0, 0]
//	  - [0, 255, 0]
//	cameras:
//	  - position: [0, 0, 0]
//	  - position: [1, 0, 0]
//	    rvec: [0, 0.1, 0]
//	  - position: [0, 1, 0]
//	    quat: [1, 0, 0, 0]
//	  - position: [0, 0, 1]
//	    matrix: [[1, 0, 0], [0, 1, 0], [0, 0, 1]]
//
// A camera sets at most one of rvec (axis-angle), quat (w, x, y, z) and matrix
// (row major). A camera with none of them has the identity orientation.
package scenefile

import (
	"image/color"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/soypat/sfmview"
	"github.com/soypat/sfmview/bundle"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a scene file.
type File struct {
	Focal   float64     `yaml:"focal"`
	Points  [][]float64 `yaml:"points"`
	Colors  [][]int     `yaml:"colors"`
	Cameras []Camera    `yaml:"cameras"`
}

// Camera is a camera pose.
type Camera struct {
	Position []float64   `yaml:"position"`
	RVec     []float64   `yaml:"rvec"`
	Quat     []float64   `yaml:"quat"`
	Matrix   [][]float64 `yaml:"matrix"`
}

// Load reads the scene file at path.
func Load(path string) (sfmview.Input, error) {
	fp, err := os.Open(path)
	if err != nil {
		return sfmview.Input{}, err
	}
	defer fp.Close()
	in, err := Decode(fp)
	if err != nil {
		return sfmview.Input{}, errors.Wrapf(err, "reading scene %s", path)
	}
	return in, nil
}

// Decode reads a YAML scene. Unknown keys are an error.
func Decode(r io.Reader) (sfmview.Input, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return sfmview.Input{}, errors.Wrap(err, "decoding yaml")
	}
	return f.Input()
}

// Input converts the file contents to driver input.
func (f *File) Input() (sfmview.Input, error) {
	if f.Focal < 0 {
		return sfmview.Input{}, errors.Errorf("negative focal length %g", f.Focal)
	}
	in := sfmview.Input{FocalLength: f.Focal}
	in.Points = make([]r3.Vec, len(f.Points))
	for i, p := range f.Points {
		v, err := vec(p)
		if err != nil {
			return sfmview.Input{}, errors.Wrapf(err, "point %d", i)
		}
		in.Points[i] = v
	}
	if len(f.Colors) > 0 {
		in.Colors = make([]color.Color, len(f.Colors))
		for i, c := range f.Colors {
			nc, err := rgb(c)
			if err != nil {
				return sfmview.Input{}, errors.Wrapf(err, "color %d", i)
			}
			in.Colors[i] = nc
		}
	}
	in.CameraPositions = make([]r3.Vec, len(f.Cameras))
	in.CameraRotations = make([]bundle.Rotation, len(f.Cameras))
	for i := range f.Cameras {
		pos, rot, err := f.Cameras[i].pose()
		if err != nil {
			return sfmview.Input{}, errors.Wrapf(err, "camera %d", i)
		}
		in.CameraPositions[i] = pos
		in.CameraRotations[i] = rot
	}
	if err := in.Validate(); err != nil {
		return sfmview.Input{}, err
	}
	return in, nil
}

func (c *Camera) pose() (r3.Vec, bundle.Rotation, error) {
	pos, err := vec(c.Position)
	if err != nil {
		return r3.Vec{}, nil, errors.Wrap(err, "position")
	}
	set := 0
	for _, given := range []bool{c.RVec != nil, c.Quat != nil, c.Matrix != nil} {
		if given {
			set++
		}
	}
	if set > 1 {
		return r3.Vec{}, nil, errors.New("set only one of rvec, quat and matrix")
	}
	switch {
	case c.RVec != nil:
		rv, err := vec(c.RVec)
		if err != nil {
			return r3.Vec{}, nil, errors.Wrap(err, "rvec")
		}
		return pos, bundle.RotVec(rv), nil
	case c.Quat != nil:
		if len(c.Quat) != 4 {
			return r3.Vec{}, nil, errors.Errorf("quat needs 4 components, got %d", len(c.Quat))
		}
		q := quat.Number{Real: c.Quat[0], Imag: c.Quat[1], Jmag: c.Quat[2], Kmag: c.Quat[3]}
		if quat.Abs(q) == 0 {
			return r3.Vec{}, nil, errors.New("zero quaternion")
		}
		return pos, bundle.NewQuat(q), nil
	case c.Matrix != nil:
		var m [9]float64
		if len(c.Matrix) != 3 {
			return r3.Vec{}, nil, errors.Errorf("matrix needs 3 rows, got %d", len(c.Matrix))
		}
		for i, row := range c.Matrix {
			if len(row) != 3 {
				return r3.Vec{}, nil, errors.Errorf("matrix row %d needs 3 columns, got %d", i, len(row))
			}
			copy(m[3*i:], row)
		}
		rot, err := bundle.NewMatrix(m)
		if err != nil {
			return r3.Vec{}, nil, err
		}
		return pos, rot, nil
	}
	return pos, bundle.Identity, nil
}

func vec(v []float64) (r3.Vec, error) {
	if len(v) != 3 {
		return r3.Vec{}, errors.Errorf("need 3 coordinates, got %d", len(v))
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}

func rgb(c []int) (color.NRGBA, error) {
	if len(c) != 3 {
		return color.NRGBA{}, errors.Errorf("need 3 components, got %d", len(c))
	}
	for _, v := range c {
		if v < 0 || v > 255 {
			return color.NRGBA{}, errors.Errorf("component %d out of range [0, 255]", v)
		}
	}
	return color.NRGBA{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2]), A: 255}, nil
}
