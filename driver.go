package sfmview

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/soypat/sfmview/bundle"
	"github.com/soypat/sfmview/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Viewer displays renderables. The interactive window in package glview and
// the headless renderer in package render implement it.
type Viewer interface {
	View(renderables ...Renderable) error
}

// Input is the reconstruction to visualize.
type Input struct {
	Points []r3.Vec
	// Colors is nil or has one color per point.
	Colors          []color.Color
	CameraPositions []r3.Vec
	// CameraRotations has one rotation per camera position.
	CameraRotations []bundle.Rotation
	// FocalLength, if positive, sizes every camera glyph.
	FocalLength float64
}

// Options configures the renderables built by the driver.
type Options struct {
	// UseSpheres draws points as spheres instead of pixels.
	UseSpheres   bool
	PixelMax     int
	SphereMax    int
	SphereRadius float64
	ColorMode    ColorMode
	// DepthRange is mapped to the colormap ends when ColorMode is ColorDepth.
	DepthRange   [2]float64
	RectMax      int
	RectWidth    float64
	RectHeight   float64
	RectFocal    float64
	// Rand picks overwritten slots of a full PixelCloud. Nil uses a time seeded source.
	Rand *rand.Rand
}

// DefaultOptions returns the capacities and glyph sizes used when none are configured.
func DefaultOptions() Options {
	return Options{
		PixelMax:     DefaultPixelMax,
		SphereMax:    DefaultSphereMax,
		SphereRadius: DefaultSphereRadius,
		DepthRange:   [2]float64{-1, 1},
		RectMax:      DefaultRectMax,
		RectWidth:    DefaultRectSize,
		RectHeight:   DefaultRectSize,
		RectFocal:    DefaultRectSize,
	}
}

// Validate checks the input slices are index aligned and every coordinate
// is finite.
func (in Input) Validate() error {
	if in.Colors != nil && len(in.Colors) != len(in.Points) {
		return errors.Wrapf(ErrMismatchedInput, "%d colors for %d points", len(in.Colors), len(in.Points))
	}
	if len(in.CameraRotations) != len(in.CameraPositions) {
		return errors.Wrapf(ErrMismatchedInput, "%d rotations for %d camera positions", len(in.CameraRotations), len(in.CameraPositions))
	}
	for i, p := range in.Points {
		if !finite(p) {
			return errors.Wrapf(ErrNonFinite, "point %d is %v", i, p)
		}
	}
	for i, p := range in.CameraPositions {
		if !finite(p) {
			return errors.Wrapf(ErrNonFinite, "camera %d position is %v", i, p)
		}
	}
	if !finiteFloat(in.FocalLength) {
		return errors.Wrapf(ErrNonFinite, "focal length %g", in.FocalLength)
	}
	return nil
}

func finite(v r3.Vec) bool {
	return finiteFloat(v.X) && finiteFloat(v.Y) && finiteFloat(v.Z)
}

func finiteFloat(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Normalize returns a copy of in with points, camera positions and focal
// length divided by the largest absolute coordinate found among points and
// camera positions, together with that factor. Relative geometry is kept.
// If all coordinates are zero the factor is 1.
func Normalize(in Input) (Input, float64) {
	factor := d3.Set(in.Points).MaxAbs()
	if f := d3.Set(in.CameraPositions).MaxAbs(); f > factor {
		factor = f
	}
	if factor == 0 {
		factor = 1
	}
	out := in
	out.Points = scaleAll(in.Points, 1/factor)
	out.CameraPositions = scaleAll(in.CameraPositions, 1/factor)
	out.FocalLength = in.FocalLength / factor
	return out, factor
}

func scaleAll(vs []r3.Vec, k float64) []r3.Vec {
	out := make([]r3.Vec, len(vs))
	for i, v := range vs {
		out[i] = r3.Scale(k, v)
	}
	return out
}

// withDefaults replaces unset capacities and glyph sizes with the defaults.
func (opts Options) withDefaults() Options {
	def := DefaultOptions()
	if opts.PixelMax <= 0 {
		opts.PixelMax = def.PixelMax
	}
	if opts.SphereMax <= 0 {
		opts.SphereMax = def.SphereMax
	}
	if opts.SphereRadius <= 0 {
		opts.SphereRadius = def.SphereRadius
	}
	if opts.RectMax <= 0 {
		opts.RectMax = def.RectMax
	}
	if opts.RectWidth <= 0 {
		opts.RectWidth = def.RectWidth
	}
	if opts.RectHeight <= 0 {
		opts.RectHeight = def.RectHeight
	}
	if opts.RectFocal <= 0 {
		opts.RectFocal = def.RectFocal
	}
	return opts
}

// BuildScene normalizes the input and returns the point cloud and the camera
// glyphs built from it. Unset capacities and sizes in opts take their
// default values. It fails if the input is inconsistent or a renderable runs
// out of capacity.
func BuildScene(in Input, opts Options) (PointCloud, *OrientedRectangles, error) {
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}
	in, _ = Normalize(in)
	opts = opts.withDefaults()

	var pc PointCloud
	if opts.UseSpheres {
		pc = NewSphereCloud(opts.SphereMax, opts.SphereRadius)
	} else {
		pixels := NewPixelCloud(opts.PixelMax)
		pixels.SetColorMode(opts.ColorMode)
		if opts.DepthRange[0] < opts.DepthRange[1] {
			pixels.SetScalarRange(opts.DepthRange[0], opts.DepthRange[1])
		}
		if opts.Rand != nil {
			pixels.SetRand(opts.Rand)
		}
		pc = pixels
	}
	for i, p := range in.Points {
		var c color.Color
		if in.Colors != nil {
			c = in.Colors[i]
		}
		if err := pc.AddObject(p, c); err != nil {
			return nil, nil, errors.Wrapf(err, "adding point %d", i)
		}
	}

	rects := NewOrientedRectangles(opts.RectMax, opts.RectWidth, opts.RectHeight, opts.RectFocal)
	for i, pos := range in.CameraPositions {
		if err := rects.AddRect(pos, in.CameraRotations[i], in.FocalLength); err != nil {
			return nil, nil, errors.Wrapf(err, "adding camera %d", i)
		}
	}
	return pc, rects, nil
}

// RenderPtsAndCams normalizes the input, builds the point cloud and camera
// glyphs and hands them to v. For the interactive viewer the call blocks
// until the window is closed.
func RenderPtsAndCams(v Viewer, in Input, opts Options) error {
	pc, rects, err := BuildScene(in, opts)
	if err != nil {
		return err
	}
	return v.View(pc, rects)
}
