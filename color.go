package sfmview

import (
	"image/color"
	"math"

	"github.com/soypat/sfmview/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// toNRGBA converts c to an opaque 8-bit color.
func toNRGBA(c color.Color) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 255
	return n
}

// unitToNRGBA converts components in [0,1] to an 8-bit color. Components
// outside the range are clamped.
func unitToNRGBA(v r3.Vec) color.NRGBA {
	v = d3.Clamp(v, 0, 1)
	return color.NRGBA{
		R: uint8(math.Round(255 * v.X)),
		G: uint8(math.Round(255 * v.Y)),
		B: uint8(math.Round(255 * v.Z)),
		A: 255,
	}
}

// directionColor maps the direction of p from the origin to a color: each
// component of the unit vector is scaled from [-1,1] to [0,255].
func directionColor(p r3.Vec) color.NRGBA {
	n := r3.Norm(p)
	if n == 0 {
		return unitToNRGBA(d3.Elem(0.5))
	}
	u := r3.Scale(1/n, p)
	return unitToNRGBA(r3.Scale(0.5, r3.Add(u, d3.Elem(1))))
}

// positionColor maps coordinates of a normalized scene to a color with
// 0.7*p + 0.3 per channel.
func positionColor(p r3.Vec) color.NRGBA {
	return unitToNRGBA(r3.Add(r3.Scale(0.7, p), d3.Elem(0.3)))
}

// scalarColors maps scalars through a diverging blue-red colormap spanning
// [min, max]. Values outside the range are clamped.
func scalarColors(scalars []float64, min, max float64) []color.NRGBA {
	out := make([]color.NRGBA, len(scalars))
	if len(scalars) == 0 {
		return out
	}
	var cmap palette.ColorMap = moreland.SmoothBlueRed()
	if max <= min {
		max = min + 1
	}
	cmap.SetMin(min)
	cmap.SetMax(max)
	for i, s := range scalars {
		c, err := cmap.At(math.Max(min, math.Min(max, s)))
		if err != nil {
			out[i] = white
			continue
		}
		out[i] = toNRGBA(c)
	}
	return out
}
