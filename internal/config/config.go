// Package config reads the YAML viewer configuration used by the sfmview command.
package config

import (
	"image/color"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/soypat/sfmview"
	"github.com/soypat/sfmview/render"
	"github.com/soypat/sfmview/render/glview"
	"gopkg.in/yaml.v3"
)

// Config is the viewer configuration. Fields missing from a file keep their
// Default values.
type Config struct {
	Window     Window   `yaml:"window"`
	Snapshot   Snapshot `yaml:"snapshot"`
	Background []int    `yaml:"background"`
	// vertical field of view in degrees
	Fovy    float64 `yaml:"fovy"`
	Points  Points  `yaml:"points"`
	Cameras Cameras `yaml:"cameras"`
}

// Window sizes the interactive viewer window.
type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Snapshot sizes the PNG written by the headless renderer.
type Snapshot struct {
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	Supersample int `yaml:"supersample"`
}

// Points sets the point cloud capacities and shading.
type Points struct {
	PixelMax     int     `yaml:"pixel_max"`
	SphereMax    int     `yaml:"sphere_max"`
	SphereRadius float64 `yaml:"sphere_radius"`
	// ColorMode is "explicit" or "depth".
	ColorMode string `yaml:"color_mode"`
	// DepthRange is the depth mapped to the colormap ends in depth mode.
	DepthRange []float64 `yaml:"depth_range"`
	Spheres    bool      `yaml:"spheres"`
}

// Cameras sets the capacity and default glyph size of camera frustums.
type Cameras struct {
	Max    int     `yaml:"max"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Focal  float64 `yaml:"focal"`
}

// Default returns the built-in configuration.
func Default() Config {
	snap := render.DefaultConfig()
	win := glview.DefaultConfig()
	opts := sfmview.DefaultOptions()
	return Config{
		Window:     Window{Title: win.Title, Width: win.Width, Height: win.Height},
		Snapshot:   Snapshot{Width: snap.Width, Height: snap.Height, Supersample: snap.Supersample},
		Background: []int{0, 0, 0},
		Fovy:       render.DefaultFovy,
		Points: Points{
			PixelMax:     opts.PixelMax,
			SphereMax:    opts.SphereMax,
			SphereRadius: opts.SphereRadius,
			ColorMode:    "explicit",
			DepthRange:   []float64{-1, 1},
		},
		Cameras: Cameras{
			Max:    opts.RectMax,
			Width:  opts.RectWidth,
			Height: opts.RectHeight,
			Focal:  opts.RectFocal,
		},
	}
}

// Load reads the configuration file at path.
func Load(path string) (Config, error) {
	fp, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer fp.Close()
	cfg, err := Decode(fp)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}
	return cfg, nil
}

// Decode reads a YAML configuration over the defaults. Unknown keys are an error.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decoding yaml")
	}
	return cfg, cfg.Validate()
}

// Validate checks sizes and capacities are positive and the background is a color.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return errors.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	case c.Snapshot.Width <= 0 || c.Snapshot.Height <= 0:
		return errors.Errorf("invalid snapshot size %dx%d", c.Snapshot.Width, c.Snapshot.Height)
	case c.Fovy <= 0 || c.Fovy >= 180:
		return errors.Errorf("field of view %g out of range (0, 180)", c.Fovy)
	case c.Points.PixelMax < 1 || c.Points.SphereMax < 1 || c.Cameras.Max < 1:
		return errors.New("capacities must be positive")
	case c.Points.SphereRadius <= 0:
		return errors.New("sphere radius must be positive")
	case c.Cameras.Width <= 0 || c.Cameras.Height <= 0 || c.Cameras.Focal <= 0:
		return errors.New("camera glyph dimensions must be positive")
	}
	if r := c.Points.DepthRange; len(r) != 2 || r[0] >= r[1] {
		return errors.Errorf("depth range must be two increasing values, got %v", r)
	}
	if _, err := c.colorMode(); err != nil {
		return err
	}
	_, err := c.background()
	return err
}

func (c Config) colorMode() (sfmview.ColorMode, error) {
	switch c.Points.ColorMode {
	case "", "explicit":
		return sfmview.ColorExplicit, nil
	case "depth":
		return sfmview.ColorDepth, nil
	}
	return 0, errors.Errorf("unknown color mode %q", c.Points.ColorMode)
}

func (c Config) background() (color.NRGBA, error) {
	bg := c.Background
	if len(bg) != 3 && len(bg) != 4 {
		return color.NRGBA{}, errors.Errorf("background needs 3 or 4 components, got %d", len(bg))
	}
	var rgba [4]uint8
	rgba[3] = 255
	for i, v := range bg {
		if v < 0 || v > 255 {
			return color.NRGBA{}, errors.Errorf("background component %d out of range [0, 255]", v)
		}
		rgba[i] = uint8(v)
	}
	return color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}, nil
}

// Options returns the driver options. Call it on a validated Config.
func (c Config) Options() sfmview.Options {
	mode, _ := c.colorMode()
	return sfmview.Options{
		UseSpheres:   c.Points.Spheres,
		PixelMax:     c.Points.PixelMax,
		SphereMax:    c.Points.SphereMax,
		SphereRadius: c.Points.SphereRadius,
		ColorMode:    mode,
		DepthRange:   [2]float64{c.Points.DepthRange[0], c.Points.DepthRange[1]},
		RectMax:      c.Cameras.Max,
		RectWidth:    c.Cameras.Width,
		RectHeight:   c.Cameras.Height,
		RectFocal:    c.Cameras.Focal,
	}
}

// Render returns the headless renderer configuration.
func (c Config) Render() render.Config {
	bg, _ := c.background()
	return render.Config{
		Width:       c.Snapshot.Width,
		Height:      c.Snapshot.Height,
		Background:  bg,
		Fovy:        c.Fovy,
		Supersample: c.Snapshot.Supersample,
	}
}

// GL returns the interactive window configuration.
func (c Config) GL() glview.Config {
	bg, _ := c.background()
	return glview.Config{
		Title:      c.Window.Title,
		Width:      c.Window.Width,
		Height:     c.Window.Height,
		Background: bg,
		Fovy:       c.Fovy,
	}
}
