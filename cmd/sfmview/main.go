// Command sfmview shows structure-from-motion reconstructions: sparse points
// and the poses of the cameras that observed them.
//
//	sfmview demo
//	sfmview --spheres view scene.yaml
//	sfmview --snapshot out.png view scene.yaml
package main

import (
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/soypat/sfmview"
	"github.com/soypat/sfmview/bundle"
	"github.com/soypat/sfmview/internal/config"
	"github.com/soypat/sfmview/internal/scenefile"
	"github.com/soypat/sfmview/render"
	"github.com/soypat/sfmview/render/glview"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/spatial/r3"
)

func main() {
	log.SetPrefix("sfmview: ")
	log.SetFlags(0)
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "sfmview",
		Usage: "view structure from motion points and camera poses",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to YAML viewer configuration",
			},
			&cli.BoolFlag{
				Name:  "spheres",
				Usage: "draw points as spheres instead of pixels",
			},
			&cli.StringFlag{
				Name:  "snapshot",
				Usage: "write a PNG image to this path instead of opening a window",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "random seed for demo points and point cloud overwrites, 0 uses the time",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "demo",
				Usage:  "show 10 random spheres and a camera at the origin",
				Action: demo,
			},
			{
				Name:      "view",
				Usage:     "show the reconstruction in a YAML scene file",
				ArgsUsage: "FILE",
				Action:    view,
			},
		},
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.Default(), nil
}

func viewer(c *cli.Context, cfg config.Config) sfmview.Viewer {
	if path := c.String("snapshot"); path != "" {
		return render.PNGViewer{Path: path, Config: cfg.Render()}
	}
	return glview.Viewer{Config: cfg.GL()}
}

func newRand(c *cli.Context) *rand.Rand {
	seed := c.Int64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func demo(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	rng := newRand(c)
	sc := sfmview.NewSphereCloud(cfg.Points.SphereMax, cfg.Points.SphereRadius)
	for i := 0; i < 10; i++ {
		p := r3.Vec{X: 2*rng.Float64() - 1, Y: 2*rng.Float64() - 1, Z: 2*rng.Float64() - 1}
		if err := sc.AddObject(p, nil); err != nil {
			return err
		}
	}
	opts := cfg.Options()
	rects := sfmview.NewOrientedRectangles(opts.RectMax, opts.RectWidth, opts.RectHeight, opts.RectFocal)
	if err := rects.AddRect(r3.Vec{}, bundle.Identity, 0); err != nil {
		return err
	}
	return show(c, viewer(c, cfg), sc, rects)
}

func view(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("view needs exactly one scene file")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	in, err := scenefile.Load(c.Args().First())
	if err != nil {
		return err
	}
	opts := cfg.Options()
	opts.UseSpheres = opts.UseSpheres || c.Bool("spheres")
	opts.Rand = newRand(c)
	log.Printf("%d points, %d cameras", len(in.Points), len(in.CameraPositions))
	return sfmview.RenderPtsAndCams(recorder{c: c, v: viewer(c, cfg)}, in, opts)
}

func show(c *cli.Context, v sfmview.Viewer, renderables ...sfmview.Renderable) error {
	return recorder{c: c, v: v}.View(renderables...)
}

// recorder logs where snapshots are written.
type recorder struct {
	c *cli.Context
	v sfmview.Viewer
}

func (r recorder) View(renderables ...sfmview.Renderable) error {
	if err := r.v.View(renderables...); err != nil {
		return err
	}
	if path := r.c.String("snapshot"); path != "" {
		log.Printf("wrote %s", path)
	}
	return nil
}
