// Package glview is the interactive OpenGL window for sfmview scenes.
//
// Left drag rotates the camera about the scene, middle drag pans and right
// drag or the scroll wheel zooms. The r key resets the camera, q, e and
// Escape close the window. The window must be driven from the main thread.
package glview

import (
	"image/color"
	"log"
	"runtime"

	"github.com/go-gl/gl/all-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/sfmview"
	"github.com/soypat/sfmview/render"
)

func init() {
	runtime.LockOSThread() // For GL.
}

// Config configures the window.
type Config struct {
	Title         string
	Width, Height int
	Background    color.NRGBA
	// vertical field of view in degrees
	Fovy float64
	// KeyFunc, if set, is offered key presses before the built-in bindings.
	KeyFunc func(tb *render.Trackball, key rune) bool
}

// DefaultConfig returns a 1024x768 window with a black background.
func DefaultConfig() Config {
	return Config{
		Title:      "sfmview",
		Width:      1024,
		Height:     768,
		Background: color.NRGBA{A: 255},
		Fovy:       render.DefaultFovy,
	}
}

// Renderer shows a scene in a window.
type Renderer struct {
	cfg   Config
	scene sfmview.Scene
}

// New composes the renderables into a scene. The renderables are read once.
func New(cfg Config, renderables ...sfmview.Renderable) *Renderer {
	return &Renderer{cfg: cfg, scene: sfmview.NewScene(renderables...)}
}

// Scene returns the scene drawn by the renderer.
func (r *Renderer) Scene() sfmview.Scene { return r.scene }

// Run opens the window and blocks until it is closed.
func (r *Renderer) Run() (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("glview: %v", p)
		}
	}()
	if r.cfg.Width <= 0 || r.cfg.Height <= 0 {
		return errors.Errorf("invalid window size %dx%d", r.cfg.Width, r.cfg.Height)
	}
	window, terminate, err := glgl.InitWithCurrentWindow33(glgl.WindowConfig{
		Title:   r.cfg.Title,
		Version: [2]int{3, 3},
		Width:   r.cfg.Width,
		Height:  r.cfg.Height,
	})
	if err != nil {
		return errors.Wrap(err, "starting GLFW")
	}
	defer terminate()
	log.Printf("OpenGL version %s", gl.GoStr(gl.GetString(gl.VERSION)))

	prog, err := compileProgram()
	if err != nil {
		return err
	}
	defer prog.delete()

	actors := r.scene.Actors()
	meshes := make([]*glMesh, len(actors))
	for i := range actors {
		meshes[i] = uploadMesh(newMesh(&actors[i]))
	}
	defer func() {
		for _, m := range meshes {
			m.delete()
		}
	}()

	tb := render.NewTrackball(r.scene.Bounds(), r.cfg.Fovy)
	tb.KeyFunc = r.cfg.KeyFunc
	in := &interactor{tb: tb, height: float32(r.cfg.Height)}
	bindInput(window, in)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	bg := r.cfg.Background
	gl.ClearColor(float32(bg.R)/255, float32(bg.G)/255, float32(bg.B)/255, float32(bg.A)/255)

	for !window.ShouldClose() {
		if in.quit {
			window.SetShouldClose(true)
			break
		}
		w, h := window.GetFramebufferSize()
		if w == 0 || h == 0 {
			glfw.WaitEvents()
			continue
		}
		_, winHeight := window.GetSize()
		in.height = float32(winHeight)

		gl.Viewport(0, 0, int32(w), int32(h))
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		projView := tb.Projection(float32(w) / float32(h)).Mul4(tb.ViewMatrix())
		gl.UniformMatrix4fv(prog.uProjView, 1, false, &projView[0])
		light := tb.Direction()
		gl.Uniform3f(prog.uLight, light[0], light[1], light[2])
		for _, m := range meshes {
			m.draw(prog)
		}
		window.SwapBuffers()
		glfw.WaitEvents()
	}
	return nil
}

func bindInput(window *glfw.Window, in *interactor) {
	window.SetCharCallback(func(_ *glfw.Window, char rune) {
		in.char(char)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			in.quit = true
			w.SetShouldClose(true)
		}
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Release {
			in.release()
			return
		}
		x, y := w.GetCursorPos()
		switch button {
		case glfw.MouseButtonLeft:
			in.press(dragRotate, x, y)
		case glfw.MouseButtonMiddle:
			in.press(dragPan, x, y)
		case glfw.MouseButtonRight:
			in.press(dragZoom, x, y)
		}
	})
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		in.move(x, y)
	})
	window.SetScrollCallback(func(_ *glfw.Window, _, dy float64) {
		in.scroll(dy)
	})
}

// Viewer is a sfmview.Viewer that opens a window for every call to View.
type Viewer struct {
	Config Config
}

var _ sfmview.Viewer = Viewer{}

// View shows the renderables and blocks until the window is closed.
func (v Viewer) View(renderables ...sfmview.Renderable) error {
	return New(v.Config, renderables...).Run()
}
