package glview

import (
	"github.com/chewxy/math32"
	"github.com/soypat/sfmview/render"
)

type dragMode uint8

const (
	dragNone dragMode = iota
	dragRotate
	dragPan
	dragZoom
)

// interactor turns window input into trackball motion. It holds no GL state.
type interactor struct {
	tb           *render.Trackball
	mode         dragMode
	lastX, lastY float32
	// height of the viewport in pixels, used to scale panning.
	height float32
	quit   bool
}

func (in *interactor) press(mode dragMode, x, y float64) {
	in.mode = mode
	in.lastX, in.lastY = float32(x), float32(y)
}

func (in *interactor) release() { in.mode = dragNone }

func (in *interactor) move(x, y float64) {
	dx, dy := float32(x)-in.lastX, float32(y)-in.lastY
	in.lastX, in.lastY = float32(x), float32(y)
	switch in.mode {
	case dragRotate:
		in.tb.Rotate(dx, dy)
	case dragPan:
		in.tb.Pan(dx, dy, in.height)
	case dragZoom:
		in.tb.Dolly(math32.Pow(1.01, dy))
	}
}

func (in *interactor) scroll(dy float64) { in.tb.Zoom(float32(dy)) }

// char handles a typed character: q and e quit, anything else goes to the trackball.
func (in *interactor) char(r rune) {
	switch r {
	case 'q', 'Q', 'e', 'E':
		in.quit = true
		return
	}
	in.tb.HandleKey(r)
}
