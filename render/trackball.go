package render

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/sfmview/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

const maxPitch = 89

// Trackball is a camera orbiting a target point. Dragging rotates the camera
// about the target, panning moves the target in the view plane and dollying
// changes the distance to the target.
type Trackball struct {
	Target   mgl32.Vec3
	Distance float32
	// Yaw is the rotation about the world Y axis in degrees.
	Yaw float32
	// Pitch is the elevation above the XZ plane in degrees, within ±89.
	Pitch float32
	// Fovy is the vertical field of view in degrees.
	Fovy float32
	// RotateSpeed is in degrees per pixel dragged.
	RotateSpeed float32
	// KeyFunc, if set, is offered every key press before the built-in
	// bindings. Returning true marks the key as handled. It is the place
	// to hook custom keyboard navigation.
	KeyFunc func(tb *Trackball, key rune) bool

	// center and radius bound the framed scene.
	center mgl32.Vec3
	radius float32
	home   trackballPose
}

type trackballPose struct {
	target     mgl32.Vec3
	distance   float32
	yaw, pitch float32
}

// NewTrackball returns a trackball framing the bounding box b with the
// vertical field of view fovy in degrees, looking down the -Z axis.
func NewTrackball(b d3.Box, fovy float64) *Trackball {
	v := Frame(b, fovy)
	offset := r3.Sub(v.Eye, v.Center)
	dist := r3.Norm(offset)
	tb := &Trackball{
		Target:      vec32(v.Center),
		Distance:    float32(dist),
		Fovy:        float32(v.Fovy),
		RotateSpeed: 0.5,
		center:      vec32(v.Center),
		radius:      float32(dist * math32sin(0.5*v.Fovy)),
	}
	tb.home = tb.pose()
	return tb
}

func math32sin(deg float64) float64 {
	return float64(math32.Sin(mgl32.DegToRad(float32(deg))))
}

func vec32(v r3.Vec) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

func vec64(v mgl32.Vec3) r3.Vec {
	return r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

func (tb *Trackball) pose() trackballPose {
	return trackballPose{target: tb.Target, distance: tb.Distance, yaw: tb.Yaw, pitch: tb.Pitch}
}

// Reset returns the camera to the pose it was created with.
func (tb *Trackball) Reset() {
	tb.Target = tb.home.target
	tb.Distance = tb.home.distance
	tb.Yaw = tb.home.yaw
	tb.Pitch = tb.home.pitch
}

// Direction returns the unit vector from the target to the eye.
func (tb *Trackball) Direction() mgl32.Vec3 {
	yaw := mgl32.DegToRad(tb.Yaw)
	pitch := mgl32.DegToRad(tb.Pitch)
	return mgl32.Vec3{
		math32.Cos(pitch) * math32.Sin(yaw),
		math32.Sin(pitch),
		math32.Cos(pitch) * math32.Cos(yaw),
	}
}

// Eye returns the camera position.
func (tb *Trackball) Eye() mgl32.Vec3 {
	return tb.Target.Add(tb.Direction().Mul(tb.Distance))
}

// ViewMatrix returns the world to camera transform.
func (tb *Trackball) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(tb.Eye(), tb.Target, mgl32.Vec3{0, 1, 0})
}

// clipRange returns clipping planes enclosing the framed scene as seen from
// the current eye, wherever panning has moved the target.
func (tb *Trackball) clipRange() (near, far float64) {
	dist := math32.Max(tb.Eye().Sub(tb.center).Len(), tb.radius)
	return clipRange(float64(dist), float64(tb.radius))
}

// Projection returns the perspective projection for the given aspect ratio
// with clipping planes enclosing the framed scene.
func (tb *Trackball) Projection(aspect float32) mgl32.Mat4 {
	near, far := tb.clipRange()
	return mgl32.Perspective(mgl32.DegToRad(tb.Fovy), aspect, float32(near), float32(far))
}

// View returns the current camera as a View.
func (tb *Trackball) View() View {
	near, far := tb.clipRange()
	return View{
		Eye:    vec64(tb.Eye()),
		Center: vec64(tb.Target),
		Up:     r3.Vec{Y: 1},
		Fovy:   float64(tb.Fovy),
		Near:   near,
		Far:    far,
	}
}

// Rotate orbits the camera by a mouse drag of dx, dy pixels.
func (tb *Trackball) Rotate(dx, dy float32) {
	tb.Yaw -= dx * tb.RotateSpeed
	tb.Yaw = math32.Mod(tb.Yaw, 360)
	tb.Pitch += dy * tb.RotateSpeed
	tb.Pitch = mgl32.Clamp(tb.Pitch, -maxPitch, maxPitch)
}

// Pan moves the target so the scene follows a drag of dx, dy pixels in a
// viewport viewportHeight pixels tall.
func (tb *Trackball) Pan(dx, dy, viewportHeight float32) {
	if viewportHeight <= 0 {
		return
	}
	worldPerPixel := 2 * tb.Distance * math32.Tan(0.5*mgl32.DegToRad(tb.Fovy)) / viewportHeight
	forward := tb.Direction().Mul(-1)
	right := forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	up := right.Cross(forward).Normalize()
	tb.Target = tb.Target.Sub(right.Mul(dx * worldPerPixel)).Add(up.Mul(dy * worldPerPixel))
}

// Dolly multiplies the distance to the target by factor.
func (tb *Trackball) Dolly(factor float32) {
	if factor <= 0 {
		return
	}
	minDist := 1e-3 * tb.radius
	tb.Distance = math32.Max(tb.Distance*factor, minDist)
}

// Zoom moves the camera towards the target for positive steps and away for
// negative steps. One step is a scroll wheel notch.
func (tb *Trackball) Zoom(steps float32) {
	tb.Dolly(math32.Pow(0.9, steps))
}

// HandleKey runs the key through KeyFunc and then the built-in bindings:
// r resets the camera. It reports whether the key was handled.
func (tb *Trackball) HandleKey(key rune) bool {
	if tb.KeyFunc != nil && tb.KeyFunc(tb, key) {
		return true
	}
	switch key {
	case 'r', 'R':
		tb.Reset()
		return true
	}
	return false
}
