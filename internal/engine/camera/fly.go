package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Free-fly defaults.
const (
	DefaultSpeed       = 0.1
	DefaultSensitivity = 0.05
	maxPitch           = 89.0
)

// FlyCamera is a free-flying Euler-angle camera. Yaw and pitch are in degrees;
// a yaw of -90 looks down -Z.
type FlyCamera struct {
	pos   mgl32.Vec3
	front mgl32.Vec3
	yaw   float32
	pitch float32

	// Speed is the distance of one movement step.
	Speed float32
	// Sensitivity converts pointer delta to degrees.
	Sensitivity float32
}

// NewFlyCamera returns a camera at pos looking down -Z.
func NewFlyCamera(pos mgl32.Vec3) *FlyCamera {
	c := &FlyCamera{
		pos:         pos,
		yaw:         -90,
		Speed:       DefaultSpeed,
		Sensitivity: DefaultSensitivity,
	}
	c.updateFront()
	return c
}

func (c *FlyCamera) Position() mgl32.Vec3 { return c.pos }

func (c *FlyCamera) Front() mgl32.Vec3 { return c.front }

// Yaw returns the heading in degrees.
func (c *FlyCamera) Yaw() float32 { return c.yaw }

// Pitch returns the elevation in degrees.
func (c *FlyCamera) Pitch() float32 { return c.pitch }

// SetPosition moves the camera without changing its orientation.
func (c *FlyCamera) SetPosition(pos mgl32.Vec3) { c.pos = pos }

// ViewMatrix looks from the position along the front vector.
func (c *FlyCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.pos, c.pos.Add(c.front), worldUp)
}

func (c *FlyCamera) right() mgl32.Vec3 {
	return c.front.Cross(worldUp).Normalize()
}

// HandleMovement moves forward steps along the view direction and right steps
// along its horizontal perpendicular. Negative values move back or left.
func (c *FlyCamera) HandleMovement(forward, right float32) {
	c.pos = c.pos.Add(c.front.Mul(forward * c.Speed))
	c.pos = c.pos.Add(c.right().Mul(right * c.Speed))
}

// HandleDrag turns by a pointer delta. Pitch is clamped to ±89°.
func (c *FlyCamera) HandleDrag(dx, dy float32) {
	c.yaw += dx * c.Sensitivity
	c.pitch += dy * c.Sensitivity
	c.pitch = mgl32.Clamp(c.pitch, -maxPitch, maxPitch)
	c.updateFront()
}

func (c *FlyCamera) updateFront() {
	yaw := float64(mgl32.DegToRad(c.yaw))
	pitch := float64(mgl32.DegToRad(c.pitch))
	c.front = mgl32.Vec3{
		float32(gomath.Cos(yaw) * gomath.Cos(pitch)),
		float32(gomath.Sin(pitch)),
		float32(gomath.Sin(yaw) * gomath.Cos(pitch)),
	}.Normalize()
}

var (
	_ Camera = (*FlyCamera)(nil)
	_ Camera = (*OrbitCamera)(nil)
)
