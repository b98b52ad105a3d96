// Package camera provides the perspective camera and the director that
// eases it toward scroll and interaction dependent target poses.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/nahome/folio3d/internal/scene"
)

// Camera is a perspective camera positioned by an Euler rotation in radians
// (yaw about Y, then pitch about X, then roll about Z).
type Camera struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3

	FOV    float32 // vertical, degrees
	Aspect float32
	Near   float32
	Far    float32
}

// NewPerspective creates a camera at the origin looking down -Z.
func NewPerspective(fov, aspect, near, far float32) *Camera {
	if aspect <= 0 {
		aspect = 1
	}
	return &Camera{
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
}

// SetAspect updates the aspect ratio from a viewport size. Zero sizes are
// ignored (minimized windows report 0x0).
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// Pose returns the current position and rotation.
func (c *Camera) Pose() Pose {
	return Pose{Position: c.Position, Rotation: c.Rotation}
}

// SetPose moves the camera.
func (c *Camera) SetPose(p Pose) {
	c.Position = p.Position
	c.Rotation = p.Rotation
}

// Quaternion returns the camera orientation.
func (c *Camera) Quaternion() mgl32.Quat {
	return scene.Euler(c.Rotation.X(), c.Rotation.Y(), c.Rotation.Z())
}

// Forward returns the viewing direction in world space.
func (c *Camera) Forward() mgl32.Vec3 {
	return c.Quaternion().Rotate(mgl32.Vec3{0, 0, -1})
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl32.Mat4 {
	world := mgl32.Translate3D(c.Position.X(), c.Position.Y(), c.Position.Z()).Mul4(c.Quaternion().Mat4())
	return world.Inv()
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// LookAtRotation returns the Euler rotation that points a camera at from
// toward to. Roll is always zero.
func LookAtRotation(from, to mgl32.Vec3) mgl32.Vec3 {
	d := to.Sub(from)
	if d.Len() < 1e-6 {
		return mgl32.Vec3{}
	}
	yaw := gomath.Atan2(float64(-d.X()), float64(-d.Z()))
	horiz := gomath.Hypot(float64(d.X()), float64(d.Z()))
	pitch := gomath.Atan2(float64(d.Y()), horiz)
	return mgl32.Vec3{float32(pitch), float32(yaw), 0}
}
