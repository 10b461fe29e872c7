package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

var worldUp = mgl64.Vec3{0, 1, 0}

// Camera is a perspective camera that always looks at Target.
type Camera struct {
	FOV      float64 // Vertical field of view in degrees
	Aspect   float64
	Near     float64
	Far      float64
	Position mgl64.Vec3
	Target   mgl64.Vec3

	projection mgl64.Mat4
	view       mgl64.Mat4
}

// NewCamera creates a camera at the origin looking down -Z.
func NewCamera(fov, aspect, near, far float64) *Camera {
	c := &Camera{FOV: fov, Aspect: aspect, Near: near, Far: far, Target: mgl64.Vec3{0, 0, -1}}
	c.UpdateProjection()
	c.LookAt(c.Target)
	return c
}

// UpdateProjection rebuilds the projection from FOV, Aspect, Near and Far.
func (c *Camera) UpdateProjection() {
	c.projection = mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// SetAspect changes the aspect ratio; an unchanged value is a no-op.
func (c *Camera) SetAspect(aspect float64) {
	if aspect == c.Aspect {
		return
	}
	c.Aspect = aspect
	c.UpdateProjection()
}

// LookAt points the camera at target from its current Position.
func (c *Camera) LookAt(target mgl64.Vec3) {
	c.Target = target
	c.view = mgl64.LookAtV(c.Position, target, worldUp)
}

// Projection returns the projection matrix.
func (c *Camera) Projection() mgl64.Mat4 { return c.projection }

// View returns the view matrix.
func (c *Camera) View() mgl64.Mat4 { return c.view }

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.projection.Mul4(c.view)
}

// Ray returns the world-space ray through a point in normalized device
// coordinates (x right, y up, both in [-1,1]).
func (c *Camera) Ray(ndcX, ndcY float64) Ray {
	inv := c.ViewProjection().Inv()
	near := mgl64.TransformCoordinate(mgl64.Vec3{ndcX, ndcY, -1}, inv)
	far := mgl64.TransformCoordinate(mgl64.Vec3{ndcX, ndcY, 1}, inv)
	return Ray{Origin: c.Position, Dir: far.Sub(near).Normalize()}
}

// Project maps a world point to surface pixels. depth is the distance along
// the view axis; ok is false for points behind the near plane.
func (c *Camera) Project(vp mgl64.Mat4, p mgl64.Vec3, width, height float64) (x, y, depth float64, ok bool) {
	clip := vp.Mul4x1(p.Vec4(1))
	w := clip[3]
	if w < c.Near {
		return 0, 0, w, false
	}
	x = (clip[0]/w + 1) / 2 * width
	y = (1 - clip[1]/w) / 2 * height
	return x, y, w, true
}
