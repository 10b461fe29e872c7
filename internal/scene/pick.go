package scene

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half-line in world space. Dir is unit length.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// IntersectSphere reports whether the ray passes within radius of center
// in front of the origin.
func (r Ray) IntersectSphere(center mgl64.Vec3, radius float64) bool {
	oc := center.Sub(r.Origin)
	along := oc.Dot(r.Dir)
	distSq := oc.Dot(oc) - along*along
	if distSq > radius*radius {
		return false
	}
	// Behind the origin and not containing it.
	return along >= 0 || oc.Dot(oc) <= radius*radius
}

// IntersectTriangle returns the distance to a double-sided triangle
// (Moller-Trumbore).
func (r Ray) IntersectTriangle(a, b, c mgl64.Vec3) (float64, bool) {
	const eps = 1e-9
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < eps {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t < eps {
		return 0, false
	}
	return t, true
}

// Hit is one object crossed by a ray.
type Hit struct {
	ID       int
	Distance float64
}

// Intersect tests the ray against the faces of the given objects placed
// under the group matrix. Each object appears at most once, nearest first.
func Intersect(ray Ray, objects []Object, ids []int, group mgl64.Mat4) []Hit {
	var hits []Hit
	for _, id := range ids {
		o := &objects[id]
		if o.Mesh.Disposed() || len(o.Mesh.Faces) == 0 {
			continue
		}
		world := group.Mul4(o.Live.Matrix())

		center := mgl64.TransformCoordinate(mgl64.Vec3{}, world)
		scale := math.Max(math.Abs(o.Live.Scale[0]), math.Max(math.Abs(o.Live.Scale[1]), math.Abs(o.Live.Scale[2])))
		if !ray.IntersectSphere(center, o.Mesh.Radius*scale) {
			continue
		}

		verts := make([]mgl64.Vec3, len(o.Mesh.Vertices))
		for i, v := range o.Mesh.Vertices {
			verts[i] = mgl64.TransformCoordinate(v, world)
		}
		best, found := math.Inf(1), false
		for _, f := range o.Mesh.Faces {
			if t, ok := ray.IntersectTriangle(verts[f[0]], verts[f[1]], verts[f[2]]); ok && t < best {
				best, found = t, true
			}
		}
		if found {
			hits = append(hits, Hit{ID: id, Distance: best})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}
