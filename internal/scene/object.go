package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Class is the base geometry class of a decorative object.
type Class int

const (
	ClassSolid Class = iota
	ClassRing
	ClassLinePath
	ClassPointCloud
)

func (c Class) String() string {
	switch c {
	case ClassSolid:
		return "solid"
	case ClassRing:
		return "ring"
	case ClassLinePath:
		return "line-path"
	case ClassPointCloud:
		return "point-cloud"
	default:
		return "unknown"
	}
}

// Shape is the polyhedron used by a solid.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeIcosahedron
	ShapeOctahedron
	ShapeTorus
	ShapeTetrahedron
	ShapeDodecahedron
)

// solidShapes is the pool a solid's shape is drawn from.
var solidShapes = []Shape{
	ShapeIcosahedron,
	ShapeOctahedron,
	ShapeTorus,
	ShapeTetrahedron,
	ShapeDodecahedron,
}

func (s Shape) String() string {
	switch s {
	case ShapeIcosahedron:
		return "icosahedron"
	case ShapeOctahedron:
		return "octahedron"
	case ShapeTorus:
		return "torus"
	case ShapeTetrahedron:
		return "tetrahedron"
	case ShapeDodecahedron:
		return "dodecahedron"
	default:
		return "none"
	}
}

// Transform is position, Euler rotation (XYZ order, radians) and scale.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Scale    mgl64.Vec3
}

// Identity returns a transform with unit scale.
func Identity() Transform {
	return Transform{Scale: mgl64.Vec3{1, 1, 1}}
}

// Matrix composes translate * rotateX * rotateY * rotateZ * scale.
func (t Transform) Matrix() mgl64.Mat4 {
	return mgl64.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(rotation(t.Rotation)).
		Mul4(mgl64.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

func rotation(r mgl64.Vec3) mgl64.Mat4 {
	return mgl64.HomogRotate3DX(r[0]).
		Mul4(mgl64.HomogRotate3DY(r[1])).
		Mul4(mgl64.HomogRotate3DZ(r[2]))
}

// Object is one decorative element. Everything except Live is fixed at
// generation time.
type Object struct {
	ID          int
	Class       Class
	Shape       Shape
	Color       color.RGBA
	Opacity     float64
	Wireframe   bool
	Interactive bool
	Mesh        *Mesh

	Base Transform
	Live Transform

	FloatSpeed         float64 // Radians per second of the vertical bob; 0 disables it
	RotationSpeed      float64 // Radians added to X and Y rotation per frame
	PointerSensitivity float64 // World units of offset per unit of pointer
}
