package scene

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/backdrop/internal/config"
)

// Layout constants for the generated set.
const (
	solidMinSize   = 1.5
	solidSizeRange = 2.0
	solidOpacity   = 0.7
	wireframeOdds  = 0.4

	ringBaseRadius = 2.0
	ringStep       = 0.5
	ringTube       = 0.1
	ringOpacity    = 0.4

	spiralPoints  = 100
	spiralTurns   = 2
	spiralHeight  = 20
	spiralOpacity = 0.3

	cloudRadius  = 40
	cloudHeight  = 40
	cloudDepth   = -20
	cloudOpacity = 0.6
)

// solidBounds is the box solids are scattered in, centred at solidCenter.
var (
	solidBounds = mgl64.Vec3{30, 25, 20}
	solidCenter = mgl64.Vec3{0, 0, -10}
)

// Generate builds the full decorative set for one mount. IDs equal slice
// indices. Solids come first and are the only interactive objects; the
// point cloud, if any, is last.
func Generate(counts config.Counts, palette []color.RGBA, rng *rand.Rand) []Object {
	total := counts.Solids + counts.Rings + counts.Spirals
	if counts.Particles > 0 {
		total++
	}
	objects := make([]Object, 0, total)

	add := func(o Object) {
		o.ID = len(objects)
		o.Live = o.Base
		objects = append(objects, o)
	}

	for i := 0; i < counts.Solids; i++ {
		shape := solidShapes[rng.Intn(len(solidShapes))]
		size := solidMinSize + rng.Float64()*solidSizeRange
		base := Identity()
		base.Position = mgl64.Vec3{
			(rng.Float64() - 0.5) * solidBounds[0],
			(rng.Float64() - 0.5) * solidBounds[1],
			(rng.Float64()-0.5)*solidBounds[2] + solidCenter[2],
		}
		base.Rotation = mgl64.Vec3{
			rng.Float64() * math.Pi,
			rng.Float64() * math.Pi,
			rng.Float64() * math.Pi,
		}
		add(Object{
			Class:              ClassSolid,
			Shape:              shape,
			Color:              palette[rng.Intn(len(palette))],
			Opacity:            solidOpacity,
			Wireframe:          rng.Float64() < wireframeOdds,
			Interactive:        true,
			Mesh:               solidMesh(shape, size),
			Base:               base,
			FloatSpeed:         0.5 + rng.Float64()*0.5,
			RotationSpeed:      (rng.Float64() - 0.5) * 0.03,
			PointerSensitivity: 2 + rng.Float64()*3,
		})
	}

	for i := 0; i < counts.Rings; i++ {
		base := Identity()
		base.Position = mgl64.Vec3{0, 0, -15 - float64(i)*2}
		base.Rotation = mgl64.Vec3{math.Pi / 2, 0, 0}
		add(Object{
			Class:              ClassRing,
			Color:              palette[i%len(palette)],
			Opacity:            ringOpacity,
			Mesh:               Torus(ringBaseRadius+float64(i)*ringStep, ringTube, 6, 64),
			Base:               base,
			RotationSpeed:      0.001 + float64(i)*0.0002,
			PointerSensitivity: 1,
		})
	}

	for i := 0; i < counts.Spirals; i++ {
		base := Identity()
		base.Position = mgl64.Vec3{0, 0, -20}
		add(Object{
			Class:              ClassLinePath,
			Color:              palette[i%len(palette)],
			Opacity:            spiralOpacity,
			Mesh:               Spiral(5+float64(i)*2, spiralHeight, spiralTurns, spiralPoints),
			Base:               base,
			RotationSpeed:      0.002,
			PointerSensitivity: 0.5,
		})
	}

	if counts.Particles > 0 {
		add(Object{
			Class:         ClassPointCloud,
			Color:         color.RGBA{255, 255, 255, 255},
			Opacity:       cloudOpacity,
			Mesh:          galaxy(counts.Particles, palette, rng),
			Base:          Identity(),
			RotationSpeed: 0.001,
		})
	}

	return objects
}

func solidMesh(shape Shape, size float64) *Mesh {
	switch shape {
	case ShapeIcosahedron:
		return Icosahedron(size, 1)
	case ShapeOctahedron:
		return Octahedron(size)
	case ShapeTorus:
		return Torus(size, size*0.4, 16, 32)
	case ShapeTetrahedron:
		return Tetrahedron(size)
	default:
		return Dodecahedron(size)
	}
}

// galaxy scatters n points uniformly in radius and angle around the Y axis,
// which crowds them toward the centre.
func galaxy(n int, palette []color.RGBA, rng *rand.Rand) *Mesh {
	points := make([]mgl64.Vec3, n)
	colors := make([]color.RGBA, n)
	for i := range points {
		radius := rng.Float64() * cloudRadius
		angle := rng.Float64() * 2 * math.Pi
		height := (rng.Float64() - 0.5) * cloudHeight
		points[i] = mgl64.Vec3{
			math.Cos(angle) * radius,
			height,
			math.Sin(angle)*radius + cloudDepth,
		}
		colors[i] = palette[rng.Intn(len(palette))]
	}
	return PointCloud(points, colors)
}
