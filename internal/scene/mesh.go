package scene

import (
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is the geometry buffer behind one decorative object. Solids and rings
// carry triangle faces; line paths carry only edges; point clouds carry only
// vertices with per-point colors.
type Mesh struct {
	Vertices []mgl64.Vec3
	Faces    [][3]int
	Edges    [][2]int
	Colors   []color.RGBA // Per-vertex, point clouds only
	Radius   float64      // Bounding sphere radius around the local origin

	disposed bool
}

// Dispose releases the buffers. Calling it again is a no-op.
func (m *Mesh) Dispose() {
	if m == nil || m.disposed {
		return
	}
	m.disposed = true
	m.Vertices = nil
	m.Faces = nil
	m.Edges = nil
	m.Colors = nil
}

// Disposed reports whether Dispose has run.
func (m *Mesh) Disposed() bool {
	return m == nil || m.disposed
}

func newMesh(verts []mgl64.Vec3, faces [][3]int) *Mesh {
	m := &Mesh{Vertices: verts, Faces: faces}
	m.Edges = edgesOf(faces)
	m.Radius = boundingRadius(verts)
	return m
}

func boundingRadius(verts []mgl64.Vec3) float64 {
	r := 0.0
	for _, v := range verts {
		r = math.Max(r, v.Len())
	}
	return r
}

func edgesOf(faces [][3]int) [][2]int {
	seen := make(map[[2]int]bool, len(faces)*3)
	var edges [][2]int
	for _, f := range faces {
		for k := 0; k < 3; k++ {
			a, b := f[k], f[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			e := [2]int{a, b}
			if !seen[e] {
				seen[e] = true
				edges = append(edges, e)
			}
		}
	}
	return edges
}

// scaleTo pushes every vertex onto the sphere of the given radius.
func scaleTo(verts []mgl64.Vec3, radius float64) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(verts))
	for i, v := range verts {
		out[i] = v.Normalize().Mul(radius)
	}
	return out
}

// hullFaces finds the triangular faces of a convex polyhedron whose faces
// are all equilateral: every triple of mutually adjacent vertices. Faces are
// wound counter-clockwise seen from outside.
func hullFaces(verts []mgl64.Vec3) [][3]int {
	edge := math.Inf(1)
	for i := range verts {
		for j := i + 1; j < len(verts); j++ {
			edge = math.Min(edge, verts[i].Sub(verts[j]).Len())
		}
	}
	adjacent := func(i, j int) bool {
		return math.Abs(verts[i].Sub(verts[j]).Len()-edge) < edge*1e-6
	}

	var faces [][3]int
	for i := range verts {
		for j := i + 1; j < len(verts); j++ {
			if !adjacent(i, j) {
				continue
			}
			for k := j + 1; k < len(verts); k++ {
				if adjacent(i, k) && adjacent(j, k) {
					faces = append(faces, outward(verts, [3]int{i, j, k}))
				}
			}
		}
	}
	return faces
}

func outward(verts []mgl64.Vec3, f [3]int) [3]int {
	a, b, c := verts[f[0]], verts[f[1]], verts[f[2]]
	n := b.Sub(a).Cross(c.Sub(a))
	centroid := a.Add(b).Add(c)
	if n.Dot(centroid) < 0 {
		return [3]int{f[0], f[2], f[1]}
	}
	return f
}

// subdivide splits every face into four and reprojects onto the sphere.
func subdivide(verts []mgl64.Vec3, faces [][3]int, radius float64) ([]mgl64.Vec3, [][3]int) {
	verts = append([]mgl64.Vec3(nil), verts...)
	mid := make(map[[2]int]int)
	midpoint := func(a, b int) int {
		key := [2]int{a, b}
		if a > b {
			key = [2]int{b, a}
		}
		if idx, ok := mid[key]; ok {
			return idx
		}
		v := verts[a].Add(verts[b]).Normalize().Mul(radius)
		verts = append(verts, v)
		mid[key] = len(verts) - 1
		return len(verts) - 1
	}

	out := make([][3]int, 0, len(faces)*4)
	for _, f := range faces {
		ab := midpoint(f[0], f[1])
		bc := midpoint(f[1], f[2])
		ca := midpoint(f[2], f[0])
		out = append(out,
			[3]int{f[0], ab, ca},
			[3]int{ab, f[1], bc},
			[3]int{ca, bc, f[2]},
			[3]int{ab, bc, ca},
		)
	}
	return verts, out
}

var phi = (1 + math.Sqrt(5)) / 2

func icosahedronVertices() []mgl64.Vec3 {
	return []mgl64.Vec3{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}
}

// Icosahedron builds an icosahedron of the given radius, subdivided detail
// times.
func Icosahedron(radius float64, detail int) *Mesh {
	verts := scaleTo(icosahedronVertices(), radius)
	faces := hullFaces(verts)
	for i := 0; i < detail; i++ {
		verts, faces = subdivide(verts, faces, radius)
	}
	return newMesh(verts, faces)
}

// Octahedron builds a regular octahedron of the given radius.
func Octahedron(radius float64) *Mesh {
	verts := []mgl64.Vec3{
		{radius, 0, 0}, {-radius, 0, 0},
		{0, radius, 0}, {0, -radius, 0},
		{0, 0, radius}, {0, 0, -radius},
	}
	return newMesh(verts, hullFaces(verts))
}

// Tetrahedron builds a regular tetrahedron of the given radius.
func Tetrahedron(radius float64) *Mesh {
	verts := scaleTo([]mgl64.Vec3{
		{1, 1, 1}, {-1, -1, 1}, {-1, 1, -1}, {1, -1, -1},
	}, radius)
	return newMesh(verts, hullFaces(verts))
}

// Dodecahedron builds a regular dodecahedron of the given radius as the dual
// of an icosahedron: one vertex per icosahedron face, one pentagon per
// icosahedron vertex, fanned into triangles.
func Dodecahedron(radius float64) *Mesh {
	ico := icosahedronVertices()
	icoFaces := hullFaces(ico)

	verts := make([]mgl64.Vec3, len(icoFaces))
	for i, f := range icoFaces {
		verts[i] = ico[f[0]].Add(ico[f[1]]).Add(ico[f[2]]).Normalize().Mul(radius)
	}

	var faces [][3]int
	for vi, axis := range ico {
		var ring []int
		for fi, f := range icoFaces {
			if f[0] == vi || f[1] == vi || f[2] == vi {
				ring = append(ring, fi)
			}
		}
		n := axis.Normalize()
		// Any vector not parallel to n gives a basis for the pentagon plane.
		ref := mgl64.Vec3{1, 0, 0}
		if math.Abs(n.Dot(ref)) > 0.9 {
			ref = mgl64.Vec3{0, 1, 0}
		}
		u := ref.Sub(n.Mul(n.Dot(ref))).Normalize()
		w := n.Cross(u)
		sort.Slice(ring, func(a, b int) bool {
			pa, pb := verts[ring[a]], verts[ring[b]]
			return math.Atan2(pa.Dot(w), pa.Dot(u)) < math.Atan2(pb.Dot(w), pb.Dot(u))
		})
		for k := 1; k+1 < len(ring); k++ {
			faces = append(faces, outward(verts, [3]int{ring[0], ring[k], ring[k+1]}))
		}
	}
	return newMesh(verts, faces)
}

// Torus builds a torus lying in the XY plane around the Z axis.
func Torus(radius, tube float64, radialSegments, tubularSegments int) *Mesh {
	verts := make([]mgl64.Vec3, 0, radialSegments*tubularSegments)
	for j := 0; j < radialSegments; j++ {
		v := float64(j) / float64(radialSegments) * 2 * math.Pi
		for i := 0; i < tubularSegments; i++ {
			u := float64(i) / float64(tubularSegments) * 2 * math.Pi
			verts = append(verts, mgl64.Vec3{
				(radius + tube*math.Cos(v)) * math.Cos(u),
				(radius + tube*math.Cos(v)) * math.Sin(u),
				tube * math.Sin(v),
			})
		}
	}

	idx := func(j, i int) int {
		return (j%radialSegments)*tubularSegments + i%tubularSegments
	}
	faces := make([][3]int, 0, radialSegments*tubularSegments*2)
	for j := 0; j < radialSegments; j++ {
		for i := 0; i < tubularSegments; i++ {
			a, b := idx(j, i), idx(j+1, i)
			c, d := idx(j+1, i+1), idx(j, i+1)
			faces = append(faces, [3]int{a, b, d}, [3]int{b, c, d})
		}
	}
	return newMesh(verts, faces)
}

// Spiral builds an open helix polyline of n points rising through height
// over the given number of turns.
func Spiral(radius, height, turns float64, n int) *Mesh {
	verts := make([]mgl64.Vec3, n)
	edges := make([][2]int, 0, n)
	for j := 0; j < n; j++ {
		t := float64(j) / float64(n)
		angle := t * turns * 2 * math.Pi
		verts[j] = mgl64.Vec3{math.Cos(angle) * radius, t*height - height/2, math.Sin(angle) * radius}
		if j > 0 {
			edges = append(edges, [2]int{j - 1, j})
		}
	}
	return &Mesh{Vertices: verts, Edges: edges, Radius: boundingRadius(verts)}
}

// PointCloud wraps precomputed points and colors.
func PointCloud(points []mgl64.Vec3, colors []color.RGBA) *Mesh {
	return &Mesh{Vertices: points, Colors: colors, Radius: boundingRadius(points)}
}
