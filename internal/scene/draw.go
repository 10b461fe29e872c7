package scene

import (
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/backdrop/internal/render"
)

const (
	maxBatchVertices = 65532 // Multiple of 3 and 4 that fits uint16 indices
	particleSize     = 0.15  // World units
	lineWidth        = 1
)

// projectedFace is one triangle, or one edge segment when edge is set,
// ready to be painted. Edges use the first two points.
type projectedFace struct {
	depth float64
	pts   [3][2]float32
	clr   color.RGBA
	alpha float64
	edge  bool
}

// batch accumulates triangles and flushes them in index-safe chunks.
type batch struct {
	dst     render.Image
	src     render.Image
	opts    render.DrawTrianglesOptions
	verts   []render.Vertex
	indices []uint16
}

func (b *batch) add(pts [][2]float32, clr color.RGBA, alpha float64, quad bool) {
	n := 3
	if quad {
		n = 4
	}
	if len(b.verts)+n > maxBatchVertices {
		b.flush()
	}
	base := uint16(len(b.verts))
	// Straight alpha: the backend scales RGB by ColorA itself.
	a := float32(alpha)
	r := float32(clr.R) / 255
	g := float32(clr.G) / 255
	bl := float32(clr.B) / 255
	for _, p := range pts[:n] {
		b.verts = append(b.verts, render.Vertex{
			DstX: p[0], DstY: p[1],
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: g, ColorB: bl, ColorA: a,
		})
	}
	b.indices = append(b.indices, base, base+1, base+2)
	if quad {
		b.indices = append(b.indices, base, base+2, base+3)
	}
}

func (b *batch) flush() {
	if len(b.indices) == 0 {
		return
	}
	b.dst.DrawTriangles(b.verts, b.indices, b.src, &b.opts)
	b.verts = b.verts[:0]
	b.indices = b.indices[:0]
}

// fog fades with view depth between near and far.
func fog(depth, near, far float64) float64 {
	if far <= near {
		return 1
	}
	f := (depth - near) / (far - near)
	return 1 - math.Max(0, math.Min(1, f))
}

// draw renders the current state into the surface.
func (h *Host) draw() {
	if h.surface == nil {
		return
	}
	h.surface.Clear()

	sw, sh := h.surface.Size()
	w, ht := float64(sw), float64(sh)
	vp := h.camera.ViewProjection()
	groupM := h.group.Matrix()
	cfg := h.opts.Scene
	antialias := !h.compact

	var faces []projectedFace
	for i := range h.objects {
		o := &h.objects[i]
		if o.Class == ClassPointCloud || o.Mesh.Disposed() {
			continue
		}
		world := groupM.Mul4(o.Live.Matrix())
		verts := make([]mgl64.Vec3, len(o.Mesh.Vertices))
		for k, v := range o.Mesh.Vertices {
			verts[k] = mgl64.TransformCoordinate(v, world)
		}

		if o.Wireframe || len(o.Mesh.Faces) == 0 {
			faces = h.appendEdges(faces, o, verts, vp, w, ht)
			continue
		}

		for _, f := range o.Mesh.Faces {
			a, b, c := verts[f[0]], verts[f[1]], verts[f[2]]
			var pf projectedFace
			visible := true
			for k, p := range [3]mgl64.Vec3{a, b, c} {
				x, y, d, ok := h.camera.Project(vp, p, w, ht)
				if !ok {
					visible = false
					break
				}
				pf.pts[k] = [2]float32{float32(x), float32(y)}
				pf.depth += d / 3
			}
			if !visible {
				continue
			}
			pf.clr = o.Color
			if o.Class == ClassSolid {
				centroid := a.Add(b).Add(c).Mul(1.0 / 3)
				normal := b.Sub(a).Cross(c.Sub(a))
				if normal.Len() > 0 {
					normal = normal.Normalize()
				}
				pf.clr = h.lights.Shade(o.Color, centroid, normal)
			}
			pf.alpha = o.Opacity * fog(pf.depth, cfg.FogNear, cfg.FogFar)
			if pf.alpha <= 0 {
				continue
			}
			faces = append(faces, pf)
		}
	}

	// Far to near; a stroke flushes the pending triangles so it lands on
	// top of everything farther away.
	sort.SliceStable(faces, func(i, j int) bool { return faces[i].depth > faces[j].depth })
	tris := batch{dst: h.surface, src: h.white, opts: render.DrawTrianglesOptions{AntiAlias: antialias}}
	width := float32(lineWidth * h.ratio)
	for _, f := range faces {
		if !f.edge {
			tris.add(f.pts[:], f.clr, f.alpha, false)
			continue
		}
		tris.flush()
		clr := color.NRGBA{f.clr.R, f.clr.G, f.clr.B, uint8(f.alpha * 255)}
		h.deps.Renderer.StrokeLine(h.surface, f.pts[0][0], f.pts[0][1], f.pts[1][0], f.pts[1][1], width, clr, antialias)
	}
	tris.flush()

	if h.cloud >= 0 {
		h.drawCloud(&h.objects[h.cloud], groupM, vp, w, ht)
	}
}

// appendEdges projects the mesh outline of o as painter entries.
func (h *Host) appendEdges(faces []projectedFace, o *Object, verts []mgl64.Vec3, vp mgl64.Mat4, w, ht float64) []projectedFace {
	cfg := h.opts.Scene
	for _, e := range o.Mesh.Edges {
		x0, y0, d0, ok0 := h.camera.Project(vp, verts[e[0]], w, ht)
		x1, y1, d1, ok1 := h.camera.Project(vp, verts[e[1]], w, ht)
		if !ok0 || !ok1 {
			continue
		}
		depth := (d0 + d1) / 2
		alpha := o.Opacity * fog(depth, cfg.FogNear, cfg.FogFar)
		if alpha <= 0 {
			continue
		}
		faces = append(faces, projectedFace{
			depth: depth,
			pts:   [3][2]float32{{float32(x0), float32(y0)}, {float32(x1), float32(y1)}},
			clr:   o.Color,
			alpha: alpha,
			edge:  true,
		})
	}
	return faces
}

// drawCloud paints each point as a small additive quad sized by perspective.
// The cloud moves with the group.
func (h *Host) drawCloud(o *Object, groupM, vp mgl64.Mat4, w, ht float64) {
	if o.Mesh.Disposed() {
		return
	}
	cfg := h.opts.Scene
	focal := ht / 2 / math.Tan(mgl64.DegToRad(h.camera.FOV)/2)
	world := groupM.Mul4(o.Live.Matrix())
	points := batch{dst: h.surface, src: h.white, opts: render.DrawTrianglesOptions{Blend: render.BlendLighter}}
	for k, v := range o.Mesh.Vertices {
		x, y, d, ok := h.camera.Project(vp, mgl64.TransformCoordinate(v, world), w, ht)
		if !ok {
			continue
		}
		alpha := o.Opacity * fog(d, cfg.FogNear, cfg.FogFar)
		if alpha <= 0 {
			continue
		}
		half := float32(particleSize * focal / d / 2)
		fx, fy := float32(x), float32(y)
		quad := [][2]float32{
			{fx - half, fy - half},
			{fx + half, fy - half},
			{fx + half, fy + half},
			{fx - half, fy + half},
		}
		clr := o.Color
		if k < len(o.Mesh.Colors) {
			clr = o.Mesh.Colors[k]
		}
		points.add(quad, clr, alpha, true)
	}
	points.flush()
}
