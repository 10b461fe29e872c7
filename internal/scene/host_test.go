package scene

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/backdrop/internal/anim"
	"chosenoffset.com/backdrop/internal/config"
	"chosenoffset.com/backdrop/internal/input"
	"chosenoffset.com/backdrop/internal/render/rendertest"
	"chosenoffset.com/backdrop/internal/scroll"
)

const frame = 1.0 / 60.0

type fixture struct {
	renderer *rendertest.Renderer
	ticker   *anim.Ticker
	events   *input.Dispatcher
	smoother *scroll.Smoother
	host     *Host
}

func mountWith(t *testing.T, cfg config.SceneConfig, vp Viewport) *fixture {
	t.Helper()
	f := &fixture{
		renderer: &rendertest.Renderer{},
		ticker:   anim.NewTicker(),
		events:   input.NewDispatcher(),
	}
	f.smoother = scroll.NewSmoother(f.ticker, scroll.DefaultOptions())
	f.host = Mount(Options{Scene: cfg, Scrub: 0.5}, vp, Deps{
		Renderer: f.renderer,
		Ticker:   f.ticker,
		Inputs:   f.events,
		Scroll:   f.smoother,
		Rand:     rand.New(rand.NewSource(1)),
	})
	return f
}

func (f *fixture) run(n int) {
	for i := 0; i < n; i++ {
		f.ticker.Tick(frame)
	}
}

func desktop() Viewport {
	return Viewport{Width: 1280, Height: 800, PixelRatio: 1}
}

func TestMountCreatesConfiguredCounts(t *testing.T) {
	cfg := config.DefaultConfig().Scene
	f := mountWith(t, cfg, desktop())
	defer f.host.Unmount()

	count := func() map[Class]int {
		byClass := make(map[Class]int)
		for i, o := range f.host.Objects() {
			if o.ID != i {
				t.Errorf("Expected object ID %d to match its index", o.ID)
			}
			byClass[o.Class]++
		}
		return byClass
	}

	want := map[Class]int{
		ClassSolid:      cfg.Counts.Solids,
		ClassRing:       cfg.Counts.Rings,
		ClassLinePath:   cfg.Counts.Spirals,
		ClassPointCloud: 1,
	}
	total := len(f.host.Objects())

	for _, frames := range []int{0, 1, 60} {
		f.run(frames)
		got := count()
		for class, n := range want {
			if got[class] != n {
				t.Errorf("Expected %d %s objects after %d frames, got %d", n, class, frames, got[class])
			}
		}
		if len(f.host.Objects()) != total {
			t.Errorf("Expected object count to stay %d, got %d", total, len(f.host.Objects()))
		}
	}

	if len(f.host.Interactive()) != cfg.Counts.Solids {
		t.Errorf("Expected %d interactive objects, got %d", cfg.Counts.Solids, len(f.host.Interactive()))
	}
	for _, id := range f.host.Interactive() {
		if f.host.Objects()[id].Class != ClassSolid {
			t.Errorf("Expected only solids to be interactive, got %s", f.host.Objects()[id].Class)
		}
	}
}

func TestMountCapsPixelRatio(t *testing.T) {
	f := mountWith(t, config.DefaultConfig().Scene, Viewport{Width: 1000, Height: 500, PixelRatio: 3})
	defer f.host.Unmount()

	w, h := f.host.Surface().Size()
	if w != 2000 || h != 1000 {
		t.Errorf("Expected surface 2000x1000 at capped ratio, got %dx%d", w, h)
	}
	if f.host.PixelRatio() != 2 {
		t.Errorf("Expected pixel ratio 2, got %f", f.host.PixelRatio())
	}
}

func TestFrameRendersEveryClass(t *testing.T) {
	f := mountWith(t, config.DefaultConfig().Scene, desktop())
	defer f.host.Unmount()

	f.run(1)
	surface := f.renderer.Images[len(f.renderer.Images)-1]
	if surface.Clears != 1 {
		t.Errorf("Expected surface cleared once, got %d", surface.Clears)
	}
	if surface.Triangles == 0 {
		t.Errorf("Expected faces to be drawn")
	}
	if surface.Lighter == 0 {
		t.Errorf("Expected particles drawn with additive blend")
	}
	if f.renderer.Lines == 0 {
		t.Errorf("Expected spiral lines to be drawn")
	}
	if f.host.Frames() != 1 {
		t.Errorf("Expected 1 frame, got %d", f.host.Frames())
	}
}

func TestPointerSmoothingConverges(t *testing.T) {
	var p Pointer
	p.SetTarget(1, -0.5)

	prevX, prevY := p.X, p.Y
	for i := 0; i < 90; i++ {
		p.Step(0.05)
		if p.X <= prevX || p.Y >= prevY {
			t.Fatalf("Expected strictly monotonic approach at frame %d, got (%f, %f)", i, p.X, p.Y)
		}
		if p.X > 1 || p.Y < -0.5 {
			t.Fatalf("Expected no overshoot at frame %d, got (%f, %f)", i, p.X, p.Y)
		}
		prevX, prevY = p.X, p.Y
	}

	if math.Abs(1-p.X) > 0.01 {
		t.Errorf("Expected X within 1%% of target after 90 frames, got %f", p.X)
	}
	if math.Abs(-0.5-p.Y) > 0.005 {
		t.Errorf("Expected Y within 1%% of target after 90 frames, got %f", p.Y)
	}
}

func TestPointerMoveSteersCamera(t *testing.T) {
	f := mountWith(t, config.DefaultConfig().Scene, desktop())
	defer f.host.Unmount()

	f.events.PointerMove(1280, 0) // top right
	ptr := f.host.Pointer()
	tx, ty := ptr.Target()
	if tx != 1 || ty != 1 {
		t.Errorf("Expected target (1, 1), got (%f, %f)", tx, ty)
	}

	f.run(200)
	pos := f.host.Camera().Position
	if math.Abs(pos[0]-5) > 0.01 || math.Abs(pos[1]-5) > 0.01 {
		t.Errorf("Expected camera near (5, 5), got (%f, %f)", pos[0], pos[1])
	}
}

func TestUnmountIsIdempotent(t *testing.T) {
	f := mountWith(t, config.DefaultConfig().Scene, desktop())
	baseline := 1 // smoother

	f.run(3)
	if f.host.Frames() != 3 {
		t.Fatalf("Expected 3 frames, got %d", f.host.Frames())
	}

	f.host.Unmount()
	f.host.Unmount()

	if f.ticker.Len() != baseline {
		t.Errorf("Expected %d ticker callbacks after unmount, got %d", baseline, f.ticker.Len())
	}
	if f.events.Listeners() != 0 {
		t.Errorf("Expected no event listeners after unmount, got %d", f.events.Listeners())
	}
	if live := f.renderer.Live(); len(live) != 0 {
		t.Errorf("Expected every image disposed, got %d live", len(live))
	}
	for _, o := range f.host.Objects() {
		if !o.Mesh.Disposed() {
			t.Errorf("Expected mesh of object %d disposed", o.ID)
		}
	}

	f.run(10)
	if f.host.Frames() != 3 {
		t.Errorf("Expected no frames after unmount, got %d", f.host.Frames())
	}
	if f.host.Surface() != nil {
		t.Errorf("Expected no surface after unmount")
	}
}

func TestEventsAfterUnmountAreIgnored(t *testing.T) {
	f := mountWith(t, config.DefaultConfig().Scene, desktop())
	f.host.Unmount()
	allocs := f.renderer.Allocs

	f.host.PointerMove(10, 10)
	f.host.Resize(640, 480)
	f.events.PointerMove(20, 20)
	f.events.Resize(320, 240)

	if f.renderer.Allocs != allocs {
		t.Errorf("Expected no allocation after unmount, got %d new", f.renderer.Allocs-allocs)
	}
	if f.host.Tweens().Active() != 0 {
		t.Errorf("Expected no tweens after unmount, got %d", f.host.Tweens().Active())
	}
	if hits := f.host.Intersect(Ray{Dir: mgl64.Vec3{0, 0, -1}}); hits != nil {
		t.Errorf("Expected no hits after unmount, got %v", hits)
	}
}

func TestDegradedMount(t *testing.T) {
	renderer := &rendertest.Renderer{FailImages: true}
	ticker := anim.NewTicker()
	events := input.NewDispatcher()

	h := Mount(Options{Scene: config.DefaultConfig().Scene}, desktop(), Deps{
		Renderer: renderer,
		Ticker:   ticker,
		Inputs:   events,
	})

	if !h.Degraded() {
		t.Fatalf("Expected host to be degraded")
	}
	if h.Surface() != nil {
		t.Errorf("Expected no surface when degraded")
	}
	if ticker.Len() != 0 || events.Listeners() != 0 {
		t.Errorf("Expected no subscriptions when degraded, got %d ticks, %d listeners", ticker.Len(), events.Listeners())
	}

	ticker.Tick(frame)
	h.PointerMove(1, 1)
	h.Resize(10, 10)
	h.Unmount()
	h.Unmount()
	if h.Frames() != 0 {
		t.Errorf("Expected nothing rendered, got %d frames", h.Frames())
	}
}

func TestScrollMappingIsPure(t *testing.T) {
	m := ScrollMapping{Rotation: math.Pi * 0.3, Depth: 15, ParticleRotation: math.Pi * 0.5}

	first := m.Apply(0.4)
	m.Apply(0.9)
	m.Apply(0)
	second := m.Apply(0.4)
	if first != second {
		t.Errorf("Expected same output for same progress, got %+v and %+v", first, second)
	}
	if math.Abs(first.GroupDepth-6) > 1e-9 {
		t.Errorf("Expected depth 6, got %f", first.GroupDepth)
	}

	tests := []struct {
		p    float64
		want ScrollTransform
	}{
		{0, ScrollTransform{}},
		{-1, ScrollTransform{}},
		{1, ScrollTransform{GroupRotationY: math.Pi * 0.3, GroupDepth: 15, ParticleRotationY: math.Pi * 0.5}},
		{2, ScrollTransform{GroupRotationY: math.Pi * 0.3, GroupDepth: 15, ParticleRotationY: math.Pi * 0.5}},
	}
	for _, tt := range tests {
		if got := m.Apply(tt.p); got != tt.want {
			t.Errorf("Apply(%f): expected %+v, got %+v", tt.p, tt.want, got)
		}
	}
}

func TestScrollProgressMovesGroup(t *testing.T) {
	cfg := config.DefaultConfig().Scene
	f := mountWith(t, cfg, desktop())
	defer f.host.Unmount()

	f.smoother.SetLimit(1000)
	f.smoother.ScrollTo(1000)
	f.run(180)

	if z := f.host.group.Position[2]; math.Abs(z-cfg.ScrollDepth) > 1e-6 {
		t.Errorf("Expected group depth %f at full scroll, got %f", cfg.ScrollDepth, z)
	}
}

// placeSolids replaces the generated solids with upright icosahedra at the
// given positions so ray tests are deterministic.
func placeSolids(h *Host, positions ...mgl64.Vec3) {
	for i, id := range h.interactive {
		o := &h.objects[id]
		o.Mesh = Icosahedron(2, 0)
		o.Base = Identity()
		o.Base.Position = positions[i]
		o.Live = o.Base
	}
}

func scaleTarget(t *testing.T, h *Host, id int) float64 {
	t.Helper()
	v, ok := h.Tweens().Target(&h.objects[id].Live.Scale[0])
	if !ok {
		t.Fatalf("Expected a scale tween on object %d", id)
	}
	return v
}

func TestHighlightResetsThenEnlargesHits(t *testing.T) {
	cfg := config.DefaultConfig().Scene
	cfg.Counts = config.Counts{Solids: 2}
	f := mountWith(t, cfg, desktop())
	defer f.host.Unmount()
	placeSolids(f.host, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 0, 0})

	// Center of the viewport hits only the solid at the origin.
	f.events.PointerMove(640, 400)
	if got := scaleTarget(t, f.host, 0); got != cfg.HighlightScale {
		t.Errorf("Expected hit solid to target scale %f, got %f", cfg.HighlightScale, got)
	}
	if got := scaleTarget(t, f.host, 1); got != 1 {
		t.Errorf("Expected missed solid to target scale 1, got %f", got)
	}
	rot, ok := f.host.Tweens().Target(&f.host.objects[0].Live.Rotation[0])
	if !ok || rot != 1 {
		t.Errorf("Expected rotation impulse to 1, got %f (%v)", rot, ok)
	}

	// Top-left corner hits nothing: reset only.
	f.events.PointerMove(0, 0)
	for _, id := range f.host.Interactive() {
		if got := scaleTarget(t, f.host, id); got != 1 {
			t.Errorf("Expected object %d to target scale 1 after a miss, got %f", id, got)
		}
	}

	f.run(60)
	for _, id := range f.host.Interactive() {
		s := f.host.objects[id].Live.Scale
		if s != (mgl64.Vec3{1, 1, 1}) {
			t.Errorf("Expected object %d back at unit scale, got %v", id, s)
		}
	}
}

func TestIntersectIsUniqueAndNearestFirst(t *testing.T) {
	cfg := config.DefaultConfig().Scene
	cfg.Counts = config.Counts{Solids: 2}
	f := mountWith(t, cfg, desktop())
	defer f.host.Unmount()
	placeSolids(f.host, mgl64.Vec3{0, 0, -5}, mgl64.Vec3{0, 0, 5})

	hits := f.host.Intersect(f.host.Camera().Ray(0, 0))
	if len(hits) != 2 {
		t.Fatalf("Expected 2 hits, got %d", len(hits))
	}
	if hits[0].ID != 1 || hits[1].ID != 0 {
		t.Errorf("Expected nearest first [1 0], got [%d %d]", hits[0].ID, hits[1].ID)
	}
	if hits[0].Distance >= hits[1].Distance {
		t.Errorf("Expected ascending distances, got %f then %f", hits[0].Distance, hits[1].Distance)
	}
}

func TestResizeIsIdempotent(t *testing.T) {
	f := mountWith(t, config.DefaultConfig().Scene, desktop())
	defer f.host.Unmount()

	f.events.Resize(1000, 700)
	proj := f.host.Camera().Projection()
	allocs := f.renderer.Allocs

	f.events.Resize(1000, 700)
	if f.host.Camera().Projection() != proj {
		t.Errorf("Expected projection unchanged after repeated resize")
	}
	if f.renderer.Allocs != allocs {
		t.Errorf("Expected no reallocation after repeated resize, got %d new", f.renderer.Allocs-allocs)
	}
	if math.Abs(f.host.Camera().Aspect-1000.0/700.0) > 1e-12 {
		t.Errorf("Expected aspect %f, got %f", 1000.0/700.0, f.host.Camera().Aspect)
	}
	w, h := f.host.Surface().Size()
	if w != 1000 || h != 700 {
		t.Errorf("Expected surface 1000x700, got %dx%d", w, h)
	}
	if live := len(f.renderer.Live()); live != 2 {
		t.Errorf("Expected surface and texture live, got %d images", live)
	}
}

func TestCompactProfile(t *testing.T) {
	cfg := config.DefaultConfig().Scene
	f := mountWith(t, cfg, Viewport{Width: 500, Height: 900, PixelRatio: 1})
	defer f.host.Unmount()

	if !f.host.Compact() {
		t.Fatalf("Expected compact profile below %dpx", cfg.CompactBreakpoint)
	}
	if got := len(f.host.Interactive()); got != cfg.Compact.Solids {
		t.Errorf("Expected %d solids, got %d", cfg.Compact.Solids, got)
	}

	f.events.PointerMove(250, 450)
	if f.host.Tweens().Active() != 0 {
		t.Errorf("Expected pointer ignored in compact profile, got %d tweens", f.host.Tweens().Active())
	}
	f.run(30)
	if pos := f.host.Camera().Position; pos[0] != 0 || pos[1] != 0 {
		t.Errorf("Expected camera to stay centred, got %v", pos)
	}
}

// paintOrder collapses consecutive draw calls of the same kind.
func paintOrder(r *rendertest.Renderer) string {
	var order []string
	for _, c := range r.Calls {
		if len(order) == 0 || order[len(order)-1] != c {
			order = append(order, c)
		}
	}
	return strings.Join(order, ",")
}

func TestWireframeKeepsDepthOrder(t *testing.T) {
	cfg := config.DefaultConfig().Scene
	cfg.Counts = config.Counts{Solids: 2}

	tests := []struct {
		name     string
		wireNear bool
		want     string
	}{
		{"wireframe in front of solid", true, "triangles,line"},
		{"wireframe behind solid", false, "line,triangles"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mountWith(t, cfg, desktop())
			defer f.host.Unmount()
			placeSolids(f.host, mgl64.Vec3{0, 0, -10}, mgl64.Vec3{0, 0, 5})

			far := &f.host.objects[f.host.interactive[0]]
			near := &f.host.objects[f.host.interactive[1]]
			far.Opacity, near.Opacity = 1, 1
			far.Wireframe, near.Wireframe = !tt.wireNear, tt.wireNear

			f.renderer.Calls = nil
			f.host.draw()
			if got := paintOrder(f.renderer); got != tt.want {
				t.Errorf("Expected paint order %s, got %s", tt.want, got)
			}
		})
	}
}

func TestPointCloudMovesWithGroup(t *testing.T) {
	cfg := config.DefaultConfig().Scene
	cfg.Counts = config.Counts{Particles: 1}
	f := mountWith(t, cfg, desktop())
	defer f.host.Unmount()

	cloud := &f.host.objects[f.host.cloud]
	cloud.Mesh.Vertices = []mgl64.Vec3{{0, 0, 0}}
	cloud.Live = Identity()
	surface := f.host.Surface().(*rendertest.Image)
	w, _ := surface.Size()

	centerX := func() float64 {
		f.host.draw()
		if len(surface.Last) != 4 {
			t.Fatalf("Expected one particle quad, got %d vertices", len(surface.Last))
		}
		sum := 0.0
		for _, v := range surface.Last {
			sum += float64(v.DstX)
		}
		return sum / 4
	}

	if x := centerX(); math.Abs(x-float64(w)/2) > 1e-3 {
		t.Fatalf("Expected particle at the center column %f, got %f", float64(w)/2, x)
	}
	f.host.group.Position = mgl64.Vec3{3, 0, 0}
	if x := centerX(); x <= float64(w)/2+1 {
		t.Errorf("Expected group offset to move the particle right of %f, got %f", float64(w)/2, x)
	}
}

func TestEveryShapeSpinsAboutXAndY(t *testing.T) {
	cfg := config.DefaultConfig().Scene
	cfg.Counts = config.Counts{Solids: 1, Rings: 1, Spirals: 1}
	f := mountWith(t, cfg, desktop())
	defer f.host.Unmount()

	before := make([]mgl64.Vec3, len(f.host.objects))
	for i, o := range f.host.objects {
		before[i] = o.Live.Rotation
	}
	f.run(1)

	for i, o := range f.host.objects {
		if o.Class == ClassPointCloud {
			continue
		}
		d := o.Live.Rotation.Sub(before[i])
		if math.Abs(d[0]-o.RotationSpeed) > 1e-12 || math.Abs(d[1]-o.RotationSpeed) > 1e-12 || d[2] != 0 {
			t.Errorf("Expected %v to turn by %f about X and Y only, got %v", o.Class, o.RotationSpeed, d)
		}
	}
}
