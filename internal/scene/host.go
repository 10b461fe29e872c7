// Package scene implements the animated 3D background: a fixed set of
// decorative objects that drift with time, follow the pointer, react to
// pointer hover and transform with scroll progress.
package scene

import (
	"image/color"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/backdrop/internal/anim"
	"chosenoffset.com/backdrop/internal/config"
	"chosenoffset.com/backdrop/internal/input"
	"chosenoffset.com/backdrop/internal/render"
	"chosenoffset.com/backdrop/internal/render/lighting"
	"chosenoffset.com/backdrop/internal/scroll"
)

// Camera and animation constants
const (
	nearPlane = 0.1
	farPlane  = 1000

	floatAmplitude   = 2.0
	groupSteerX      = 0.3 // Group X rotation per unit of pointer Y
	groupSteerY      = 0.5 // Group Y rotation per unit of pointer X
	cloudSwayRate    = 0.3
	cloudSwayAngle   = 0.1
	resetDuration    = 0.5
	enlargeDuration  = 0.3
	impulseDuration  = 0.5
	rotationImpulse  = 1.0
	ambientLevel     = 0.3
	lightIntensity   = 2
	lightRange       = 100
	lightOrbitRadius = 15
)

var (
	lightPink = color.NRGBA{0xff, 0x6b, 0x9d, 0xff}
	lightCyan = color.NRGBA{0x48, 0xdb, 0xfb, 0xff}
)

// Options configures one mount.
type Options struct {
	Scene config.SceneConfig
	Scrub float64 // Scroll trigger lag in seconds
}

// Viewport is the logical size of the page and the display's pixel ratio.
type Viewport struct {
	Width      int
	Height     int
	PixelRatio float64
}

// Inputs is the host document's event source.
type Inputs interface {
	OnPointerMove(fn input.PointerFunc) (cancel func())
	OnResize(fn input.ResizeFunc) (cancel func())
}

// Deps are the collaborators a host is started with. Scroll and Rand may be
// nil.
type Deps struct {
	Renderer render.Renderer
	Ticker   *anim.Ticker
	Inputs   Inputs
	Scroll   scroll.Source
	Rand     *rand.Rand
}

// Host is one mounted instance of the background scene.
type Host struct {
	opts     Options
	deps     Deps
	viewport Viewport
	ratio    float64

	surface render.Image
	white   render.Image

	objects     []Object
	interactive []int
	cloud       int // Index of the point cloud, -1 if none

	group      Transform
	steerX     float64
	steerY     float64
	cloudDrift float64

	pointer  Pointer
	progress Latest[float64]
	mapping  ScrollMapping

	camera  *Camera
	lights  *lighting.Manager
	tweens  *anim.Tweener
	trigger *scroll.Trigger

	cancels []func()
	elapsed float64
	frames  int

	mounted  bool
	degraded bool
	compact  bool
}

// Mount sets up the scene and starts animating it on deps.Ticker. It never
// fails: if no surface can be created the host renders nothing.
func Mount(opts Options, viewport Viewport, deps Deps) *Host {
	h := &Host{
		opts:     opts,
		deps:     deps,
		viewport: viewport,
		cloud:    -1,
		group:    Identity(),
		mounted:  true,
		mapping: ScrollMapping{
			Rotation:         opts.Scene.ScrollRotation,
			Depth:            opts.Scene.ScrollDepth,
			ParticleRotation: opts.Scene.ParticleScrollRotation,
		},
	}

	counts, compact := opts.Scene.CountsFor(viewport.Width)
	h.compact = compact

	h.ratio = pixelRatio(viewport.PixelRatio, opts.Scene.MaxPixelRatio)

	palette, err := opts.Scene.Colors()
	if err != nil {
		h.degrade(err)
		return h
	}
	if err := h.allocate(); err != nil {
		h.degrade(err)
		return h
	}

	rng := deps.Rand
	if rng == nil {
		seed := opts.Scene.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	h.objects = Generate(counts, palette, rng)
	for i := range h.objects {
		switch {
		case h.objects[i].Interactive:
			h.interactive = append(h.interactive, i)
		case h.objects[i].Class == ClassPointCloud:
			h.cloud = i
		}
	}

	h.lights = lighting.NewManager(ambientLevel)
	h.lights.AddOrbitLight(lighting.LightSource{
		Range: lightRange, Intensity: lightIntensity, Color: lightPink,
		OrbitRadius: lightOrbitRadius, OrbitSpeed: 1, Height: lightOrbitRadius,
	})
	h.lights.AddOrbitLight(lighting.LightSource{
		Range: lightRange, Intensity: lightIntensity, Color: lightCyan,
		OrbitRadius: lightOrbitRadius, OrbitSpeed: -1, Phase: math.Pi / 2, Height: -lightOrbitRadius,
	})

	h.camera = NewCamera(opts.Scene.FieldOfView, aspect(viewport), nearPlane, farPlane)
	h.camera.Position = mgl64.Vec3{0, 0, opts.Scene.CameraDistance}
	h.camera.LookAt(mgl64.Vec3{})

	h.tweens = anim.NewTweener()

	if deps.Inputs != nil {
		h.cancels = append(h.cancels,
			deps.Inputs.OnPointerMove(h.PointerMove),
			deps.Inputs.OnResize(h.Resize),
		)
	}
	if deps.Scroll != nil {
		h.trigger = scroll.NewTrigger(deps.Ticker, deps.Scroll, opts.Scrub, h.progress.Store)
		h.progress.Store(h.trigger.Progress())
	}
	h.cancels = append(h.cancels, deps.Ticker.Add(h.frame))

	return h
}

func pixelRatio(dpr, limit float64) float64 {
	if dpr <= 0 {
		dpr = 1
	}
	if limit > 0 && dpr > limit {
		return limit
	}
	return dpr
}

func aspect(v Viewport) float64 {
	if v.Height <= 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

// allocate creates the drawing surface and the flat source texture.
func (h *Host) allocate() error {
	if h.white == nil {
		white, err := h.deps.Renderer.NewImage(3, 3)
		if err != nil {
			return err
		}
		white.Fill(color.White)
		h.white = white
	}
	w := int(math.Ceil(float64(h.viewport.Width) * h.ratio))
	ht := int(math.Ceil(float64(h.viewport.Height) * h.ratio))
	surface, err := h.deps.Renderer.NewImage(w, ht)
	if err != nil {
		return err
	}
	h.surface = surface
	return nil
}

func (h *Host) degrade(err error) {
	log.Printf("Background disabled: %v", err)
	h.degraded = true
	h.disposeSurfaces()
}

func (h *Host) disposeSurfaces() {
	if h.surface != nil {
		h.surface.Dispose()
		h.surface = nil
	}
	if h.white != nil {
		h.white.Dispose()
		h.white = nil
	}
}

// frame is the per-tick update followed by one render.
func (h *Host) frame(dt, _ float64) {
	if !h.mounted || h.degraded {
		return
	}
	h.elapsed += dt
	t := h.elapsed
	cfg := h.opts.Scene

	h.tweens.Advance(dt)

	h.pointer.Step(cfg.PointerSmoothing)
	px, py := h.pointer.X, h.pointer.Y

	h.camera.Position = mgl64.Vec3{px * cfg.CameraGain, py * cfg.CameraGain, cfg.CameraDistance}
	h.camera.LookAt(mgl64.Vec3{})

	progress, _ := h.progress.Load()
	st := h.mapping.Apply(progress)

	h.steerX = Smooth(h.steerX, py*groupSteerX, cfg.GroupSmoothing)
	h.steerY = Smooth(h.steerY, px*groupSteerY, cfg.GroupSmoothing)
	h.group.Rotation = mgl64.Vec3{h.steerX, h.steerY + t*cfg.GroupSpin + st.GroupRotationY, 0}
	h.group.Position = mgl64.Vec3{0, 0, st.GroupDepth}

	for i := range h.objects {
		o := &h.objects[i]
		if o.Class == ClassPointCloud {
			h.cloudDrift += o.RotationSpeed
			o.Live.Rotation = mgl64.Vec3{math.Sin(t*cloudSwayRate) * cloudSwayAngle, h.cloudDrift + st.ParticleRotationY, 0}
			continue
		}
		o.Live.Rotation[0] += o.RotationSpeed
		o.Live.Rotation[1] += o.RotationSpeed

		bob := 0.0
		if o.FloatSpeed > 0 {
			bob = math.Sin(t*o.FloatSpeed+float64(i)) * floatAmplitude
		}
		o.Live.Position[0] = o.Base.Position[0] + px*o.PointerSensitivity
		o.Live.Position[1] = o.Base.Position[1] + bob + py*o.PointerSensitivity*0.5
	}

	h.lights.Update(t)

	h.draw()
	h.frames++
}

// PointerMove records the pointer target and runs the hover highlight.
// x and y are viewport pixels.
func (h *Host) PointerMove(x, y float64) {
	if !h.mounted || h.degraded || h.compact {
		return
	}
	if h.viewport.Width <= 0 || h.viewport.Height <= 0 {
		return
	}
	nx := x/float64(h.viewport.Width)*2 - 1
	ny := -(y/float64(h.viewport.Height))*2 + 1
	h.pointer.SetTarget(nx, ny)

	h.highlight(h.Intersect(h.camera.Ray(nx, ny)))
}

// Intersect returns the interactive objects crossed by ray, nearest first.
func (h *Host) Intersect(ray Ray) []Hit {
	if !h.mounted || h.degraded {
		return nil
	}
	return Intersect(ray, h.objects, h.interactive, h.group.Matrix())
}

// highlight resets every interactive object then enlarges and spins the hits.
// A newer highlight on the same property replaces the running one.
func (h *Host) highlight(hits []Hit) {
	for _, id := range h.interactive {
		s := &h.objects[id].Live.Scale
		for k := range s {
			h.tweens.To(&s[k], 1, resetDuration, anim.Power2Out)
		}
	}
	for _, hit := range hits {
		o := &h.objects[hit.ID]
		for k := range o.Live.Scale {
			h.tweens.To(&o.Live.Scale[k], h.opts.Scene.HighlightScale, enlargeDuration, anim.BackOut)
		}
		h.tweens.By(&o.Live.Rotation[0], rotationImpulse, impulseDuration, anim.Power1Out)
		h.tweens.By(&o.Live.Rotation[1], rotationImpulse, impulseDuration, anim.Power1Out)
	}
}

// Resize updates the projection and the surface. Repeating the current size
// changes nothing.
func (h *Host) Resize(width, height int) {
	if !h.mounted || h.degraded || width <= 0 || height <= 0 {
		return
	}
	if width == h.viewport.Width && height == h.viewport.Height {
		return
	}
	h.viewport.Width, h.viewport.Height = width, height
	h.camera.SetAspect(aspect(h.viewport))

	if h.surface != nil {
		h.surface.Dispose()
		h.surface = nil
	}
	if err := h.allocate(); err != nil {
		h.degrade(err)
	}
}

// Unmount releases everything Mount acquired. Safe to call repeatedly.
func (h *Host) Unmount() {
	if !h.mounted {
		return
	}
	h.mounted = false

	for _, cancel := range h.cancels {
		cancel()
	}
	h.cancels = nil
	if h.trigger != nil {
		h.trigger.Kill()
		h.trigger = nil
	}
	if h.tweens != nil {
		h.tweens.KillAll()
	}
	if h.lights != nil {
		h.lights.Clear()
	}
	for i := range h.objects {
		h.objects[i].Mesh.Dispose()
	}
	h.disposeSurfaces()
}

// Surface returns the image the scene renders into, or nil when nothing is
// drawn.
func (h *Host) Surface() render.Image {
	if !h.mounted || h.degraded {
		return nil
	}
	return h.surface
}

// PixelRatio is the surface's pixels per viewport pixel.
func (h *Host) PixelRatio() float64 { return h.ratio }

// Objects returns the decorative objects. The slice must not be modified.
func (h *Host) Objects() []Object { return h.objects }

// Interactive returns the IDs of the hover-reactive objects.
func (h *Host) Interactive() []int { return h.interactive }

// Tweens exposes the running property animations.
func (h *Host) Tweens() *anim.Tweener { return h.tweens }

// Camera returns the scene camera.
func (h *Host) Camera() *Camera { return h.camera }

// Pointer returns the smoothed pointer.
func (h *Host) Pointer() Pointer { return h.pointer }

// Frames returns how many frames have been rendered.
func (h *Host) Frames() int { return h.frames }

// Compact reports whether the reduced profile is active.
func (h *Host) Compact() bool { return h.compact }

// Degraded reports whether the host runs without a surface.
func (h *Host) Degraded() bool { return h.degraded }

// Mounted reports whether Unmount has not yet run.
func (h *Host) Mounted() bool { return h.mounted }
