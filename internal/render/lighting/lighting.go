package lighting

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LightSource represents a point light orbiting the scene origin
type LightSource struct {
	Position  mgl64.Vec3  // World position, updated each frame
	Range     float64     // Distance at which the light falls to zero
	Intensity float64     // Light intensity multiplier
	Color     color.NRGBA // Light color

	// Orbit parameters
	OrbitRadius float64 // Radius of the circle in the XZ plane
	OrbitSpeed  float64 // Radians per second
	Phase       float64 // Angle offset at t=0
	Height      float64 // Fixed Y
}

// Manager handles the ambient term and the orbiting point lights
type Manager struct {
	lights       []LightSource
	ambientLight float64 // Global white ambient level (0.0 = black, 1.0 = fully lit)
}

// NewManager creates a lighting manager with only ambient light
func NewManager(ambient float64) *Manager {
	return &Manager{
		lights:       make([]LightSource, 0, 2),
		ambientLight: ambient,
	}
}

// AddOrbitLight registers a point light and places it at its t=0 position
func (m *Manager) AddOrbitLight(l LightSource) {
	l.Position = orbitPosition(l, 0)
	m.lights = append(m.lights, l)
}

// Update moves every light along its orbit for elapsed seconds
func (m *Manager) Update(elapsed float64) {
	for i := range m.lights {
		m.lights[i].Position = orbitPosition(m.lights[i], elapsed)
	}
}

// GetAllLights returns a copy of the point lights
func (m *Manager) GetAllLights() []LightSource {
	return append([]LightSource(nil), m.lights...)
}

// Clear removes every point light (called on teardown)
func (m *Manager) Clear() {
	m.lights = m.lights[:0]
}

// Shade returns the lit color of a surface point with the given normal.
// The result keeps the base alpha.
func (m *Manager) Shade(base color.RGBA, pos, normal mgl64.Vec3) color.RGBA {
	r, g, b := m.ambientLight, m.ambientLight, m.ambientLight

	n := normal
	if l := n.Len(); l > 0 {
		n = n.Mul(1 / l)
	}

	for _, light := range m.lights {
		toLight := light.Position.Sub(pos)
		dist := toLight.Len()
		if dist == 0 || (light.Range > 0 && dist >= light.Range) {
			continue
		}
		// Double-sided surfaces are lit from either face.
		lambert := math.Abs(n.Dot(toLight.Mul(1 / dist)))
		falloff := 1.0
		if light.Range > 0 {
			falloff = 1 - dist/light.Range
		}
		k := lambert * falloff * light.Intensity
		r += k * float64(light.Color.R) / 255
		g += k * float64(light.Color.G) / 255
		b += k * float64(light.Color.B) / 255
	}

	return color.RGBA{
		R: channel(float64(base.R) * r),
		G: channel(float64(base.G) * g),
		B: channel(float64(base.B) * b),
		A: base.A,
	}
}

func orbitPosition(l LightSource, elapsed float64) mgl64.Vec3 {
	a := l.Phase + elapsed*l.OrbitSpeed
	return mgl64.Vec3{math.Sin(a) * l.OrbitRadius, l.Height, math.Cos(a) * l.OrbitRadius}
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
