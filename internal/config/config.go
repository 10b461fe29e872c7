// Package config provides the tunables for the page and its animated
// background. Values start from defaults, are overlaid by an optional YAML
// file, then by BACKDROP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix marks environment overrides, e.g. BACKDROP_SCENE__SEED=7.
const EnvPrefix = "BACKDROP_"

// Config holds all settings for a run
type Config struct {
	Window  WindowConfig `koanf:"window"`
	Scene   SceneConfig  `koanf:"scene"`
	Scroll  ScrollConfig `koanf:"scroll"`
	Content string       `koanf:"content"` // Optional YAML content file
}

// WindowConfig describes the host window
type WindowConfig struct {
	Width   int     `koanf:"width"`
	Height  int     `koanf:"height"`
	Title   string  `koanf:"title"`
	Opacity float64 `koanf:"opacity"` // Background layer opacity
}

// Counts is how many decorative objects of each class to generate
type Counts struct {
	Solids    int `koanf:"solids"`
	Rings     int `koanf:"rings"`
	Spirals   int `koanf:"spirals"`
	Particles int `koanf:"particles"`
}

// SceneConfig tunes the animated background
type SceneConfig struct {
	Seed int64 `koanf:"seed"` // 0 picks a time-based seed

	Counts            Counts `koanf:"counts"`
	Compact           Counts `koanf:"compact"`            // Used below the breakpoint
	CompactBreakpoint int    `koanf:"compact_breakpoint"` // Viewport width in pixels
	ForceCompact      bool   `koanf:"force_compact"`      // Use Compact at any width

	MaxPixelRatio float64  `koanf:"max_pixel_ratio"`
	Palette       []string `koanf:"palette"` // RRGGBB hex strings

	PointerSmoothing float64 `koanf:"pointer_smoothing"` // Per-frame factor in (0,1)
	GroupSmoothing   float64 `koanf:"group_smoothing"`
	CameraGain       float64 `koanf:"camera_gain"`     // Camera offset per unit of pointer
	CameraDistance   float64 `koanf:"camera_distance"` // Camera Z
	FieldOfView      float64 `koanf:"field_of_view"`   // Degrees
	GroupSpin        float64 `koanf:"group_spin"`      // Radians per second

	ScrollRotation         float64 `koanf:"scroll_rotation"` // Radians at progress 1
	ScrollDepth            float64 `koanf:"scroll_depth"`
	ParticleScrollRotation float64 `koanf:"particle_scroll_rotation"`

	HighlightScale float64 `koanf:"highlight_scale"`
	FogNear        float64 `koanf:"fog_near"`
	FogFar         float64 `koanf:"fog_far"`
}

// ScrollConfig tunes the smooth-scroll subsystem
type ScrollConfig struct {
	Duration        float64 `koanf:"duration"` // Glide length in seconds
	WheelMultiplier float64 `koanf:"wheel_multiplier"`
	WheelStep       float64 `koanf:"wheel_step"` // Pixels per wheel notch
	Scrub           float64 `koanf:"scrub"`      // Trigger lag in seconds
}

// DefaultConfig returns the page's stock settings
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:   1280,
			Height:  800,
			Title:   "Portfolio",
			Opacity: 0.8,
		},
		Scene: SceneConfig{
			Counts:            Counts{Solids: 12, Rings: 8, Spirals: 5, Particles: 2000},
			Compact:           Counts{Solids: 5, Rings: 3, Spirals: 2, Particles: 300},
			CompactBreakpoint: 768,
			MaxPixelRatio:     2,
			Palette: []string{
				"ff6b9d", // pink
				"c66cfd", // purple
				"48dbfb", // cyan
				"feca57", // yellow
				"54a0ff", // blue
				"ff9ff3", // light pink
			},
			PointerSmoothing:       0.05,
			GroupSmoothing:         0.05,
			CameraGain:             5,
			CameraDistance:         15,
			FieldOfView:            75,
			GroupSpin:              0.03,
			ScrollRotation:         math.Pi * 0.3,
			ScrollDepth:            15,
			ParticleScrollRotation: math.Pi * 0.5,
			HighlightScale:         1.5,
			FogNear:                5,
			FogFar:                 40,
		},
		Scroll: ScrollConfig{
			Duration:        1.2,
			WheelMultiplier: 1,
			WheelStep:       120,
			Scrub:           0.5,
		},
	}
}

// Load reads path (if it exists) over the defaults, then applies
// environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// BACKDROP_SCENE__COUNTS__SOLIDS -> scene.counts.solids
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// A configured palette replaces the stock one rather than merging into it.
	if k.Exists("scene.palette") {
		cfg.Scene.Palette = nil
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges that would otherwise break the frame loop.
func (c *Config) Validate() error {
	s := c.Scene
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Window.Opacity < 0 || c.Window.Opacity > 1:
		return fmt.Errorf("%w: window.opacity %v outside [0,1]", ErrInvalidConfig, c.Window.Opacity)
	case !s.Counts.valid() || !s.Compact.valid():
		return fmt.Errorf("%w: object counts must be non-negative", ErrInvalidConfig)
	case s.PointerSmoothing <= 0 || s.PointerSmoothing >= 1:
		return fmt.Errorf("%w: scene.pointer_smoothing %v outside (0,1)", ErrInvalidConfig, s.PointerSmoothing)
	case s.GroupSmoothing <= 0 || s.GroupSmoothing >= 1:
		return fmt.Errorf("%w: scene.group_smoothing %v outside (0,1)", ErrInvalidConfig, s.GroupSmoothing)
	case s.MaxPixelRatio < 1:
		return fmt.Errorf("%w: scene.max_pixel_ratio must be at least 1", ErrInvalidConfig)
	case s.FieldOfView <= 0 || s.FieldOfView >= 180:
		return fmt.Errorf("%w: scene.field_of_view %v outside (0,180)", ErrInvalidConfig, s.FieldOfView)
	case s.FogFar <= s.FogNear:
		return fmt.Errorf("%w: scene.fog_far must exceed fog_near", ErrInvalidConfig)
	case c.Scroll.Scrub < 0:
		return fmt.Errorf("%w: scroll.scrub must be non-negative", ErrInvalidConfig)
	}
	if _, err := s.Colors(); err != nil {
		return err
	}
	return nil
}

func (n Counts) valid() bool {
	return n.Solids >= 0 && n.Rings >= 0 && n.Spirals >= 0 && n.Particles >= 0
}

// Colors parses the palette.
func (s SceneConfig) Colors() ([]color.RGBA, error) {
	if len(s.Palette) == 0 {
		return nil, fmt.Errorf("%w: scene.palette is empty", ErrInvalidConfig)
	}
	out := make([]color.RGBA, 0, len(s.Palette))
	for _, hex := range s.Palette {
		c, err := ParseHex(hex)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ParseHex parses "RRGGBB" (optionally prefixed by '#').
func ParseHex(hex string) (color.RGBA, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: color %q is not RRGGBB", ErrInvalidConfig, hex)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("%w: color %q: %v", ErrInvalidConfig, hex, err)
	}
	return color.RGBA{r, g, b, 255}, nil
}

// CountsFor picks the object counts for a viewport width.
func (s SceneConfig) CountsFor(viewportWidth int) (Counts, bool) {
	if s.ForceCompact || viewportWidth < s.CompactBreakpoint {
		return s.Compact, true
	}
	return s.Counts, false
}
