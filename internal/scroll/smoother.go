// Package scroll implements wheel-driven smooth scrolling and the
// scroll-progress trigger that the background scene observes.
package scroll

import (
	"math"

	"github.com/tanema/gween"

	"chosenoffset.com/backdrop/internal/anim"
)

// Options tune a Smoother.
type Options struct {
	// Duration of the glide toward a new target, in seconds.
	Duration float64
	// WheelMultiplier scales raw wheel deltas.
	WheelMultiplier float64
}

// DefaultOptions returns the page's scroll feel.
func DefaultOptions() Options {
	return Options{
		Duration:        1.2,
		WheelMultiplier: 1,
	}
}

// glide is the page's exponential-out curve: it reaches the end slightly
// before t=1 and then holds.
func glide(t, b, c, d float32) float32 {
	p := 1.001 - math.Pow(2, -10*float64(t/d))
	if p > 1 {
		p = 1
	}
	return b + c*float32(p)
}

// Smoother turns discrete scroll requests into a smoothed offset that
// advances once per frame on the shared ticker.
type Smoother struct {
	opts   Options
	offset float64
	target float64
	limit  float64
	glide  *gween.Tween

	listeners []*listener
	cancel    func()
	destroyed bool
}

type listener struct {
	fn      func(s *Smoother)
	removed bool
}

// NewSmoother creates a smoother driven by ticker.
func NewSmoother(ticker *anim.Ticker, opts Options) *Smoother {
	if opts.Duration <= 0 {
		opts.Duration = DefaultOptions().Duration
	}
	if opts.WheelMultiplier == 0 {
		opts.WheelMultiplier = 1
	}
	s := &Smoother{opts: opts}
	s.cancel = ticker.Add(func(dt, _ float64) { s.raf(dt) })
	return s
}

// ScrollBy moves the target by delta pixels, scaled by the wheel multiplier.
func (s *Smoother) ScrollBy(delta float64) {
	s.ScrollTo(s.target + delta*s.opts.WheelMultiplier)
}

// ScrollTo glides toward the absolute offset, clamped to [0, limit].
func (s *Smoother) ScrollTo(offset float64) {
	if s.destroyed {
		return
	}
	offset = clamp(offset, 0, s.limit)
	if offset == s.target && (s.glide != nil || s.offset == offset) {
		return
	}
	s.target = offset
	s.glide = gween.New(float32(s.offset), float32(offset), float32(s.opts.Duration), glide)
}

// SetLimit sets the maximum offset (content height minus viewport height).
func (s *Smoother) SetLimit(limit float64) {
	if limit < 0 {
		limit = 0
	}
	if limit == s.limit {
		return
	}
	s.limit = limit
	if s.offset > limit {
		s.offset = limit
		s.target = limit
		s.glide = nil
		s.emit()
		return
	}
	if s.target > limit {
		s.ScrollTo(limit)
	}
}

// Offset returns the current smoothed offset in pixels.
func (s *Smoother) Offset() float64 { return s.offset }

// Limit returns the maximum offset.
func (s *Smoother) Limit() float64 { return s.limit }

// Progress returns offset/limit in [0,1]; 0 when there is nothing to scroll.
func (s *Smoother) Progress() float64 {
	if s.limit <= 0 {
		return 0
	}
	return clamp(s.offset/s.limit, 0, 1)
}

// Moving reports whether a glide is in progress.
func (s *Smoother) Moving() bool { return s.glide != nil }

// OnScroll registers fn to run every frame the offset changes.
func (s *Smoother) OnScroll(fn func(s *Smoother)) (cancel func()) {
	l := &listener{fn: fn}
	s.listeners = append(s.listeners, l)
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		live := s.listeners[:0]
		for _, other := range s.listeners {
			if !other.removed {
				live = append(live, other)
			}
		}
		s.listeners = live
	}
}

// Destroy detaches the smoother from the ticker and drops its listeners.
func (s *Smoother) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.cancel()
	s.glide = nil
	s.listeners = nil
}

func (s *Smoother) raf(dt float64) {
	if s.glide == nil {
		return
	}
	v, done := s.glide.Update(float32(dt))
	if done {
		s.offset = s.target
		s.glide = nil
	} else {
		s.offset = float64(v)
	}
	s.emit()
}

func (s *Smoother) emit() {
	for _, l := range append([]*listener(nil), s.listeners...) {
		if !l.removed {
			l.fn(s)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
