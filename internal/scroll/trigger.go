package scroll

import (
	"github.com/tanema/gween"

	"chosenoffset.com/backdrop/internal/anim"
)

// Source is what a Trigger observes.
type Source interface {
	Progress() float64
	OnScroll(fn func(s *Smoother)) (cancel func())
}

// Trigger reports page progress to onUpdate, lagging the raw scroll
// position by up to scrub seconds.
type Trigger struct {
	src      Source
	scrub    float64
	onUpdate func(progress float64)

	progress float64
	raw      float64
	catchUp  *gween.Tween

	cancelTick   func()
	cancelScroll func()
	killed       bool
}

// NewTrigger subscribes to src and starts easing on ticker. A scrub of zero
// follows the raw progress exactly.
func NewTrigger(ticker *anim.Ticker, src Source, scrub float64, onUpdate func(progress float64)) *Trigger {
	t := &Trigger{
		src:      src,
		scrub:    scrub,
		onUpdate: onUpdate,
		raw:      src.Progress(),
	}
	t.progress = t.raw
	t.cancelScroll = src.OnScroll(func(*Smoother) { t.retarget(src.Progress()) })
	t.cancelTick = ticker.Add(func(dt, _ float64) { t.tick(dt) })
	return t
}

// Progress returns the last emitted progress.
func (t *Trigger) Progress() float64 { return t.progress }

// Kill stops the trigger. Safe to call repeatedly.
func (t *Trigger) Kill() {
	if t.killed {
		return
	}
	t.killed = true
	t.cancelScroll()
	t.cancelTick()
	t.catchUp = nil
}

// Killed reports whether Kill has run.
func (t *Trigger) Killed() bool { return t.killed }

func (t *Trigger) retarget(raw float64) {
	if t.killed || raw == t.raw {
		return
	}
	t.raw = raw
	if t.scrub <= 0 {
		t.set(raw)
		return
	}
	t.catchUp = gween.New(float32(t.progress), float32(raw), float32(t.scrub), anim.Power2Out)
}

func (t *Trigger) tick(dt float64) {
	if t.killed || t.catchUp == nil {
		return
	}
	v, done := t.catchUp.Update(float32(dt))
	if done {
		t.catchUp = nil
		t.set(t.raw)
		return
	}
	t.set(float64(v))
}

func (t *Trigger) set(p float64) {
	p = clamp(p, 0, 1)
	if p == t.progress {
		return
	}
	t.progress = p
	t.onUpdate(p)
}
