package anim

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Ease names an easing curve.
type Ease = ease.TweenFunc

// Easing curves, named after the timing presets the page uses.
var (
	Linear    Ease = ease.Linear
	Power1Out Ease = ease.OutQuad
	Power2Out Ease = ease.OutCubic
	BackOut   Ease = ease.OutBack
	ExpoOut   Ease = ease.OutExpo
)

type propTween struct {
	tween *gween.Tween
	end   float64
}

// Tweener animates float64 properties addressed by pointer. Each property
// has at most one running tween: starting a new one replaces the old one
// from the property's current value, so the latest trigger always wins.
type Tweener struct {
	tweens map[*float64]*propTween
}

// NewTweener creates an idle tweener.
func NewTweener() *Tweener {
	return &Tweener{tweens: make(map[*float64]*propTween)}
}

// To animates *key from its current value to end over duration seconds.
func (tw *Tweener) To(key *float64, end, duration float64, fn Ease) {
	if duration <= 0 {
		*key = end
		delete(tw.tweens, key)
		return
	}
	tw.tweens[key] = &propTween{
		tween: gween.New(float32(*key), float32(end), float32(duration), fn),
		end:   end,
	}
}

// By animates *key by delta relative to its current value.
func (tw *Tweener) By(key *float64, delta, duration float64, fn Ease) {
	tw.To(key, *key+delta, duration, fn)
}

// Target reports the end value of the tween running on key.
func (tw *Tweener) Target(key *float64) (float64, bool) {
	pt, ok := tw.tweens[key]
	if !ok {
		return 0, false
	}
	return pt.end, true
}

// Advance steps every running tween by dt seconds and writes the eased
// values back. Finished tweens land exactly on their end value.
func (tw *Tweener) Advance(dt float64) {
	for key, pt := range tw.tweens {
		v, done := pt.tween.Update(float32(dt))
		if done {
			*key = pt.end
			delete(tw.tweens, key)
			continue
		}
		*key = float64(v)
	}
}

// Kill stops the tween on key, leaving the property where it is.
func (tw *Tweener) Kill(key *float64) {
	delete(tw.tweens, key)
}

// KillAll stops every running tween.
func (tw *Tweener) KillAll() {
	clear(tw.tweens)
}

// Active returns the number of running tweens.
func (tw *Tweener) Active() int {
	return len(tw.tweens)
}
