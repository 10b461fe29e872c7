// Package anim provides the cooperative frame ticker that drives every
// per-frame callback, and property tweens built on gween.
package anim

// FrameFunc is called once per frame with the frame delta and the total
// elapsed time, both in seconds.
type FrameFunc func(dt, elapsed float64)

type tickEntry struct {
	fn      FrameFunc
	removed bool
}

// Ticker runs registered callbacks once per Tick, in registration order.
// It is not safe for concurrent use; all calls happen on the frame loop.
type Ticker struct {
	entries []*tickEntry
	elapsed float64
	frames  int
}

// NewTicker creates an empty ticker.
func NewTicker() *Ticker {
	return &Ticker{}
}

// Add registers fn and returns a cancel func. Cancel is idempotent and takes
// effect immediately, even when called from inside another callback of the
// same tick.
func (t *Ticker) Add(fn FrameFunc) (cancel func()) {
	e := &tickEntry{fn: fn}
	t.entries = append(t.entries, e)
	return func() {
		if e.removed {
			return
		}
		e.removed = true
		t.compact()
	}
}

// Tick advances the clock by dt and runs every live callback.
func (t *Ticker) Tick(dt float64) {
	t.elapsed += dt
	t.frames++

	// Callbacks added during this tick start on the next one.
	snapshot := append([]*tickEntry(nil), t.entries...)
	for _, e := range snapshot {
		if e.removed {
			continue
		}
		e.fn(dt, t.elapsed)
	}
}

// Len returns the number of registered callbacks.
func (t *Ticker) Len() int {
	return len(t.entries)
}

// Elapsed returns the total ticked time in seconds.
func (t *Ticker) Elapsed() float64 {
	return t.elapsed
}

// Frames returns the number of ticks run so far.
func (t *Ticker) Frames() int {
	return t.frames
}

func (t *Ticker) compact() {
	live := t.entries[:0]
	for _, e := range t.entries {
		if !e.removed {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(t.entries); i++ {
		t.entries[i] = nil
	}
	t.entries = live
}
