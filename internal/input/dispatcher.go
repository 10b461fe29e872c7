// Package input fans polled window input out to subscribers as discrete
// pointer-move and resize events.
package input

import "chosenoffset.com/backdrop/internal/render"

// PointerFunc receives the cursor position in logical pixels.
type PointerFunc func(x, y float64)

// ResizeFunc receives the new viewport size in logical pixels.
type ResizeFunc func(width, height int)

type slot[F any] struct {
	fn      F
	removed bool
}

type listeners[F any] struct {
	slots []*slot[F]
}

func (l *listeners[F]) add(fn F) func() {
	s := &slot[F]{fn: fn}
	l.slots = append(l.slots, s)
	return func() {
		if s.removed {
			return
		}
		s.removed = true
		live := l.slots[:0]
		for _, other := range l.slots {
			if !other.removed {
				live = append(live, other)
			}
		}
		l.slots = live
	}
}

func (l *listeners[F]) each(call func(F)) {
	for _, s := range append([]*slot[F](nil), l.slots...) {
		if !s.removed {
			call(s.fn)
		}
	}
}

// Dispatcher is the event source the page exposes to mounted components.
type Dispatcher struct {
	pointer listeners[PointerFunc]
	resize  listeners[ResizeFunc]

	cursorX, cursorY int
	seenCursor       bool
}

// NewDispatcher creates a dispatcher with no listeners.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// OnPointerMove subscribes fn; the returned cancel is idempotent.
func (d *Dispatcher) OnPointerMove(fn PointerFunc) (cancel func()) {
	return d.pointer.add(fn)
}

// OnResize subscribes fn; the returned cancel is idempotent.
func (d *Dispatcher) OnResize(fn ResizeFunc) (cancel func()) {
	return d.resize.add(fn)
}

// PointerMove delivers a pointer-move event to every listener.
func (d *Dispatcher) PointerMove(x, y float64) {
	d.pointer.each(func(fn PointerFunc) { fn(x, y) })
}

// Resize delivers a resize event to every listener.
func (d *Dispatcher) Resize(width, height int) {
	d.resize.each(func(fn ResizeFunc) { fn(width, height) })
}

// Poll reads the cursor and emits a pointer-move only when it changed.
func (d *Dispatcher) Poll(im render.InputManager) {
	x, y := im.GetCursorPosition()
	if d.seenCursor && x == d.cursorX && y == d.cursorY {
		return
	}
	d.seenCursor = true
	d.cursorX, d.cursorY = x, y
	d.PointerMove(float64(x), float64(y))
}

// Listeners returns the number of live subscriptions.
func (d *Dispatcher) Listeners() int {
	return len(d.pointer.slots) + len(d.resize.slots)
}
