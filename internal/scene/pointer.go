package scene

// Smooth moves value a fraction of the way toward target. For factor in
// (0,1) repeated calls approach target monotonically and never overshoot.
func Smooth(value, target, factor float64) float64 {
	return value + (target-value)*factor
}

// Latest holds the most recent value written by an event handler for the
// frame loop to read. Intermediate writes are dropped.
type Latest[T any] struct {
	v   T
	set bool
}

// Store replaces the held value.
func (l *Latest[T]) Store(v T) {
	l.v = v
	l.set = true
}

// Load returns the held value and whether one was ever stored.
func (l *Latest[T]) Load() (T, bool) {
	return l.v, l.set
}

// Pointer is the smoothed cursor in normalized device coordinates.
type Pointer struct {
	X, Y   float64
	target Latest[[2]float64]
}

// SetTarget records the latest raw cursor position.
func (p *Pointer) SetTarget(x, y float64) {
	p.target.Store([2]float64{x, y})
}

// Target returns the latest raw position, or the current one if none was
// recorded.
func (p *Pointer) Target() (x, y float64) {
	t, ok := p.target.Load()
	if !ok {
		return p.X, p.Y
	}
	return t[0], t[1]
}

// Step advances the smoothed position one frame toward the target.
func (p *Pointer) Step(factor float64) {
	tx, ty := p.Target()
	p.X = Smooth(p.X, tx, factor)
	p.Y = Smooth(p.Y, ty, factor)
}
