package scroll

import (
	"math"
	"testing"

	"chosenoffset.com/backdrop/internal/anim"
)

const frame = 1.0 / 60.0

func runFrames(ticker *anim.Ticker, n int) {
	for i := 0; i < n; i++ {
		ticker.Tick(frame)
	}
}

func TestSmootherGlidesToTarget(t *testing.T) {
	ticker := anim.NewTicker()
	s := NewSmoother(ticker, DefaultOptions())
	s.SetLimit(1000)

	s.ScrollBy(400)
	runFrames(ticker, 10)
	if s.Offset() <= 0 || s.Offset() >= 400 {
		t.Errorf("Expected offset mid-glide in (0, 400), got %f", s.Offset())
	}

	runFrames(ticker, 120)
	if s.Offset() != 400 {
		t.Errorf("Expected offset 400 after glide, got %f", s.Offset())
	}
	if s.Moving() {
		t.Errorf("Expected smoother to be at rest")
	}
	if math.Abs(s.Progress()-0.4) > 1e-9 {
		t.Errorf("Expected progress 0.4, got %f", s.Progress())
	}
}

func TestSmootherClampsToLimit(t *testing.T) {
	ticker := anim.NewTicker()
	s := NewSmoother(ticker, DefaultOptions())
	s.SetLimit(300)

	s.ScrollBy(-50)
	runFrames(ticker, 120)
	if s.Offset() != 0 {
		t.Errorf("Expected offset clamped to 0, got %f", s.Offset())
	}

	s.ScrollBy(5000)
	runFrames(ticker, 120)
	if s.Offset() != 300 {
		t.Errorf("Expected offset clamped to 300, got %f", s.Offset())
	}

	s.SetLimit(100)
	if s.Offset() != 100 {
		t.Errorf("Expected offset pulled in to new limit 100, got %f", s.Offset())
	}
}

func TestSmootherProgressWithoutLimit(t *testing.T) {
	s := NewSmoother(anim.NewTicker(), DefaultOptions())
	if s.Progress() != 0 {
		t.Errorf("Expected zero progress with nothing to scroll, got %f", s.Progress())
	}
}

func TestSmootherDestroy(t *testing.T) {
	ticker := anim.NewTicker()
	s := NewSmoother(ticker, DefaultOptions())
	calls := 0
	s.OnScroll(func(*Smoother) { calls++ })
	s.SetLimit(500)

	s.Destroy()
	s.Destroy()
	s.ScrollBy(100)
	runFrames(ticker, 10)

	if calls != 0 {
		t.Errorf("Expected no scroll events after destroy, got %d", calls)
	}
	if ticker.Len() != 0 {
		t.Errorf("Expected smoother removed from ticker, %d callbacks remain", ticker.Len())
	}
}

func TestTriggerLagsThenCatchesUp(t *testing.T) {
	ticker := anim.NewTicker()
	s := NewSmoother(ticker, DefaultOptions())
	s.SetLimit(1000)

	var updates []float64
	trig := NewTrigger(ticker, s, 0.5, func(p float64) { updates = append(updates, p) })

	s.ScrollTo(1000)
	runFrames(ticker, 20)
	if trig.Progress() >= s.Progress() {
		t.Errorf("Expected trigger progress %f to lag smoother %f", trig.Progress(), s.Progress())
	}

	runFrames(ticker, 180)
	if trig.Progress() != 1 {
		t.Errorf("Expected trigger progress 1, got %f", trig.Progress())
	}
	if len(updates) == 0 {
		t.Fatalf("Expected progress updates")
	}
	for i := 1; i < len(updates); i++ {
		if updates[i] < updates[i-1] {
			t.Errorf("Expected non-decreasing progress, got %f after %f", updates[i], updates[i-1])
		}
	}
}

func TestTriggerKill(t *testing.T) {
	ticker := anim.NewTicker()
	s := NewSmoother(ticker, DefaultOptions())
	s.SetLimit(1000)

	calls := 0
	trig := NewTrigger(ticker, s, 0, func(float64) { calls++ })
	trig.Kill()
	trig.Kill()

	s.ScrollTo(500)
	runFrames(ticker, 90)

	if calls != 0 {
		t.Errorf("Expected no updates after kill, got %d", calls)
	}
	if !trig.Killed() {
		t.Errorf("Expected trigger to report killed")
	}
	if ticker.Len() != 1 {
		t.Errorf("Expected only the smoother on the ticker, got %d callbacks", ticker.Len())
	}
}
