// Package page hosts the portfolio: the animated background behind a
// scrolling column of content.
package page

import (
	"image/color"
	"log"

	"chosenoffset.com/backdrop/internal/anim"
	"chosenoffset.com/backdrop/internal/config"
	"chosenoffset.com/backdrop/internal/content"
	"chosenoffset.com/backdrop/internal/input"
	"chosenoffset.com/backdrop/internal/render"
	"chosenoffset.com/backdrop/internal/scene"
	"chosenoffset.com/backdrop/internal/scroll"
)

// tickSeconds is the fixed step of one Update (ebiten runs at 60 TPS).
const tickSeconds = 1.0 / 60

// HomeRoute is the page's only route.
const HomeRoute = "/"

var background = color.RGBA{0x0a, 0x0a, 0x0f, 0xff}

// Manager handles the page: one mounted background, the content column and
// the scroll state.
type Manager struct {
	ScreenWidth  int
	ScreenHeight int
	Route        string
	Config       *config.Config
	Profile      *content.Profile
	Renderer     render.Renderer
	InputMgr     render.InputManager

	Ticker *anim.Ticker
	Events *input.Dispatcher
	Scroll *scroll.Smoother
	Scene  *scene.Host
	Panel  *Panel

	mounts int
	closed bool
}

// NewManager creates a page manager and mounts the home route.
func NewManager(r render.Renderer, in render.InputManager, cfg *config.Config, profile *content.Profile, width, height int) *Manager {
	ticker := anim.NewTicker()
	m := &Manager{
		ScreenWidth:  width,
		ScreenHeight: height,
		Config:       cfg,
		Profile:      profile,
		Renderer:     r,
		InputMgr:     in,
		Ticker:       ticker,
		Events:       input.NewDispatcher(),
		Scroll: scroll.NewSmoother(ticker, scroll.Options{
			Duration:        cfg.Scroll.Duration,
			WheelMultiplier: cfg.Scroll.WheelMultiplier,
		}),
		Panel: NewPanel(profile, width, r),
	}
	m.updateLimit()
	m.Navigate(HomeRoute)
	return m
}

// Navigate tears down the current background and mounts a fresh one, as a
// client-side navigation does.
func (m *Manager) Navigate(route string) {
	if m.closed {
		return
	}
	if m.Scene != nil {
		m.Scene.Unmount()
		m.Scene = nil
	}
	m.Route = route
	m.Scene = scene.Mount(scene.Options{
		Scene: m.Config.Scene,
		Scrub: m.Config.Scroll.Scrub,
	}, scene.Viewport{
		Width:      m.ScreenWidth,
		Height:     m.ScreenHeight,
		PixelRatio: m.Renderer.DeviceScaleFactor(),
	}, scene.Deps{
		Renderer: m.Renderer,
		Ticker:   m.Ticker,
		Inputs:   m.Events,
		Scroll:   m.Scroll,
	})
	m.mounts++
	log.Printf("Mounted %s (%d objects)", route, len(m.Scene.Objects()))
}

// Mounts returns how many times a background has been mounted.
func (m *Manager) Mounts() int { return m.mounts }

// Close unmounts the background and stops scrolling. Safe to call twice.
func (m *Manager) Close() {
	if m.closed {
		return
	}
	m.closed = true
	if m.Scene != nil {
		m.Scene.Unmount()
	}
	m.Scroll.Destroy()
}

// Update handles input and advances every animation by one tick.
func (m *Manager) Update() error {
	if m.closed {
		return render.ErrTerminated
	}
	if m.InputMgr.IsKeyJustPressed(render.KeyEscape) {
		m.Close()
		return render.ErrTerminated
	}
	if m.InputMgr.IsKeyJustPressed(render.KeyR) {
		m.Navigate(m.Route)
	}
	if m.InputMgr.IsKeyJustPressed(render.KeyTab) {
		m.Scroll.ScrollTo(m.nextSection())
	}

	step := float64(m.Panel.lineHeight * 3)
	page := float64(m.ScreenHeight) * 0.9
	switch {
	case m.InputMgr.IsKeyJustPressed(render.KeyDown):
		m.Scroll.ScrollBy(step)
	case m.InputMgr.IsKeyJustPressed(render.KeyUp):
		m.Scroll.ScrollBy(-step)
	case m.InputMgr.IsKeyJustPressed(render.KeyPageDown), m.InputMgr.IsKeyJustPressed(render.KeySpace):
		m.Scroll.ScrollBy(page)
	case m.InputMgr.IsKeyJustPressed(render.KeyPageUp):
		m.Scroll.ScrollBy(-page)
	}
	if _, dy := m.InputMgr.Wheel(); dy != 0 {
		m.Scroll.ScrollBy(-dy * m.Config.Scroll.WheelStep)
	}

	m.Events.Poll(m.InputMgr)
	m.Ticker.Tick(tickSeconds)
	return nil
}

// Draw paints the background surface, then the content column.
func (m *Manager) Draw(screen render.Image) {
	screen.Fill(background)

	if m.Scene != nil {
		if surface := m.Scene.Surface(); surface != nil {
			opts := &render.DrawImageOptions{
				GeoM:  render.NewGeoM(),
				Alpha: float32(m.Config.Window.Opacity),
			}
			opts.GeoM.Scale(1/m.Scene.PixelRatio(), 1/m.Scene.PixelRatio())
			screen.DrawImage(surface, opts)
		}
	}

	m.Panel.Draw(screen, m.Renderer, m.Scroll.Offset())
}

// Layout handles window resize.
func (m *Manager) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != m.ScreenWidth || outsideHeight != m.ScreenHeight {
		m.ScreenWidth = outsideWidth
		m.ScreenHeight = outsideHeight
		if outsideWidth != m.Panel.Width {
			m.Panel.Layout(m.Profile, outsideWidth)
		}
		m.updateLimit()
		m.Events.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func (m *Manager) updateLimit() {
	m.Scroll.SetLimit(float64(m.Panel.Height() - m.ScreenHeight))
}

// nextSection returns the offset of the first heading below the current
// position, wrapping to the top after the last one.
func (m *Manager) nextSection() float64 {
	current := m.Scroll.Offset()
	atBottom := current >= m.Scroll.Limit()-1
	for _, l := range m.Panel.Lines() {
		if l.Kind != KindDivider {
			continue
		}
		if target := float64(l.Y - m.Panel.padding); target > current+1 {
			if atBottom {
				break
			}
			return target
		}
	}
	return 0
}
