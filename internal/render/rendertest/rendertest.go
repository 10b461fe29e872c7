// Package rendertest provides an in-memory render.Renderer that records
// draw calls, for tests that run without a window.
package rendertest

import (
	"image"
	"image/color"

	"chosenoffset.com/backdrop/internal/render"
)

// Renderer records allocations and draw calls.
type Renderer struct {
	FailImages bool    // NewImage returns render.ErrUnsupportedSize
	Scale      float64 // DeviceScaleFactor result; zero means 1

	Images   []*Image
	Calls    []string // "line" and "triangles" in draw order
	Lines    int
	Circles  int
	Rects    int
	Texts    []string
	Allocs   int
	Disposed int
}

// NewImage allocates a recording image.
func (r *Renderer) NewImage(width, height int) (render.Image, error) {
	if r.FailImages || width <= 0 || height <= 0 {
		return nil, render.ErrUnsupportedSize
	}
	r.Allocs++
	img := &Image{owner: r, w: width, h: height}
	r.Images = append(r.Images, img)
	return img, nil
}

// FillCircle counts the call.
func (r *Renderer) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {
	r.Circles++
}

// FillRect counts the call.
func (r *Renderer) FillRect(dst render.Image, x, y, width, height float32, clr color.Color) {
	r.Rects++
}

// StrokeLine counts the call.
func (r *Renderer) StrokeLine(dst render.Image, x0, y0, x1, y1, width float32, clr color.Color, antialias bool) {
	r.Lines++
	r.Calls = append(r.Calls, "line")
}

// DrawText records the text.
func (r *Renderer) DrawText(dst render.Image, text string, x, y int) {
	r.Texts = append(r.Texts, text)
}

// MeasureText assumes a 6x16 cell per rune.
func (r *Renderer) MeasureText(text string, scale float64) (int, int) {
	return int(float64(len([]rune(text))*6) * scale), int(16 * scale)
}

// DeviceScaleFactor returns Scale or 1.
func (r *Renderer) DeviceScaleFactor() float64 {
	if r.Scale == 0 {
		return 1
	}
	return r.Scale
}

// Image is a recording render.Image.
type Image struct {
	owner *Renderer
	w, h  int

	Fills     int
	Clears    int
	Draws     int
	Triangles int // Draw calls
	Vertices  int
	Lighter   int // Draw calls with additive blend
	Disposed  bool

	Last []render.Vertex // Vertices of the most recent DrawTriangles call
}

func (i *Image) Bounds() image.Rectangle { return image.Rect(0, 0, i.w, i.h) }
func (i *Image) Size() (int, int)        { return i.w, i.h }
func (i *Image) Fill(clr color.Color)    { i.Fills++ }
func (i *Image) Clear()                  { i.Clears++ }

func (i *Image) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	i.Draws++
}

func (i *Image) DrawTriangles(vertices []render.Vertex, indices []uint16, img render.Image, opts *render.DrawTrianglesOptions) {
	i.Triangles++
	i.Vertices += len(vertices)
	i.Last = append(i.Last[:0], vertices...)
	i.owner.Calls = append(i.owner.Calls, "triangles")
	if opts != nil && opts.Blend == render.BlendLighter {
		i.Lighter++
	}
}

// Dispose marks the image; repeated calls are counted once.
func (i *Image) Dispose() {
	if i.Disposed {
		return
	}
	i.Disposed = true
	i.owner.Disposed++
}

// Live returns the images not yet disposed.
func (r *Renderer) Live() []*Image {
	var live []*Image
	for _, img := range r.Images {
		if !img.Disposed {
			live = append(live, img)
		}
	}
	return live
}

func init() {
	if render.NewGeoM == nil {
		render.NewGeoM = func() render.GeoM { return &GeoM{SX: 1, SY: 1} }
	}
}

// GeoM records scale and translation.
type GeoM struct {
	SX, SY float64
	TX, TY float64
}

func (g *GeoM) Translate(tx, ty float64) { g.TX += tx; g.TY += ty }
func (g *GeoM) Scale(sx, sy float64)     { g.SX *= sx; g.SY *= sy; g.TX *= sx; g.TY *= sy }

// Input is a scripted render.InputManager. Pressed keys are consumed by the
// next IsKeyJustPressed call for that key.
type Input struct {
	X, Y    int
	WheelDY float64
	pressed map[render.Key]bool
}

// Press queues a key press.
func (in *Input) Press(k render.Key) {
	if in.pressed == nil {
		in.pressed = make(map[render.Key]bool)
	}
	in.pressed[k] = true
}

func (in *Input) IsKeyJustPressed(k render.Key) bool {
	if in.pressed[k] {
		delete(in.pressed, k)
		return true
	}
	return false
}

func (in *Input) GetCursorPosition() (int, int) { return in.X, in.Y }

// Wheel returns and clears the queued wheel movement.
func (in *Input) Wheel() (float64, float64) {
	dy := in.WheelDY
	in.WheelDY = 0
	return 0, dy
}
