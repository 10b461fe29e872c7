package render

import (
	"errors"
	"image"
	"image/color"
)

// ErrUnsupportedSize is returned when a backend cannot allocate an image of
// the requested dimensions.
var ErrUnsupportedSize = errors.New("render: unsupported image size")

// ErrTerminated is returned from Game.Update to end the loop cleanly.
var ErrTerminated = errors.New("render: terminated")

// Renderer is the main rendering interface that abstracts the underlying
// graphics engine. This allows swapping rendering backends without changing
// scene logic.
type Renderer interface {
	// NewImage allocates an offscreen surface. It fails instead of panicking
	// when the backend cannot provide one.
	NewImage(width, height int) (Image, error)

	// Vector operations (for drawing shapes)
	FillCircle(dst Image, x, y, radius float32, clr color.Color)
	FillRect(dst Image, x, y, width, height float32, clr color.Color)
	StrokeLine(dst Image, x0, y0, x1, y1, width float32, clr color.Color, antialias bool)

	// Text operations
	DrawText(dst Image, text string, x, y int)
	MeasureText(text string, scale float64) (width, height int)

	// DeviceScaleFactor reports the display's pixel ratio.
	DeviceScaleFactor() float64
}

// Image represents a renderable image surface that can be drawn to or drawn from.
// It abstracts the underlying image implementation.
type Image interface {
	// Properties
	Bounds() image.Rectangle
	Size() (width, height int)

	// Fill operations
	Fill(clr color.Color)
	Clear()

	// Drawing operations
	DrawImage(src Image, opts *DrawImageOptions)
	DrawTriangles(vertices []Vertex, indices []uint16, img Image, opts *DrawTrianglesOptions)

	// Resource management
	Dispose()
}

// DrawImageOptions contains options for drawing an image.
type DrawImageOptions struct {
	GeoM GeoM
	// Alpha scales the source alpha. Zero means opaque (1).
	Alpha float32
}

// GeoM represents a geometric transformation matrix.
type GeoM interface {
	// Translate shifts the image by (tx, ty).
	Translate(tx, ty float64)

	// Scale scales the image by (sx, sy).
	Scale(sx, sy float64)
}

// NewGeoM creates a new geometric transformation matrix.
// This is implemented by the specific renderer backend.
var NewGeoM func() GeoM

// Blend selects how triangles are composited onto the destination.
type Blend int

const (
	BlendSourceOver Blend = iota
	BlendLighter
)

// DrawTrianglesOptions contains options for drawing triangles.
type DrawTrianglesOptions struct {
	AntiAlias bool
	Blend     Blend
}

// Vertex represents a vertex for triangle rendering.
type Vertex struct {
	DstX   float32
	DstY   float32
	SrcX   float32
	SrcY   float32
	ColorR float32
	ColorG float32
	ColorB float32
	ColorA float32
}

// InputManager handles input from the user (keyboard, mouse, etc).
type InputManager interface {
	IsKeyJustPressed(key Key) bool
	GetCursorPosition() (x, y int)
	// Wheel returns the scroll amount since the last tick.
	Wheel() (dx, dy float64)
}

// Key represents a keyboard key.
type Key int

// Key constants for common keys
const (
	KeyR Key = iota // Remount the background
	KeyTab
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeySpace
	KeyEscape
)

// Game represents the game interface that the engine will call.
// This is typically implemented by the page manager.
type Game interface {
	// Update updates the page logic. It is called every tick (typically 60 times per second).
	Update() error

	// Draw draws the screen. It is called every frame.
	Draw(screen Image)

	// Layout accepts the outside size (e.g., window size) and returns the logical screen size.
	// The logical screen size is used for rendering and input coordinates.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the engine that manages the frame loop and window.
type Engine interface {
	// SetWindowSize sets the window size in pixels.
	SetWindowSize(width, height int)

	// SetWindowTitle sets the window title.
	SetWindowTitle(title string)

	// SetWindowResizable enables or disables window resizing.
	SetWindowResizable(resizable bool)

	// RunGame runs the frame loop with the provided game.
	// This is a blocking call that runs until the game ends.
	RunGame(game Game) error
}
