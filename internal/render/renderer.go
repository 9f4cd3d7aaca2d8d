// Package render abstracts the graphics backend used by the viewer so the
// viewer logic can run against a fake in tests.
package render

import (
	"image/color"

	"chosenoffset.com/sightline/internal/core/sight"
)

// Renderer is the drawing interface the viewer talks to.
type Renderer interface {
	// Image operations
	NewImage(width, height int) Image

	// Vector operations (for drawing shapes)
	FillCircle(dst Image, x, y, radius float32, clr color.Color)
	StrokeLine(dst Image, x0, y0, x1, y1, width float32, clr color.Color)
	FillPolygon(dst Image, points []sight.Point, clr color.Color)

	// Text operations
	DrawText(dst Image, text string, x, y int)
}

// Image represents a renderable surface.
type Image interface {
	Fill(clr color.Color)
	DrawTriangles(vertices []Vertex, indices []uint16, img Image, opts *DrawTrianglesOptions)
}

// DrawTrianglesOptions contains options for drawing triangles.
type DrawTrianglesOptions struct {
	AntiAlias bool
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
	IsKeyPressed(key Key) bool
	IsKeyJustPressed(key Key) bool
	GetCursorPosition() (x, y int)
	IsMouseButtonPressed(button MouseButton) bool
}

// Key represents a keyboard key.
type Key int

// Key constants for the keys the viewer uses
const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyI // Isometric toggle
	KeyL // Light toggle
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEscape
)

// MouseButton represents a mouse button.
type MouseButton int

// MouseButtonLeft pins and releases the observer.
const MouseButtonLeft MouseButton = 0

// Game is driven by an Engine.
type Game interface {
	// Update is called every tick (typically 60 times per second).
	Update() error

	// Draw is called every frame.
	Draw(screen Image)

	// Layout accepts the outside size and returns the logical screen size.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine manages the window and the game loop.
type Engine interface {
	SetWindowSize(width, height int)
	SetWindowTitle(title string)
	SetWindowResizable(resizable bool)

	// RunGame blocks until the game ends.
	RunGame(game Game) error
}

// FanVertices triangulates a polygon that is star-shaped around center as a
// triangle fan, coloured clr. Vertex 0 is the centre.
func FanVertices(center sight.Point, points []sight.Point, clr color.Color) ([]Vertex, []uint16) {
	if len(points) < 2 {
		return nil, nil
	}

	r, g, b, a := premultiplied(clr)
	vertex := func(p sight.Point) Vertex {
		return Vertex{
			DstX:   float32(p.X),
			DstY:   float32(p.Y),
			ColorR: r,
			ColorG: g,
			ColorB: b,
			ColorA: a,
		}
	}

	vertices := make([]Vertex, 0, len(points)+1)
	vertices = append(vertices, vertex(center))
	for _, p := range points {
		vertices = append(vertices, vertex(p))
	}

	n := uint16(len(points))
	indices := make([]uint16, 0, 3*len(points))
	for i := uint16(1); i <= n; i++ {
		next := i + 1
		if next > n {
			next = 1
		}
		indices = append(indices, 0, i, next)
	}

	return vertices, indices
}

func premultiplied(clr color.Color) (r, g, b, a float32) {
	cr, cg, cb, ca := clr.RGBA()
	return float32(cr) / 0xffff, float32(cg) / 0xffff, float32(cb) / 0xffff, float32(ca) / 0xffff
}
