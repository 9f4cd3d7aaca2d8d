// Package viewer is the interactive visibility demo: the observer follows
// the cursor (or WASD) until a click pins it, I switches to the directional
// sweep, L toggles a light carried by the observer.
package viewer

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"chosenoffset.com/sightline/internal/config"
	"chosenoffset.com/sightline/internal/core/sight"
	"chosenoffset.com/sightline/internal/lighting"
	"chosenoffset.com/sightline/internal/logging"
	"chosenoffset.com/sightline/internal/raster"
	"chosenoffset.com/sightline/internal/render"
	"chosenoffset.com/sightline/internal/scene"
)

// ErrQuit is returned from Update when the user closes the viewer.
var ErrQuit = errors.New("viewer closed")

// Mode selects the query shown.
type Mode int

const (
	ModePoint Mode = iota
	ModeIsometric
)

func (m Mode) String() string {
	if m == ModeIsometric {
		return "isometric"
	}
	return "point"
}

// playerLightRadius is the reach of the observer's light.
const playerLightRadius = 200

// Game implements render.Game.
type Game struct {
	cfg   config.ViewerConfig
	style raster.Style

	scene *scene.Scene
	sight *sight.Sight

	renderer render.Renderer
	input    render.InputManager

	source  sight.Point
	angle   float64
	mode    Mode
	paused  bool
	pinned  bool
	clicked bool
	cursorX int
	cursorY int

	lights        *lighting.Manager
	index         *lighting.Index
	lits          []lighting.Lit
	playerLightOn bool

	polygon  []sight.Point
	whiteImg render.Image
}

// New creates a viewer for s.
func New(s *scene.Scene, cfg config.ViewerConfig, style raster.Style, r render.Renderer, input render.InputManager) *Game {
	sg := s.Sight()
	g := &Game{
		cfg:      cfg,
		style:    style,
		scene:    s,
		sight:    sg,
		renderer: r,
		input:    input,
		source:   s.Source,
		lights:   lighting.NewManager(),
		index:    lighting.NewIndex(sg.Segments()),
	}

	g.cursorX, g.cursorY = input.GetCursorPosition()

	for _, l := range s.Lights {
		g.lights.Add(l)
	}
	g.lights.SetPlayerLight(g.source.X, g.source.Y, playerLightRadius, 0.6, lighting.DefaultColor)

	g.refresh()
	logging.Logger().Info("viewer ready",
		"scene", s.Name, "segments", len(g.sight.Segments()), "vertices", len(g.sight.Vertices()))

	return g
}

// Update advances one tick.
func (g *Game) Update() error {
	if g.input.IsKeyJustPressed(render.KeyEscape) {
		return ErrQuit
	}

	if g.input.IsKeyJustPressed(render.KeyI) {
		if g.mode == ModePoint {
			g.mode = ModeIsometric
		} else {
			g.mode = ModePoint
		}
		logging.Logger().Debug("mode changed", "mode", g.mode.String())
	}
	if g.input.IsKeyJustPressed(render.KeySpace) {
		g.paused = !g.paused
	}
	if g.input.IsKeyJustPressed(render.KeyL) {
		g.playerLightOn = !g.playerLightOn
		g.lights.EnablePlayerLight(g.playerLightOn)
	}

	// Edge-triggered: holding the button toggles once.
	down := g.input.IsMouseButtonPressed(render.MouseButtonLeft)
	if down && !g.clicked {
		g.pinned = !g.pinned
		if g.pinned {
			x, y := g.input.GetCursorPosition()
			g.source = sight.Point{X: float64(x), Y: float64(y)}
		}
	}
	g.clicked = down

	g.move()

	if g.mode == ModeIsometric && !g.paused {
		g.angle = math.Mod(g.angle+g.cfg.SweepSpeed, 2*math.Pi)
	}

	g.refresh()
	return nil
}

func (g *Game) move() {
	speed := g.cfg.Speed
	moved := false

	if g.input.IsKeyPressed(render.KeyW) || g.input.IsKeyPressed(render.KeyUp) {
		g.source.Y -= speed
		moved = true
	}
	if g.input.IsKeyPressed(render.KeyS) || g.input.IsKeyPressed(render.KeyDown) {
		g.source.Y += speed
		moved = true
	}
	if g.input.IsKeyPressed(render.KeyA) || g.input.IsKeyPressed(render.KeyLeft) {
		g.source.X -= speed
		moved = true
	}
	if g.input.IsKeyPressed(render.KeyD) || g.input.IsKeyPressed(render.KeyRight) {
		g.source.X += speed
		moved = true
	}

	// The cursor only takes over once it actually moves, so keyboard
	// movement is not undone by a resting mouse.
	x, y := g.input.GetCursorPosition()
	if !moved && !g.pinned && (x != g.cursorX || y != g.cursorY) {
		g.source = sight.Point{X: float64(x), Y: float64(y)}
	}
	g.cursorX, g.cursorY = x, y

	// Keep source in bounds
	w, h := float64(g.cfg.Width), float64(g.cfg.Height)
	g.source.X = math.Max(0, math.Min(w, g.source.X))
	g.source.Y = math.Max(0, math.Min(h, g.source.Y))
}

func (g *Game) refresh() {
	switch g.mode {
	case ModeIsometric:
		g.polygon = g.sight.Isometric(g.angle)
	default:
		g.polygon = g.sight.Polygon(g.source)
	}

	g.lights.UpdatePlayerLightPosition(g.source.X, g.source.Y)
	g.lits = g.lights.Compute(g.index)
}

// Draw renders the current state.
func (g *Game) Draw(screen render.Image) {
	screen.Fill(g.style.Background)

	for _, lit := range g.lits {
		g.renderer.FillPolygon(screen, lit.Polygon, lightColor(lit.Light, g.lights.Ambient()))
	}

	switch g.mode {
	case ModeIsometric:
		g.drawSweep(screen)
	default:
		vertices, indices := render.FanVertices(g.source, g.polygon, g.style.Visible)
		if len(indices) > 0 {
			screen.DrawTriangles(vertices, indices, g.white(), &render.DrawTrianglesOptions{AntiAlias: true})
		}
	}

	width := float32(g.style.LineWidth)
	for _, seg := range g.sight.Boundary() {
		g.strokeSegment(screen, seg, width, g.style.Boundary)
	}
	for _, seg := range g.sight.Occluders() {
		g.strokeSegment(screen, seg, width, g.style.Occluder)
	}

	if g.mode == ModePoint {
		g.renderer.FillCircle(screen, float32(g.source.X), float32(g.source.Y), float32(g.style.SourceRadius), g.style.Source)
	}

	g.renderer.DrawText(screen, g.status(), 8, 8)
}

// drawSweep draws every directional hit as a short ray ending on the
// occluder it struck.
func (g *Game) drawSweep(screen render.Image) {
	dx, dy := math.Cos(g.angle), math.Sin(g.angle)
	const tail = 12

	for _, p := range g.polygon {
		g.renderer.StrokeLine(screen,
			float32(p.X-tail*dx), float32(p.Y-tail*dy), float32(p.X), float32(p.Y),
			1, g.style.Visible)
	}
	for i := 1; i < len(g.polygon); i++ {
		a, b := g.polygon[i-1], g.polygon[i]
		g.renderer.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, g.style.Source)
	}
}

func (g *Game) strokeSegment(screen render.Image, seg sight.Segment, width float32, clr color.Color) {
	g.renderer.StrokeLine(screen, float32(seg.A.X), float32(seg.A.Y), float32(seg.B.X), float32(seg.B.Y), width, clr)
}

func (g *Game) white() render.Image {
	if g.whiteImg == nil {
		g.whiteImg = g.renderer.NewImage(1, 1)
		g.whiteImg.Fill(color.White)
	}
	return g.whiteImg
}

func (g *Game) status() string {
	if g.mode == ModeIsometric {
		state := ""
		if g.paused {
			state = " (paused)"
		}
		return fmt.Sprintf("isometric %.2f rad%s  points %d", g.angle, state, len(g.polygon))
	}
	return fmt.Sprintf("point (%.0f, %.0f)  points %d", g.source.X, g.source.Y, len(g.polygon))
}

// Layout implements render.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Mode returns the current query mode.
func (g *Game) Mode() Mode { return g.mode }

// Pinned reports whether a click has fixed the observer in place.
func (g *Game) Pinned() bool { return g.pinned }

// Source returns the observer position.
func (g *Game) Source() sight.Point { return g.source }

// Angle returns the sweep direction in radians.
func (g *Game) Angle() float64 { return g.angle }

// Polygon returns the result of the last query.
func (g *Game) Polygon() []sight.Point { return g.polygon }

// Lit returns the regions lit in the last tick.
func (g *Game) Lit() []lighting.Lit { return g.lits }

func lightColor(l lighting.LightSource, ambient float64) color.NRGBA {
	alpha := math.Max(0, math.Min(1, l.Intensity*(1-ambient)))
	c := l.Color
	c.A = uint8(math.Round(alpha * 255))
	return c
}
