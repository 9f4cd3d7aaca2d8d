// Package raster draws scenes and visibility polygons into images.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/image/vector"

	"chosenoffset.com/sightline/internal/core/sight"
)

// Style holds the colours used by RenderScene.
type Style struct {
	Background   color.NRGBA
	Visible      color.NRGBA
	Occluder     color.NRGBA
	Boundary     color.NRGBA
	Source       color.NRGBA
	LineWidth    float64
	SourceRadius float64
}

// DefaultStyle matches the interactive viewer.
func DefaultStyle() Style {
	return Style{
		Background:   color.NRGBA{R: 20, G: 20, B: 28, A: 255},
		Visible:      color.NRGBA{R: 240, G: 220, B: 150, A: 255},
		Occluder:     color.NRGBA{R: 200, G: 60, B: 60, A: 255},
		Boundary:     color.NRGBA{R: 90, G: 90, B: 110, A: 255},
		Source:       color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		LineWidth:    2,
		SourceRadius: 4,
	}
}

// Canvas is an RGBA image with polygon and line drawing.
type Canvas struct {
	img  *image.NRGBA
	rast *vector.Rasterizer
}

// NewCanvas creates a canvas filled with bg.
func NewCanvas(width, height int, bg color.NRGBA) *Canvas {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	return &Canvas{
		img:  img,
		rast: vector.NewRasterizer(width, height),
	}
}

// Image returns the backing image.
func (c *Canvas) Image() *image.NRGBA {
	return c.img
}

// FillPolygon fills a closed polygon using the non-zero rule.
func (c *Canvas) FillPolygon(points []sight.Point, col color.NRGBA) {
	if len(points) < 3 {
		return
	}

	b := c.img.Bounds()
	c.rast.Reset(b.Dx(), b.Dy())
	c.rast.MoveTo(float32(points[0].X), float32(points[0].Y))
	for _, p := range points[1:] {
		c.rast.LineTo(float32(p.X), float32(p.Y))
	}
	c.rast.ClosePath()
	c.rast.Draw(c.img, b, image.NewUniform(col), image.Point{})
}

// StrokeSegment draws a segment as a quad of the given width.
func (c *Canvas) StrokeSegment(seg sight.Segment, width float64, col color.NRGBA) {
	dx := seg.B.X - seg.A.X
	dy := seg.B.Y - seg.A.Y
	length := math.Hypot(dx, dy)
	if length == 0 || width <= 0 {
		return
	}

	nx := -dy / length * width / 2
	ny := dx / length * width / 2

	c.FillPolygon([]sight.Point{
		{X: seg.A.X + nx, Y: seg.A.Y + ny},
		{X: seg.B.X + nx, Y: seg.B.Y + ny},
		{X: seg.B.X - nx, Y: seg.B.Y - ny},
		{X: seg.A.X - nx, Y: seg.A.Y - ny},
	}, col)
}

// FillCircle fills a disc approximated by a 32-gon.
func (c *Canvas) FillCircle(center sight.Point, radius float64, col color.NRGBA) {
	if radius <= 0 {
		return
	}

	const sides = 32
	points := make([]sight.Point, sides)
	for i := range points {
		a := 2 * math.Pi * float64(i) / sides
		points[i] = sight.Point{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		}
	}
	c.FillPolygon(points, col)
}

// EncodePNG writes the canvas as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return EncodePNG(w, c.img)
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return errors.Wrap(err, "encode png")
	}
	return nil
}

// RenderScene draws the visible region, then the occluders and boundary,
// then the source.
func RenderScene(width, height int, s *sight.Sight, polygon []sight.Point, source sight.Point, style Style) *image.NRGBA {
	c := NewCanvas(width, height, style.Background)

	c.FillPolygon(polygon, style.Visible)
	for _, seg := range s.Boundary() {
		c.StrokeSegment(seg, style.LineWidth, style.Boundary)
	}
	for _, seg := range s.Occluders() {
		c.StrokeSegment(seg, style.LineWidth, style.Occluder)
	}
	c.FillCircle(source, style.SourceRadius, style.Source)

	return c.Image()
}

// sweepTail is the length of the ray stub drawn before each directional hit.
const sweepTail = 12

// RenderSweep draws a directional query: a short ray ending at every hit and
// the chain joining the hits in sweep order.
func RenderSweep(width, height int, s *sight.Sight, hits []sight.Point, angle float64, style Style) *image.NRGBA {
	c := NewCanvas(width, height, style.Background)

	dx, dy := math.Cos(angle), math.Sin(angle)
	for _, p := range hits {
		tail := sight.Point{X: p.X - sweepTail*dx, Y: p.Y - sweepTail*dy}
		c.StrokeSegment(sight.Segment{A: tail, B: p}, 1, style.Visible)
	}
	for i := 1; i < len(hits); i++ {
		c.StrokeSegment(sight.Segment{A: hits[i-1], B: hits[i]}, 1, style.Source)
	}

	for _, seg := range s.Boundary() {
		c.StrokeSegment(seg, style.LineWidth, style.Boundary)
	}
	for _, seg := range s.Occluders() {
		c.StrokeSegment(seg, style.LineWidth, style.Occluder)
	}

	return c.Image()
}
