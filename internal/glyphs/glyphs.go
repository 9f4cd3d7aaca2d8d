// Package glyphs turns text into occluder outlines: every glyph contour of
// a TrueType/OpenType font is flattened into a closed polygon.
package glyphs

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/vec"

	"chosenoffset.com/sightline/internal/core/sight"
)

// Options controls outline extraction.
type Options struct {
	// Size is the font size in world units per em.
	Size float64
	// Tolerance is the maximum distance between a curve and its
	// flattened polyline.
	Tolerance float64
	// Font is the raw font file. Nil selects Go Bold.
	Font []byte
}

// DefaultOptions returns the settings used by the demo.
func DefaultOptions() Options {
	return Options{Size: 100, Tolerance: 0.5}
}

// Outlines lays text out on a single line starting at the origin, baseline
// at y=0 with y growing downward, and returns one polygon per glyph contour.
func Outlines(text string, opts Options) ([][]sight.Point, error) {
	if opts.Size <= 0 {
		return nil, errors.Errorf("font size must be positive, got %g", opts.Size)
	}
	if opts.Tolerance <= 0 {
		return nil, errors.Errorf("tolerance must be positive, got %g", opts.Tolerance)
	}

	src := opts.Font
	if src == nil {
		src = gobold.TTF
	}
	f, err := sfnt.Parse(src)
	if err != nil {
		return nil, errors.Wrap(err, "parse font")
	}

	var buf sfnt.Buffer
	ppem := fixed.Int26_6(math.Round(opts.Size * 64))

	var polygons [][]sight.Point
	var pen float64
	prev, hasPrev := sfnt.GlyphIndex(0), false

	for _, r := range text {
		gi, err := f.GlyphIndex(&buf, r)
		if err != nil {
			return nil, errors.Wrapf(err, "glyph index for %q", r)
		}

		if hasPrev {
			// Fonts without a usable kern table just don't kern.
			if kern, err := f.Kern(&buf, prev, gi, ppem, font.HintingNone); err == nil {
				pen += toFloat(kern)
			}
		}

		segments, err := f.LoadGlyph(&buf, gi, ppem, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "load glyph %q", r)
		}
		polygons = append(polygons, contours(segments, pen, opts.Tolerance)...)

		advance, err := f.GlyphAdvance(&buf, gi, ppem, font.HintingNone)
		if err != nil {
			return nil, errors.Wrapf(err, "advance for %q", r)
		}
		pen += toFloat(advance)
		prev, hasPrev = gi, true
	}

	return polygons, nil
}

// contours flattens glyph segments into closed polygons shifted by dx.
func contours(segments sfnt.Segments, dx, tolerance float64) [][]sight.Point {
	var out [][]sight.Point
	var current []vec.Vec2
	var pen vec.Vec2

	flush := func() {
		if n := len(current); n > 1 && current[0] == current[n-1] {
			current = current[:n-1]
		}
		if len(current) >= 3 {
			poly := make([]sight.Point, len(current))
			for i, p := range current {
				poly[i] = sight.Point{X: p.X + dx, Y: p.Y}
			}
			out = append(out, poly)
		}
		current = nil
	}
	emit := func(p vec.Vec2) {
		current = append(current, p)
		pen = p
	}

	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			flush()
			emit(toVec(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			emit(toVec(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			flattenQuadratic(pen, toVec(seg.Args[0]), toVec(seg.Args[1]), tolerance, emit)
		case sfnt.SegmentOpCubeTo:
			flattenCubic(pen, toVec(seg.Args[0]), toVec(seg.Args[1]), toVec(seg.Args[2]), tolerance, emit)
		}
	}
	flush()

	return out
}

// flattenQuadratic emits the points after p0 of a polyline within tolerance
// of the quadratic Bézier p0, p1, p2.
func flattenQuadratic(p0, p1, p2 vec.Vec2, tolerance float64, emit func(vec.Vec2)) {
	// deviation of the control polygon: (P0 - 2*P1 + P2) / 4
	dev := p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25).Length()

	n := 1
	if dev > tolerance {
		n = int(math.Ceil(math.Sqrt(dev / tolerance)))
	}

	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		emit(p0.Mul(omt * omt).Add(p1.Mul(2 * omt * t)).Add(p2.Mul(t * t)))
	}
}

// flattenCubic is flattenQuadratic for cubic curves, using Wang's formula
// for the step count.
func flattenCubic(p0, p1, p2, p3 vec.Vec2, tolerance float64, emit func(vec.Vec2)) {
	d1 := p0.Sub(p1.Mul(2)).Add(p2).Length()
	d2 := p1.Sub(p2.Mul(2)).Add(p3).Length()

	n := 1
	if m := math.Max(d1, d2); m > 0 {
		if steps := math.Sqrt(3 * m / (4 * tolerance)); steps > 1 {
			n = int(math.Ceil(steps))
		}
	}

	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		emit(p0.Mul(omt * omt * omt).
			Add(p1.Mul(3 * omt * omt * t)).
			Add(p2.Mul(3 * omt * t * t)).
			Add(p3.Mul(t * t * t)))
	}
}

func toVec(p fixed.Point26_6) vec.Vec2 {
	return vec.Vec2{X: toFloat(p.X), Y: toFloat(p.Y)}
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
