package glyphs

import (
	"math"

	"chosenoffset.com/sightline/internal/core/sight"
)

// Bounds returns the bounding box of all polygons. ok is false when there
// are no points.
func Bounds(polygons [][]sight.Point) (minX, minY, maxX, maxY float64, ok bool) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)

	for _, poly := range polygons {
		for _, p := range poly {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
			ok = true
		}
	}

	return minX, minY, maxX, maxY, ok
}

// Fit scales polygons uniformly so they take up fill (0..1] of the
// width x height viewport in the limiting dimension, and centres them.
func Fit(polygons [][]sight.Point, width, height, fill float64) [][]sight.Point {
	minX, minY, maxX, maxY, ok := Bounds(polygons)
	if !ok {
		return nil
	}

	bw, bh := maxX-minX, maxY-minY
	scale := fill * math.Min(width/bw, height/bh)
	if math.IsInf(scale, 0) || math.IsNaN(scale) {
		scale = 1
	}

	dx := width/2 - scale*(minX+bw/2)
	dy := height/2 - scale*(minY+bh/2)

	out := make([][]sight.Point, len(polygons))
	for i, poly := range polygons {
		out[i] = make([]sight.Point, len(poly))
		for j, p := range poly {
			out[i][j] = sight.Point{X: dx + scale*p.X, Y: dy + scale*p.Y}
		}
	}

	return out
}

// Segments turns every polygon into a closed loop of segments.
func Segments(polygons [][]sight.Point) []sight.Segment {
	var segments []sight.Segment
	for _, poly := range polygons {
		segments = append(segments, sight.PolygonSegments(poly)...)
	}
	return segments
}
