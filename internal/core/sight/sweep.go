package sight

import (
	"math"
	"slices"
)

// Polygon returns the boundary of the region visible from source, as hit
// points ordered by ascending ray angle.
func (s *Sight) Polygon(source Point) []Point {
	return points(s.Hits(source))
}

// Hits runs the angular sweep from source. Two rays are cast per unique
// vertex, AngleEpsilon either side of the vertex direction, and the closest
// hit of each is kept. Rays that hit nothing are dropped. The result is
// stably sorted by angle, which is stored in Hit.Key.
func (s *Sight) Hits(source Point) []Hit {
	hits := make([]Hit, 0, len(s.vertices)*2)

	for _, v := range s.vertices {
		angle := math.Atan2(v.Y-source.Y, v.X-source.X)

		for _, a := range [2]float64{angle - AngleEpsilon, angle + AngleEpsilon} {
			ray := Segment{
				A: source,
				B: Point{X: source.X + math.Cos(a), Y: source.Y + math.Sin(a)},
			}
			if intersect, ok := ClosestIntersect(s.segments, ray); ok {
				hits = append(hits, Hit{Intersection: intersect, Key: a})
			}
		}
	}

	sortHits(hits)
	return hits
}

// Isometric returns the boundary seen by parallel rays travelling at angle,
// ordered by ascending projection onto the sweep normal.
func (s *Sight) Isometric(angle float64) []Point {
	return points(s.IsometricHits(angle))
}

// IsometricHits runs the directional sweep. For every unique vertex two
// rays start OffsetEpsilon either side of it along the normal (dy, -dx) and
// travel along (dx, dy). Each hit is keyed by its projection onto the
// normal and the result is stably sorted by that key.
func (s *Sight) IsometricHits(angle float64) []Hit {
	dx := math.Cos(angle)
	dy := math.Sin(angle)
	n := Point{X: dy, Y: -dx}

	hits := make([]Hit, 0, len(s.vertices)*2)

	for _, v := range s.vertices {
		sources := [2]Point{
			{X: v.X + OffsetEpsilon*n.X, Y: v.Y + OffsetEpsilon*n.Y},
			{X: v.X - OffsetEpsilon*n.X, Y: v.Y - OffsetEpsilon*n.Y},
		}

		for _, src := range sources {
			ray := Segment{
				A: src,
				B: Point{X: src.X + dx, Y: src.Y + dy},
			}
			if intersect, ok := ClosestIntersect(s.segments, ray); ok {
				key := n.X*intersect.X + n.Y*intersect.Y
				hits = append(hits, Hit{Intersection: intersect, Key: key})
			}
		}
	}

	sortHits(hits)
	return hits
}

// sortHits orders hits by ascending key. Equal keys keep insertion order and
// NaN keys go last.
func sortHits(hits []Hit) {
	slices.SortStableFunc(hits, func(a, b Hit) int {
		switch {
		case lessKey(a.Key, b.Key):
			return -1
		case lessKey(b.Key, a.Key):
			return 1
		}
		return 0
	})
}

func points(hits []Hit) []Point {
	out := make([]Point, len(hits))
	for i, h := range hits {
		out[i] = h.Point()
	}
	return out
}
