package lighting

import (
	"chosenoffset.com/sightline/internal/core/sight"
)

// Lit is a light together with the region it reaches.
type Lit struct {
	Light   LightSource
	Polygon []sight.Point
}

// Compute casts the visibility polygon of every active light. A bounded
// light only considers occluders near it and is clipped by a square of side
// 2*Radius around it; an unbounded light sees the whole index.
func (m *Manager) Compute(index *Index) []Lit {
	lights := m.Lights()
	lits := make([]Lit, 0, len(lights))

	for _, l := range lights {
		lits = append(lits, Lit{Light: l, Polygon: Cast(index, l)})
	}

	return lits
}

// Cast computes the region lit by a single light.
func Cast(index *Index, l LightSource) []sight.Point {
	if l.Radius <= 0 {
		return sight.New(index.Segments()).Polygon(l.Position())
	}

	occluders := index.Query(l.X, l.Y, l.Radius)
	boundary := sight.RectangleSegments(l.X-l.Radius, l.Y-l.Radius, 2*l.Radius, 2*l.Radius)

	return sight.NewPartitioned(occluders, boundary).Polygon(l.Position())
}

// IsLit reports whether p lies inside any lit region.
func IsLit(p sight.Point, lits []Lit) bool {
	for _, lit := range lits {
		if len(lit.Polygon) >= 3 && sight.PointInPolygon(p, lit.Polygon) {
			return true
		}
	}
	return false
}
