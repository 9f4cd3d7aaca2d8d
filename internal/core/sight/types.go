// Package sight computes 2D visibility from a set of occluding segments.
//
// A Sight is built once from its segments and answers two kinds of query:
// Polygon casts rays from a point source toward every known vertex and
// returns the visible boundary in angle order, Isometric casts parallel
// rays in a fixed direction and returns the boundary ordered across the
// direction. Both queries are read-only, so a Sight can be shared between
// goroutines.
package sight

// Point represents a 2D point in space
type Point struct {
	X, Y float64
}

// Segment represents an undirected edge between two points.
// It is used both for occluders and for scene boundaries, and as a ray
// (A is the origin, B a second point along the direction of travel).
type Segment struct {
	A, B Point
}

// Intersection is a ray/segment hit.
type Intersection struct {
	X, Y float64
	// Param is the distance along the ray in units of the ray's direction
	// vector (B-A). It is never negative.
	Param float64
}

// Point returns the coordinates of the hit.
func (i Intersection) Point() Point {
	return Point{X: i.X, Y: i.Y}
}

// Hit is a probe result together with the key it was ordered by: the probe
// angle for Polygon, the projection onto the sweep normal for Isometric.
type Hit struct {
	Intersection
	Key float64
}

const (
	// AngleEpsilon is the angular jitter applied on both sides of each
	// vertex direction in Polygon (radians).
	AngleEpsilon = 1e-5

	// OffsetEpsilon is the positional jitter applied on both sides of each
	// vertex along the sweep normal in Isometric.
	OffsetEpsilon = 1e-4
)
