package sight

// Sight owns a fixed set of segments and the unique vertices derived from
// their endpoints. It is immutable after construction.
type Sight struct {
	segments  []Segment // occluders first, then boundary
	occluders int
	vertices  []Point
}

// New creates a Sight from a single combined segment list.
func New(segments []Segment) *Sight {
	return NewPartitioned(segments, nil)
}

// NewPartitioned creates a Sight from occluder and boundary segments.
// The two sets behave identically in intersection tests; the split is kept
// so callers can retrieve them separately.
func NewPartitioned(occluders, boundary []Segment) *Sight {
	segments := make([]Segment, 0, len(occluders)+len(boundary))
	segments = append(segments, occluders...)
	segments = append(segments, boundary...)

	return &Sight{
		segments:  segments,
		occluders: len(occluders),
		vertices:  collectVertices(segments),
	}
}

// collectVertices extracts the distinct endpoints of segments in first-seen
// order. Points are equal when both coordinates are equal.
func collectVertices(segments []Segment) []Point {
	seen := make(map[Point]struct{}, len(segments)*2)
	vertices := make([]Point, 0, len(segments)*2)

	for _, seg := range segments {
		for _, p := range [2]Point{seg.A, seg.B} {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			vertices = append(vertices, p)
		}
	}

	return vertices
}

// Segments returns a copy of all segments, occluders first.
func (s *Sight) Segments() []Segment {
	return append([]Segment(nil), s.segments...)
}

// Occluders returns a copy of the occluder segments.
func (s *Sight) Occluders() []Segment {
	return append([]Segment(nil), s.segments[:s.occluders]...)
}

// Boundary returns a copy of the boundary segments.
func (s *Sight) Boundary() []Segment {
	return append([]Segment(nil), s.segments[s.occluders:]...)
}

// Vertices returns a copy of the unique vertex list.
func (s *Sight) Vertices() []Point {
	return append([]Point(nil), s.vertices...)
}
