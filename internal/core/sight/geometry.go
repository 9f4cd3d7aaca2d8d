package sight

// PointInPolygon tests if a point is inside a polygon using the even-odd
// crossing rule.
func PointInPolygon(point Point, polygon []Point) bool {
	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i].X, polygon[i].Y
		xj, yj := polygon[j].X, polygon[j].Y

		if ((yi > point.Y) != (yj > point.Y)) &&
			(point.X < (xj-xi)*(point.Y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// PolygonSegments closes polygon into a loop of segments, the last vertex
// joined back to the first.
func PolygonSegments(polygon []Point) []Segment {
	segments := make([]Segment, len(polygon))
	for i := range polygon {
		segments[i] = Segment{A: polygon[i], B: polygon[(i+1)%len(polygon)]}
	}
	return segments
}

// RectangleSegments returns the four edges of an axis-aligned rectangle,
// walking clockwise in screen coordinates from the top-left corner.
func RectangleSegments(x, y, width, height float64) []Segment {
	nw := Point{X: x, Y: y}
	ne := Point{X: x + width, Y: y}
	se := Point{X: x + width, Y: y + height}
	sw := Point{X: x, Y: y + height}

	return []Segment{
		{A: nw, B: ne},
		{A: ne, B: se},
		{A: se, B: sw},
		{A: sw, B: nw},
	}
}
