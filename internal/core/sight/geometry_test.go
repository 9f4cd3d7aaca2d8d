package sight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointInPolygon(t *testing.T) {
	triangle := []Point{{0, 0}, {4, 0}, {0, 4}}

	assert.True(t, PointInPolygon(Point{1, 1}, triangle))
	assert.False(t, PointInPolygon(Point{3, 3}, triangle))
	assert.False(t, PointInPolygon(Point{-1, 1}, triangle))
	assert.False(t, PointInPolygon(Point{1, 1}, nil))
}

func TestPolygonSegmentsClosesTheLoop(t *testing.T) {
	segments := PolygonSegments([]Point{{0, 0}, {1, 0}, {1, 1}})

	assert.Equal(t, []Segment{
		{A: Point{0, 0}, B: Point{1, 0}},
		{A: Point{1, 0}, B: Point{1, 1}},
		{A: Point{1, 1}, B: Point{0, 0}},
	}, segments)
	assert.Empty(t, PolygonSegments(nil))
}

func TestRectangleSegments(t *testing.T) {
	segments := RectangleSegments(1, 2, 3, 4)

	assert.Len(t, segments, 4)
	for i, seg := range segments {
		assert.Equal(t, seg.B, segments[(i+1)%4].A, "edge %d should end where the next starts", i)
	}
	assert.Equal(t, Point{1, 2}, segments[0].A)
	assert.Equal(t, Point{4, 6}, segments[2].A)
}
