package host

import (
	"github.com/pkg/errors"

	"chosenoffset.com/sightline/internal/core/sight"
)

// ComponentsPerSegment is the number of scalars describing one segment
// in a flat buffer: ax, ay, bx, by.
const ComponentsPerSegment = 4

// ComponentsPerPoint is the number of scalars describing one point: x, y.
const ComponentsPerPoint = 2

// ErrComponentCount is returned when a segment buffer length is not a
// multiple of ComponentsPerSegment.
var ErrComponentCount = errors.New("segment buffer length is not a multiple of 4")

// SegmentsFromComponents decodes a flat (ax, ay, bx, by)* buffer.
func SegmentsFromComponents(components []float64) ([]sight.Segment, error) {
	if len(components)%ComponentsPerSegment != 0 {
		return nil, errors.Wrapf(ErrComponentCount, "got %d components", len(components))
	}

	segments := make([]sight.Segment, len(components)/ComponentsPerSegment)
	for i := range segments {
		c := components[i*ComponentsPerSegment : (i+1)*ComponentsPerSegment]
		segments[i] = sight.Segment{
			A: sight.Point{X: c[0], Y: c[1]},
			B: sight.Point{X: c[2], Y: c[3]},
		}
	}

	return segments, nil
}

// Components encodes points as a flat (x, y)* buffer.
func Components(points []sight.Point) []float64 {
	out := make([]float64, 0, len(points)*ComponentsPerPoint)
	for _, p := range points {
		out = append(out, p.X, p.Y)
	}
	return out
}
