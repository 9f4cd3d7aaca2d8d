package lighting

import (
	"cmp"
	"math"
	"slices"

	"github.com/dhconnelly/rtreego"

	"chosenoffset.com/sightline/internal/core/sight"
)

// boundsPad keeps axis-aligned segments from producing zero-width rectangles.
const boundsPad = 1e-6

type indexedSegment struct {
	segment sight.Segment
	order   int
	rect    rtreego.Rect
}

func (s *indexedSegment) Bounds() rtreego.Rect {
	return s.rect
}

// Index is an R-tree over occluding segments.
type Index struct {
	tree     *rtreego.Rtree
	segments []sight.Segment
}

// NewIndex builds an index over segments.
func NewIndex(segments []sight.Segment) *Index {
	idx := &Index{
		tree:     rtreego.NewTree(2, 25, 50),
		segments: append([]sight.Segment(nil), segments...),
	}

	for i, seg := range idx.segments {
		idx.tree.Insert(&indexedSegment{
			segment: seg,
			order:   i,
			rect:    segmentRect(seg),
		})
	}

	return idx
}

// Segments returns every indexed segment in insertion order.
func (idx *Index) Segments() []sight.Segment {
	return append([]sight.Segment(nil), idx.segments...)
}

// Size returns the number of indexed segments.
func (idx *Index) Size() int {
	return len(idx.segments)
}

// Query returns the segments whose bounding boxes intersect the square of
// half-side radius centred on (x, y), in insertion order.
func (idx *Index) Query(x, y, radius float64) []sight.Segment {
	if radius <= 0 {
		return nil
	}

	bb, err := rtreego.NewRect(rtreego.Point{x - radius, y - radius}, []float64{2 * radius, 2 * radius})
	if err != nil {
		return nil
	}

	found := idx.tree.SearchIntersect(bb)
	hits := make([]*indexedSegment, 0, len(found))
	for _, obj := range found {
		hits = append(hits, obj.(*indexedSegment))
	}

	// The tree returns matches in node order; restore insertion order so
	// results are deterministic.
	slices.SortFunc(hits, func(a, b *indexedSegment) int {
		return cmp.Compare(a.order, b.order)
	})

	segments := make([]sight.Segment, len(hits))
	for i, h := range hits {
		segments[i] = h.segment
	}
	return segments
}

func segmentRect(seg sight.Segment) rtreego.Rect {
	minX := math.Min(seg.A.X, seg.B.X) - boundsPad
	minY := math.Min(seg.A.Y, seg.B.Y) - boundsPad
	width := math.Abs(seg.A.X-seg.B.X) + 2*boundsPad
	height := math.Abs(seg.A.Y-seg.B.Y) + 2*boundsPad

	// Lengths are strictly positive, so NewRect cannot fail.
	r, _ := rtreego.NewRect(rtreego.Point{minX, minY}, []float64{width, height})
	return r
}
