package tilemap

import (
	"math"
	"sort"

	"chosenoffset.com/sightline/internal/core/sight"
)

// Coord represents a tile coordinate
type Coord struct {
	X, Y int
}

type edgeKind int

const (
	edgeTop edgeKind = iota
	edgeRight
	edgeBottom
	edgeLeft
)

// edge is an exposed tile side: an interval [from, to] along a horizontal
// (top/bottom) or vertical (left/right) line.
type edge struct {
	kind     edgeKind
	line     float64
	from, to float64
}

const mergeEpsilon = 1e-9

// WallSegments extracts the perimeter of every contiguous region of
// sight-blocking tiles and merges touching colinear edges, so a straight
// wall of any length becomes a single segment. Segments wind clockwise in
// screen coordinates around each region.
func WallSegments(m *Map) []sight.Segment {
	var segments []sight.Segment

	for _, region := range Regions(m) {
		edges := perimeterEdges(region, m.Data.TileSize)
		for _, e := range mergeColinearEdges(edges) {
			segments = append(segments, e.segment())
		}
	}

	return segments
}

// Regions returns the 4-connected regions of sight-blocking tiles in scan
// order.
func Regions(m *Map) [][]Coord {
	visited := make(map[Coord]bool)
	var regions [][]Coord

	for y := 0; y < m.Data.Height; y++ {
		for x := 0; x < m.Data.Width; x++ {
			c := Coord{X: x, Y: y}
			if visited[c] || !m.BlocksSight(x, y) {
				continue
			}
			regions = append(regions, floodFill(m, c, visited))
		}
	}

	return regions
}

// floodFill performs BFS to find all connected sight-blocking tiles
func floodFill(m *Map, start Coord, visited map[Coord]bool) []Coord {
	var region []Coord
	queue := []Coord{start}
	visited[start] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		region = append(region, current)

		neighbors := [4]Coord{
			{X: current.X, Y: current.Y - 1},
			{X: current.X + 1, Y: current.Y},
			{X: current.X, Y: current.Y + 1},
			{X: current.X - 1, Y: current.Y},
		}

		for _, n := range neighbors {
			if visited[n] || !m.BlocksSight(n.X, n.Y) {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}

	return region
}

// perimeterEdges returns every side of a region tile that does not touch
// another tile of the same region.
func perimeterEdges(region []Coord, tileSize float64) []edge {
	inRegion := make(map[Coord]bool, len(region))
	for _, c := range region {
		inRegion[c] = true
	}

	var edges []edge
	for _, c := range region {
		left := float64(c.X) * tileSize
		top := float64(c.Y) * tileSize
		right := left + tileSize
		bottom := top + tileSize

		if !inRegion[Coord{X: c.X, Y: c.Y - 1}] {
			edges = append(edges, edge{kind: edgeTop, line: top, from: left, to: right})
		}
		if !inRegion[Coord{X: c.X + 1, Y: c.Y}] {
			edges = append(edges, edge{kind: edgeRight, line: right, from: top, to: bottom})
		}
		if !inRegion[Coord{X: c.X, Y: c.Y + 1}] {
			edges = append(edges, edge{kind: edgeBottom, line: bottom, from: left, to: right})
		}
		if !inRegion[Coord{X: c.X - 1, Y: c.Y}] {
			edges = append(edges, edge{kind: edgeLeft, line: left, from: top, to: bottom})
		}
	}

	return edges
}

// mergeColinearEdges joins edges of the same kind on the same line whose
// intervals touch or overlap.
func mergeColinearEdges(edges []edge) []edge {
	if len(edges) == 0 {
		return nil
	}

	sorted := append([]edge(nil), edges...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.kind != b.kind {
			return a.kind < b.kind
		}
		if a.line != b.line {
			return a.line < b.line
		}
		return a.from < b.from
	})

	merged := []edge{sorted[0]}
	for _, e := range sorted[1:] {
		last := &merged[len(merged)-1]
		if e.kind == last.kind && math.Abs(e.line-last.line) < mergeEpsilon && e.from <= last.to+mergeEpsilon {
			last.to = math.Max(last.to, e.to)
			continue
		}
		merged = append(merged, e)
	}

	return merged
}

func (e edge) segment() sight.Segment {
	switch e.kind {
	case edgeTop:
		return sight.Segment{A: sight.Point{X: e.from, Y: e.line}, B: sight.Point{X: e.to, Y: e.line}}
	case edgeRight:
		return sight.Segment{A: sight.Point{X: e.line, Y: e.from}, B: sight.Point{X: e.line, Y: e.to}}
	case edgeBottom:
		return sight.Segment{A: sight.Point{X: e.to, Y: e.line}, B: sight.Point{X: e.from, Y: e.line}}
	default:
		return sight.Segment{A: sight.Point{X: e.line, Y: e.to}, B: sight.Point{X: e.line, Y: e.from}}
	}
}
