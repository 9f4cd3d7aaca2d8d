package tilemap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chosenoffset.com/sightline/internal/core/sight"
)

const roomJSON = `{
	"name": "room",
	"width": 5,
	"height": 4,
	"tile_size": 10,
	"spawn": {"x": 5, "y": 5},
	"legend": {
		".": {"name": "floor"},
		"#": {"name": "wall", "blocks_sight": true}
	},
	"rows": [
		".....",
		".##..",
		".##.#",
		"....."
	]
}`

func TestParseMap(t *testing.T) {
	m, err := Parse([]byte(roomJSON))
	if err != nil {
		t.Fatalf("Failed to parse map: %v", err)
	}

	if m.Data.Name != "room" {
		t.Errorf("Expected name 'room', got '%s'", m.Data.Name)
	}
	if !m.BlocksSight(1, 1) {
		t.Error("Expected (1, 1) to block sight")
	}
	if m.BlocksSight(0, 0) {
		t.Error("Expected (0, 0) not to block sight")
	}
	if m.BlocksSight(-1, 0) || m.BlocksSight(5, 0) {
		t.Error("Expected out-of-bounds tiles not to block sight")
	}
	if r, err := m.TileAt(4, 2); err != nil || r != '#' {
		t.Errorf("Expected '#' at (4, 2), got %q (%v)", r, err)
	}
	if got := m.Spawn(); got != (sight.Point{X: 5, Y: 5}) {
		t.Errorf("Expected spawn (5, 5), got %v", got)
	}
}

func TestParseMapValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{"bad dimensions", func(s string) string { return strings.Replace(s, `"width": 5`, `"width": 0`, 1) }, "invalid map dimensions"},
		{"bad tile size", func(s string) string { return strings.Replace(s, `"tile_size": 10`, `"tile_size": -1`, 1) }, "invalid tile size"},
		{"row width", func(s string) string { return strings.Replace(s, `".##..",`, `".##.",`, 1) }, "rows width mismatch at row 1"},
		{"row count", func(s string) string { return strings.Replace(s, `"height": 4`, `"height": 5`, 1) }, "rows height mismatch"},
		{"unknown tile", func(s string) string { return strings.Replace(s, `".##..",`, `".##.?",`, 1) }, "unknown tile"},
		{"legend key", func(s string) string {
			return strings.Replace(s, `".": {"name": "floor"}`, `"..": {"name": "floor"}`, 1)
		}, "single character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.mutate(roomJSON)))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.json")
	if err := os.WriteFile(path, []byte(roomJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load map: %v", err)
	}
	if m.Data.Width != 5 {
		t.Errorf("Expected width 5, got %d", m.Data.Width)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestBounds(t *testing.T) {
	m, _ := Parse([]byte(roomJSON))

	bounds := m.Bounds()
	if len(bounds) != 4 {
		t.Fatalf("Expected 4 bound segments, got %d", len(bounds))
	}
	if bounds[1].B != (sight.Point{X: 50, Y: 40}) {
		t.Errorf("Expected bottom-right corner (50, 40), got %v", bounds[1].B)
	}
}

func TestRegions(t *testing.T) {
	m, _ := Parse([]byte(roomJSON))

	regions := Regions(m)
	if len(regions) != 2 {
		t.Fatalf("Expected 2 regions, got %d", len(regions))
	}
	if len(regions[0]) != 4 || len(regions[1]) != 1 {
		t.Errorf("Expected region sizes 4 and 1, got %d and %d", len(regions[0]), len(regions[1]))
	}
}

func TestWallSegmentsMergesBlock(t *testing.T) {
	m, _ := Parse([]byte(roomJSON))

	segments := WallSegments(m)
	if len(segments) != 8 {
		t.Fatalf("Expected 8 wall segments, got %d: %v", len(segments), segments)
	}

	block := []sight.Segment{
		{A: sight.Point{X: 10, Y: 10}, B: sight.Point{X: 30, Y: 10}},
		{A: sight.Point{X: 30, Y: 10}, B: sight.Point{X: 30, Y: 30}},
		{A: sight.Point{X: 30, Y: 30}, B: sight.Point{X: 10, Y: 30}},
		{A: sight.Point{X: 10, Y: 30}, B: sight.Point{X: 10, Y: 10}},
	}
	for i, want := range block {
		if segments[i] != want {
			t.Errorf("Expected segment %d to be %v, got %v", i, want, segments[i])
		}
	}
}

func TestWallSegmentsLShape(t *testing.T) {
	m, err := Parse([]byte(`{
		"width": 2, "height": 2, "tile_size": 10,
		"legend": {".": {}, "#": {"blocks_sight": true}},
		"rows": ["##", "#."]
	}`))
	if err != nil {
		t.Fatal(err)
	}

	segments := WallSegments(m)
	if len(segments) != 6 {
		t.Fatalf("Expected 6 segments for an L shape, got %d: %v", len(segments), segments)
	}

	// The outer top and left sides each span two tiles.
	if segments[0] != (sight.Segment{A: sight.Point{X: 0, Y: 0}, B: sight.Point{X: 20, Y: 0}}) {
		t.Errorf("Expected merged top edge, got %v", segments[0])
	}
	last := segments[len(segments)-1]
	if last != (sight.Segment{A: sight.Point{X: 0, Y: 20}, B: sight.Point{X: 0, Y: 0}}) {
		t.Errorf("Expected merged left edge, got %v", last)
	}
}

func TestWallSegmentsFeedSight(t *testing.T) {
	m, _ := Parse([]byte(roomJSON))

	s := sight.NewPartitioned(WallSegments(m), m.Bounds())
	polygon := s.Polygon(m.Spawn())

	if sight.PointInPolygon(sight.Point{X: 35, Y: 35}, polygon) {
		t.Error("Expected the tile behind the block to be hidden from the spawn point")
	}
	if !sight.PointInPolygon(sight.Point{X: 45, Y: 5}, polygon) {
		t.Error("Expected the open corridor to be visible")
	}
}
