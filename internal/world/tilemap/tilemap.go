// Package tilemap loads tile-grid maps and turns sight-blocking tiles into
// occluder segments.
package tilemap

import (
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"chosenoffset.com/sightline/internal/core/sight"
)

// SpawnPoint defines where the observer starts, in world units
type SpawnPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TileDef describes one legend entry
type TileDef struct {
	Name        string `json:"name"`
	BlocksSight bool   `json:"blocks_sight"`
}

// MapData represents the loaded map configuration
type MapData struct {
	Name     string             `json:"name"`
	Width    int                `json:"width"`
	Height   int                `json:"height"`
	TileSize float64            `json:"tile_size"` // World units per tile
	Spawn    SpawnPoint         `json:"spawn"`
	Legend   map[string]TileDef `json:"legend"` // Single-character keys
	Rows     []string           `json:"rows"`   // Height rows of Width glyphs, [y][x]
}

// Map represents a loaded, validated map
type Map struct {
	Data  *MapData
	tiles [][]rune
}

// Load reads a map from a JSON file
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file %s: %w", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("map file %s: %w", path, err)
	}

	return m, nil
}

// Parse decodes and validates map JSON
func Parse(data []byte) (*Map, error) {
	var mapData MapData
	if err := json.Unmarshal(data, &mapData); err != nil {
		return nil, fmt.Errorf("failed to parse map: %w", err)
	}

	return New(&mapData)
}

// New validates data and builds a Map from it
func New(data *MapData) (*Map, error) {
	if err := validateMapData(data); err != nil {
		return nil, fmt.Errorf("invalid map data: %w", err)
	}

	tiles := make([][]rune, len(data.Rows))
	for y, row := range data.Rows {
		tiles[y] = []rune(row)
	}

	return &Map{Data: data, tiles: tiles}, nil
}

// validateMapData checks if the map data is valid
func validateMapData(data *MapData) error {
	if data.Width <= 0 || data.Height <= 0 {
		return fmt.Errorf("invalid map dimensions: %dx%d", data.Width, data.Height)
	}

	if data.TileSize <= 0 {
		return fmt.Errorf("invalid tile size: %g", data.TileSize)
	}

	for key := range data.Legend {
		if utf8.RuneCountInString(key) != 1 {
			return fmt.Errorf("legend key %q must be a single character", key)
		}
	}

	if len(data.Rows) != data.Height {
		return fmt.Errorf("rows height mismatch: expected %d, got %d", data.Height, len(data.Rows))
	}

	for y, row := range data.Rows {
		if n := utf8.RuneCountInString(row); n != data.Width {
			return fmt.Errorf("rows width mismatch at row %d: expected %d, got %d", y, data.Width, n)
		}
		for x, r := range []rune(row) {
			if _, ok := data.Legend[string(r)]; !ok {
				return fmt.Errorf("unknown tile %q at (%d, %d)", r, x, y)
			}
		}
	}

	return nil
}

// TileAt returns the tile glyph at the given grid coordinates
func (m *Map) TileAt(x, y int) (rune, error) {
	if x < 0 || x >= m.Data.Width || y < 0 || y >= m.Data.Height {
		return 0, fmt.Errorf("coordinates out of bounds: (%d, %d)", x, y)
	}
	return m.tiles[y][x], nil
}

// BlocksSight returns whether the tile at the given coordinates blocks line
// of sight. Out-of-bounds tiles do not.
func (m *Map) BlocksSight(x, y int) bool {
	r, err := m.TileAt(x, y)
	if err != nil {
		return false
	}
	return m.Data.Legend[string(r)].BlocksSight
}

// Bounds returns the four edges of the whole map in world units
func (m *Map) Bounds() []sight.Segment {
	return sight.RectangleSegments(0, 0,
		float64(m.Data.Width)*m.Data.TileSize,
		float64(m.Data.Height)*m.Data.TileSize)
}

// Spawn returns the observer start position
func (m *Map) Spawn() sight.Point {
	return sight.Point{X: m.Data.Spawn.X, Y: m.Data.Spawn.Y}
}
