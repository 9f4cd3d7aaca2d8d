package tilemap

import (
	"fmt"
	"math/rand"
)

const (
	wallGlyph  = '#'
	floorGlyph = '.'
)

// GenerateOptions controls procedural map generation
type GenerateOptions struct {
	Width    int     `json:"width"`     // Map width in tiles
	Height   int     `json:"height"`    // Map height in tiles
	Rooms    int     `json:"rooms"`     // Rooms to attempt
	MinRoom  int     `json:"min_room"`  // Smallest room side in tiles
	MaxRoom  int     `json:"max_room"`  // Largest room side in tiles
	TileSize float64 `json:"tile_size"` // World units per tile
	Seed     int64   `json:"seed"`
}

// DefaultGenerateOptions returns a medium sized dungeon
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Width:    40,
		Height:   30,
		Rooms:    8,
		MinRoom:  4,
		MaxRoom:  9,
		TileSize: 16,
		Seed:     1,
	}
}

type rect struct {
	x, y, w, h int
}

func (r rect) center() (int, int) {
	return r.x + r.w/2, r.y + r.h/2
}

// overlaps reports whether r and o touch, counting a one tile wall margin.
func (r rect) overlaps(o rect) bool {
	return r.x-1 < o.x+o.w && o.x-1 < r.x+r.w && r.y-1 < o.y+o.h && o.y-1 < r.y+r.h
}

// Generate builds a walled map of rectangular rooms joined by L-shaped
// corridors, each room connected to the one placed before it. The same
// options always produce the same map.
func Generate(opts GenerateOptions) (*Map, error) {
	if opts.MinRoom < 1 || opts.MaxRoom < opts.MinRoom {
		return nil, fmt.Errorf("invalid room size range: %d..%d", opts.MinRoom, opts.MaxRoom)
	}
	if opts.Width < opts.MaxRoom+2 || opts.Height < opts.MaxRoom+2 {
		return nil, fmt.Errorf("map %dx%d too small for rooms up to %d", opts.Width, opts.Height, opts.MaxRoom)
	}
	if opts.Rooms < 1 {
		return nil, fmt.Errorf("need at least one room, got %d", opts.Rooms)
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	grid := make([][]rune, opts.Height)
	for y := range grid {
		grid[y] = make([]rune, opts.Width)
		for x := range grid[y] {
			grid[y][x] = wallGlyph
		}
	}

	var rooms []rect
	for attempt := 0; attempt < opts.Rooms*20 && len(rooms) < opts.Rooms; attempt++ {
		w := opts.MinRoom + rng.Intn(opts.MaxRoom-opts.MinRoom+1)
		h := opts.MinRoom + rng.Intn(opts.MaxRoom-opts.MinRoom+1)
		r := rect{
			x: 1 + rng.Intn(opts.Width-w-1),
			y: 1 + rng.Intn(opts.Height-h-1),
			w: w,
			h: h,
		}

		free := true
		for _, other := range rooms {
			if r.overlaps(other) {
				free = false
				break
			}
		}
		if !free {
			continue
		}

		carveRoom(grid, r)
		if len(rooms) > 0 {
			px, py := rooms[len(rooms)-1].center()
			cx, cy := r.center()
			carveCorridor(grid, px, py, cx, cy, rng.Intn(2) == 0)
		}
		rooms = append(rooms, r)
	}

	sx, sy := rooms[0].center()
	data := &MapData{
		Name:     fmt.Sprintf("generated-%d", opts.Seed),
		Width:    opts.Width,
		Height:   opts.Height,
		TileSize: opts.TileSize,
		Spawn: SpawnPoint{
			X: (float64(sx) + 0.5) * opts.TileSize,
			Y: (float64(sy) + 0.5) * opts.TileSize,
		},
		Legend: map[string]TileDef{
			string(floorGlyph): {Name: "floor"},
			string(wallGlyph):  {Name: "wall", BlocksSight: true},
		},
		Rows: make([]string, opts.Height),
	}
	for y, row := range grid {
		data.Rows[y] = string(row)
	}

	return New(data)
}

func carveRoom(grid [][]rune, r rect) {
	for y := r.y; y < r.y+r.h; y++ {
		for x := r.x; x < r.x+r.w; x++ {
			grid[y][x] = floorGlyph
		}
	}
}

// carveCorridor digs from (x1, y1) to (x2, y2), horizontally first when
// horizontalFirst is set.
func carveCorridor(grid [][]rune, x1, y1, x2, y2 int, horizontalFirst bool) {
	if horizontalFirst {
		carveLine(grid, x1, y1, x2, y1)
		carveLine(grid, x2, y1, x2, y2)
	} else {
		carveLine(grid, x1, y1, x1, y2)
		carveLine(grid, x1, y2, x2, y2)
	}
}

func carveLine(grid [][]rune, x1, y1, x2, y2 int) {
	dx, dy := sign(x2-x1), sign(y2-y1)
	for x, y := x1, y1; ; x, y = x+dx, y+dy {
		grid[y][x] = floorGlyph
		if x == x2 && y == y2 {
			return
		}
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
