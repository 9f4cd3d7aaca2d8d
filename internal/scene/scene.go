// Package scene loads scene descriptions: the occluders, the boundary, the
// initial observer position and any light sources of a visibility setup.
package scene

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"chosenoffset.com/sightline/internal/core/sight"
	"chosenoffset.com/sightline/internal/glyphs"
	"chosenoffset.com/sightline/internal/lighting"
	"chosenoffset.com/sightline/internal/logging"
	"chosenoffset.com/sightline/internal/raster"
	"chosenoffset.com/sightline/internal/world/tilemap"
)

// LightDef is a light source entry in a scene file.
type LightDef struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Radius    float64 `json:"radius"`
	Intensity float64 `json:"intensity"`
	Color     string  `json:"color"` // "RRGGBB", default lighting.DefaultColor
}

// File is the on-disk scene format.
type File struct {
	Name     string         `json:"name"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Border   bool           `json:"border"`
	Source   *[2]float64    `json:"source,omitempty"`
	Polygons [][][2]float64 `json:"polygons"`
	Segments [][4]float64   `json:"segments"`
	Map      string         `json:"map"`       // tile map path, relative to the scene file
	Text     string         `json:"text"`      // rendered as glyph outlines
	TextFill float64        `json:"text_fill"` // share of the viewport taken by the text
	Lights   []LightDef     `json:"lights"`
}

// Scene is a loaded scene.
type Scene struct {
	Name      string
	Width     float64
	Height    float64
	Source    sight.Point
	Occluders []sight.Segment
	Boundary  []sight.Segment
	Lights    []lighting.LightSource
}

// Options controls how text scenes are outlined.
type Options struct {
	Glyphs   glyphs.Options
	TextFill float64 // used when the scene file sets no text_fill
}

// DefaultOptions returns the outline defaults with half the viewport
// taken by text.
func DefaultOptions() Options {
	return Options{Glyphs: glyphs.DefaultOptions(), TextFill: 0.5}
}

// Load reads a scene file. Relative map paths resolve against the scene
// file's directory.
func Load(path string, opts Options) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read scene %s", path)
	}

	s, err := Parse(data, filepath.Dir(path), opts)
	if err != nil {
		return nil, errors.Wrapf(err, "scene %s", path)
	}

	return s, nil
}

// Parse decodes a scene. dir is used to resolve a relative map path.
func Parse(data []byte, dir string, opts Options) (*Scene, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse scene")
	}
	return Build(&f, dir, opts)
}

// Build assembles a Scene from its file form.
func Build(f *File, dir string, opts Options) (*Scene, error) {
	if f.Width < 0 || f.Height < 0 {
		return nil, errors.Errorf("invalid scene dimensions: %gx%g", f.Width, f.Height)
	}

	s := &Scene{Name: f.Name, Width: f.Width, Height: f.Height}

	for i, poly := range f.Polygons {
		if len(poly) < 3 {
			return nil, errors.Errorf("polygon %d has %d points, need at least 3", i, len(poly))
		}
		points := make([]sight.Point, len(poly))
		for j, p := range poly {
			points[j] = sight.Point{X: p[0], Y: p[1]}
		}
		s.Occluders = append(s.Occluders, sight.PolygonSegments(points)...)
	}

	for _, seg := range f.Segments {
		s.Occluders = append(s.Occluders, sight.Segment{
			A: sight.Point{X: seg[0], Y: seg[1]},
			B: sight.Point{X: seg[2], Y: seg[3]},
		})
	}

	var m *tilemap.Map
	if f.Map != "" {
		path := f.Map
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		var err error
		m, err = tilemap.Load(path)
		if err != nil {
			return nil, errors.Wrap(err, "load map")
		}
		s.Occluders = append(s.Occluders, tilemap.WallSegments(m)...)
		if s.Width == 0 && s.Height == 0 {
			s.Width = float64(m.Data.Width) * m.Data.TileSize
			s.Height = float64(m.Data.Height) * m.Data.TileSize
		}
		if f.Source == nil {
			s.Source = m.Spawn()
		}
	}

	if f.Text != "" {
		if s.Width <= 0 || s.Height <= 0 {
			return nil, errors.New("text scenes need a width and height")
		}
		fill := f.TextFill
		if fill <= 0 {
			fill = opts.TextFill
		}
		if fill <= 0 {
			fill = 0.5
		}
		polygons, err := glyphs.Outlines(f.Text, opts.Glyphs)
		if err != nil {
			return nil, errors.Wrap(err, "text outlines")
		}
		s.Occluders = append(s.Occluders, glyphs.Segments(glyphs.Fit(polygons, s.Width, s.Height, fill))...)
	}

	if f.Border {
		switch {
		case s.Width <= 0 || s.Height <= 0:
			return nil, errors.New("a border needs a width and height")
		case m != nil && f.Width == 0 && f.Height == 0:
			s.Boundary = m.Bounds()
		default:
			s.Boundary = sight.RectangleSegments(0, 0, s.Width, s.Height)
		}
	}

	if f.Source != nil {
		s.Source = sight.Point{X: f.Source[0], Y: f.Source[1]}
	} else if f.Map == "" {
		s.Source = sight.Point{X: s.Width / 2, Y: s.Height / 2}
	}

	for _, l := range f.Lights {
		col := lighting.DefaultColor
		if l.Color != "" {
			c, err := raster.ParseColor(l.Color)
			if err != nil {
				return nil, errors.Wrapf(err, "light %q", l.ID)
			}
			col = c
		}
		s.Lights = append(s.Lights, lighting.LightSource{
			ID:        l.ID,
			X:         l.X,
			Y:         l.Y,
			Radius:    l.Radius,
			Intensity: l.Intensity,
			Color:     col,
		})
	}

	logging.Logger().Debug("scene built",
		"name", s.Name, "occluders", len(s.Occluders), "boundary", len(s.Boundary), "lights", len(s.Lights))

	return s, nil
}

// Sight builds the visibility structure for the scene.
func (s *Scene) Sight() *sight.Sight {
	return sight.NewPartitioned(s.Occluders, s.Boundary)
}
