// Package config holds the runtime settings shared by the CLI, the server
// and the viewer. Settings are loaded from JSON over built-in defaults.
package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"time"

	"chosenoffset.com/sightline/internal/glyphs"
	"chosenoffset.com/sightline/internal/raster"
)

// Config holds all runtime settings
type Config struct {
	Viewer ViewerConfig `json:"viewer"`
	Render RenderConfig `json:"render"`
	Server ServerConfig `json:"server"`
	Glyphs GlyphsConfig `json:"glyphs"`

	LogLevel string `json:"log_level"` // debug, info, warn, error
}

// ViewerConfig controls the interactive window
type ViewerConfig struct {
	Width      int     `json:"width"`       // Window width in pixels
	Height     int     `json:"height"`      // Window height in pixels
	Speed      float64 `json:"speed"`       // Keyboard movement in pixels per tick
	SweepSpeed float64 `json:"sweep_speed"` // Isometric angle advance in radians per tick
}

// RenderConfig controls image output; colours are "#RRGGBB"
type RenderConfig struct {
	Background   string  `json:"background"`
	Visible      string  `json:"visible"`
	Occluder     string  `json:"occluder"`
	Boundary     string  `json:"boundary"`
	Source       string  `json:"source"`
	LineWidth    float64 `json:"line_width"`
	SourceRadius float64 `json:"source_radius"`
}

// ServerConfig controls the HTTP service
type ServerConfig struct {
	Addr                string `json:"addr"`
	ReadTimeoutSeconds  int    `json:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `json:"write_timeout_seconds"`
	MaxSegments         int    `json:"max_segments"`   // Upper bound per request, 0 = unlimited
	MaxBodyBytes        int64  `json:"max_body_bytes"` // Request body and websocket message limit, 0 = unlimited
}

// GlyphsConfig controls text outlines
type GlyphsConfig struct {
	Size      float64 `json:"size"`      // Font size in pixels per em
	Tolerance float64 `json:"tolerance"` // Curve flattening tolerance
	Fill      float64 `json:"fill"`      // Share of the viewport the text occupies
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	style := raster.DefaultStyle()

	return &Config{
		Viewer: ViewerConfig{
			Width:      960,
			Height:     640,
			Speed:      4,
			SweepSpeed: 0.01,
		},
		Render: RenderConfig{
			Background:   raster.FormatColor(style.Background),
			Visible:      raster.FormatColor(style.Visible),
			Occluder:     raster.FormatColor(style.Occluder),
			Boundary:     raster.FormatColor(style.Boundary),
			Source:       raster.FormatColor(style.Source),
			LineWidth:    style.LineWidth,
			SourceRadius: style.SourceRadius,
		},
		Server: ServerConfig{
			Addr:                ":8080",
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 10,
			MaxSegments:         100000,
			MaxBodyBytes:        8 << 20,
		},
		Glyphs: GlyphsConfig{
			Size:      100,
			Tolerance: 0.5,
			Fill:      0.5,
		},
		LogLevel: "info",
	}
}

// Load reads config from a JSON file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig() // Start with defaults
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		return fmt.Errorf("invalid viewer size: %dx%d", c.Viewer.Width, c.Viewer.Height)
	}
	if c.Viewer.Speed < 0 {
		return fmt.Errorf("viewer speed must not be negative")
	}
	if c.Render.LineWidth < 0 || c.Render.SourceRadius < 0 {
		return fmt.Errorf("render widths must not be negative")
	}
	if _, err := c.Render.Style(); err != nil {
		return err
	}
	if c.Server.ReadTimeoutSeconds < 0 || c.Server.WriteTimeoutSeconds < 0 || c.Server.MaxSegments < 0 || c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("server limits must not be negative")
	}
	if c.Glyphs.Size <= 0 || c.Glyphs.Tolerance <= 0 {
		return fmt.Errorf("glyph size and tolerance must be positive")
	}
	if c.Glyphs.Fill <= 0 || c.Glyphs.Fill > 1 {
		return fmt.Errorf("glyph fill must be in (0, 1], got %g", c.Glyphs.Fill)
	}
	return nil
}

// Style converts the colour strings into a raster style
func (r RenderConfig) Style() (raster.Style, error) {
	style := raster.Style{LineWidth: r.LineWidth, SourceRadius: r.SourceRadius}

	fields := []struct {
		name string
		in   string
		out  *color.NRGBA
	}{
		{"background", r.Background, &style.Background},
		{"visible", r.Visible, &style.Visible},
		{"occluder", r.Occluder, &style.Occluder},
		{"boundary", r.Boundary, &style.Boundary},
		{"source", r.Source, &style.Source},
	}
	for _, f := range fields {
		c, err := raster.ParseColor(f.in)
		if err != nil {
			return raster.Style{}, fmt.Errorf("render %s: %w", f.name, err)
		}
		*f.out = c
	}

	return style, nil
}

// ReadTimeout returns the server read timeout
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// Options converts the settings into outline options
func (g GlyphsConfig) Options() glyphs.Options {
	opts := glyphs.DefaultOptions()
	opts.Size = g.Size
	opts.Tolerance = g.Tolerance
	return opts
}
