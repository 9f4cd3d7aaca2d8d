package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chosenoffset.com/sightline/internal/raster"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected default config to be valid, got %v", err)
	}

	style, err := cfg.Render.Style()
	if err != nil {
		t.Fatalf("Failed to build style: %v", err)
	}
	if style != raster.DefaultStyle() {
		t.Errorf("Expected default render config to match raster.DefaultStyle, got %+v", style)
	}
	if cfg.Server.ReadTimeout() != 10*time.Second {
		t.Errorf("Expected 10s read timeout, got %v", cfg.Server.ReadTimeout())
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Viewer.Width != 960 {
		t.Errorf("Expected default width 960, got %d", cfg.Viewer.Width)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"viewer": {"width": 320}, "server": {"addr": "127.0.0.1:9000"}, "log_level": "debug"}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Viewer.Width != 320 {
		t.Errorf("Expected width 320, got %d", cfg.Viewer.Width)
	}
	if cfg.Viewer.Height != 640 {
		t.Errorf("Expected default height 640, got %d", cfg.Viewer.Height)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Expected addr 127.0.0.1:9000, got %s", cfg.Server.Addr)
	}
	if cfg.Server.WriteTimeoutSeconds != 10 {
		t.Errorf("Expected default write timeout, got %d", cfg.Server.WriteTimeoutSeconds)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.LogLevel)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"malformed", `{`, "failed to parse config"},
		{"viewer size", `{"viewer": {"width": 0}}`, "invalid viewer size"},
		{"colour", `{"render": {"visible": "nope"}}`, "render visible"},
		{"fill", `{"glyphs": {"fill": 2}}`, "glyph fill"},
		{"tolerance", `{"glyphs": {"tolerance": 0}}`, "glyph size and tolerance"},
		{"limits", `{"server": {"max_segments": -1}}`, "server limits"},
		{"body limit", `{"server": {"max_body_bytes": -1}}`, "server limits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}

			_, err := Load(path)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGlyphsOptions(t *testing.T) {
	cfg := GlyphsConfig{Size: 40, Tolerance: 0.1, Fill: 0.5}
	opts := cfg.Options()
	if opts.Size != 40 || opts.Tolerance != 0.1 {
		t.Errorf("Expected size 40 and tolerance 0.1, got %+v", opts)
	}
}
