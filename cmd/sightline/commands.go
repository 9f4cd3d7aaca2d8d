package main

import (
	"context"
	"encoding/json"
	"image"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"chosenoffset.com/sightline/internal/config"
	"chosenoffset.com/sightline/internal/core/sight"
	"chosenoffset.com/sightline/internal/glyphs"
	"chosenoffset.com/sightline/internal/logging"
	"chosenoffset.com/sightline/internal/raster"
	"chosenoffset.com/sightline/internal/scene"
	"chosenoffset.com/sightline/internal/server"
	"chosenoffset.com/sightline/internal/world/tilemap"
)

// setup loads the settings and installs the logger.
func setup(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if l := c.GlobalString("log-level"); l != "" {
		level = l
	}
	logging.SetLogger(logging.New(level, os.Stderr))

	return cfg, nil
}

func loadScene(c *cli.Context, cfg *config.Config) (*scene.Scene, error) {
	path := c.String("scene")
	if path == "" {
		return nil, errors.New("--scene is required")
	}
	return scene.Load(path, scene.Options{Glyphs: cfg.Glyphs.Options(), TextFill: cfg.Glyphs.Fill})
}

// observer returns --x/--y, falling back to the scene source per axis.
func observer(c *cli.Context, s *scene.Scene) sight.Point {
	p := s.Source
	if c.IsSet("x") {
		p.X = c.Float64("x")
	}
	if c.IsSet("y") {
		p.Y = c.Float64("y")
	}
	return p
}

func polygonAction(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	s, err := loadScene(c, cfg)
	if err != nil {
		return err
	}

	source := observer(c, s)
	hits := s.Sight().Hits(source)
	logging.Logger().Info("polygon", "scene", s.Name, "x", source.X, "y", source.Y, "points", len(hits))

	return output(c, hits)
}

func isometricAction(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	s, err := loadScene(c, cfg)
	if err != nil {
		return err
	}

	angle := c.Float64("angle")
	hits := s.Sight().IsometricHits(angle)
	logging.Logger().Info("isometric", "scene", s.Name, "angle", angle, "points", len(hits))

	return output(c, hits)
}

func renderAction(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	s, err := loadScene(c, cfg)
	if err != nil {
		return err
	}
	style, err := cfg.Render.Style()
	if err != nil {
		return err
	}

	width, height := c.Int("width"), c.Int("height")
	if width == 0 {
		width = int(s.Width)
	}
	if height == 0 {
		height = int(s.Height)
	}
	if width <= 0 || height <= 0 {
		return errors.Errorf("invalid image size %dx%d; set --width and --height", width, height)
	}

	sg := s.Sight()
	var img *image.NRGBA
	if c.Bool("isometric") {
		angle := c.Float64("angle")
		img = raster.RenderSweep(width, height, sg, sg.Isometric(angle), angle, style)
	} else {
		source := observer(c, s)
		img = raster.RenderScene(width, height, sg, sg.Polygon(source), source, style)
	}

	f, err := os.Create(c.String("out"))
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	if err := closeAfter(f, func(w io.Writer) error { return raster.EncodePNG(w, img) }); err != nil {
		return err
	}
	logging.Logger().Info("rendered", "out", c.String("out"), "width", width, "height", height)
	return nil
}

func glyphsAction(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}

	text := c.Args().First()
	if text == "" {
		return errors.New("TEXT is required")
	}

	opts := cfg.Glyphs.Options()
	if c.IsSet("size") {
		opts.Size = c.Float64("size")
	}
	if c.IsSet("tolerance") {
		opts.Tolerance = c.Float64("tolerance")
	}

	polygons, err := glyphs.Outlines(text, opts)
	if err != nil {
		return err
	}

	return output(c, polygons)
}

func generateAction(c *cli.Context) error {
	if _, err := setup(c); err != nil {
		return err
	}

	opts := tilemap.DefaultGenerateOptions()
	opts.Width = c.Int("width")
	opts.Height = c.Int("height")
	opts.Rooms = c.Int("rooms")
	opts.TileSize = c.Float64("tile-size")
	opts.Seed = c.Int64("seed")

	m, err := tilemap.Generate(opts)
	if err != nil {
		return errors.Wrap(err, "generate map")
	}

	data, err := json.MarshalIndent(m.Data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode map")
	}
	if err := os.WriteFile(c.String("out"), data, 0o644); err != nil {
		return errors.Wrap(err, "write map")
	}

	logging.Logger().Info("generated", "out", c.String("out"), "walls", len(tilemap.WallSegments(m)))
	return nil
}

func serveAction(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	var svc *server.Service
	if c.Bool("access-log") {
		svc = server.New(cfg.Server, cfg.Glyphs, os.Stdout)
	} else {
		svc = server.New(cfg.Server, cfg.Glyphs, nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return svc.ListenAndServe(ctx)
}
