package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"chosenoffset.com/sightline/internal/config"
	"chosenoffset.com/sightline/internal/logging"
	ebitenrender "chosenoffset.com/sightline/internal/render/ebiten"
	"chosenoffset.com/sightline/internal/scene"
	"chosenoffset.com/sightline/internal/viewer"
)

func main() {
	scenePath := flag.String("scene", "", "Scene file; a bordered text scene when empty")
	text := flag.String("text", "BEES", "Text used when no scene is given")
	configPath := flag.String("config", "sightline.json", "Settings file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logging.SetLogger(logging.New(cfg.LogLevel, os.Stderr))

	style, err := cfg.Render.Style()
	if err != nil {
		log.Fatalf("Invalid render config: %v", err)
	}

	s, err := loadScene(*scenePath, *text, cfg)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}
	if s.Width > 0 && s.Height > 0 {
		cfg.Viewer.Width, cfg.Viewer.Height = int(s.Width), int(s.Height)
	}

	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	game := viewer.New(s, cfg.Viewer, style, renderer, inputMgr)

	engine.SetWindowSize(cfg.Viewer.Width, cfg.Viewer.Height)
	engine.SetWindowTitle("sightline - " + s.Name)
	engine.SetWindowResizable(false)

	if err := engine.RunGame(game); err != nil && !errors.Is(err, viewer.ErrQuit) {
		log.Fatal(err)
	}
}

// loadScene reads the scene file, or builds the default demo: the text
// centred in a bordered window.
func loadScene(path, text string, cfg *config.Config) (*scene.Scene, error) {
	opts := scene.Options{Glyphs: cfg.Glyphs.Options(), TextFill: cfg.Glyphs.Fill}
	if path != "" {
		return scene.Load(path, opts)
	}

	center := [2]float64{float64(cfg.Viewer.Width) / 2, float64(cfg.Viewer.Height) / 5}
	return scene.Build(&scene.File{
		Name:   text,
		Width:  float64(cfg.Viewer.Width),
		Height: float64(cfg.Viewer.Height),
		Border: true,
		Source: &center,
		Text:   text,
	}, "", opts)
}
