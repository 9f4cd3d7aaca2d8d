package main

import (
	"fmt"
	"os"

	"github.com/ttacon/chalk"
	"github.com/urfave/cli"
)

func main() {
	app := makeapp()
	if err := app.Run(os.Args); err != nil {
		failWith(err)
	}
}

func failWith(err error) {
	fmt.Fprint(os.Stderr, chalk.Red)
	fmt.Fprintf(os.Stderr, "error: %v", err)
	fmt.Fprintln(os.Stderr, chalk.Reset)
	os.Exit(1)
}

func makeapp() *cli.App {
	app := cli.NewApp()
	app.Name = "sightline"
	app.Usage = "2D visibility polygons from occluding segments"
	app.Description = "Computes what a point observer, or a set of parallel rays, can see in a scene of line segments"

	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config", Value: "sightline.json", Usage: "Settings file; missing means defaults"},
		cli.StringFlag{Name: "log-level", Value: "", Usage: "Overrides the configured log level (debug, info, warn, error)"},
	}

	sceneFlag := cli.StringFlag{Name: "scene", Value: "", Usage: "Scene file; required"}
	outFlag := cli.StringFlag{Name: "out", Value: "", Usage: "Output file; stdout when empty"}
	formatFlag := cli.StringFlag{Name: "format", Value: "json", Usage: "Output format: json, text or dump"}

	app.Commands = []cli.Command{
		{
			Name:    "polygon",
			Aliases: []string{"p"},
			Usage:   "Visibility polygon seen from a point",
			Flags: []cli.Flag{
				sceneFlag, outFlag, formatFlag,
				cli.Float64Flag{Name: "x", Usage: "Observer x; scene source when unset"},
				cli.Float64Flag{Name: "y", Usage: "Observer y; scene source when unset"},
			},
			Action: polygonAction,
		},
		{
			Name:    "isometric",
			Aliases: []string{"i"},
			Usage:   "Boundary seen by parallel rays",
			Flags: []cli.Flag{
				sceneFlag, outFlag, formatFlag,
				cli.Float64Flag{Name: "angle", Value: 0, Usage: "Ray direction in radians"},
			},
			Action: isometricAction,
		},
		{
			Name:    "render",
			Aliases: []string{"r"},
			Usage:   "Render a scene and its visibility to PNG",
			Flags: []cli.Flag{
				sceneFlag,
				cli.StringFlag{Name: "out", Value: "sight.png", Usage: "PNG file"},
				cli.Float64Flag{Name: "x", Usage: "Observer x; scene source when unset"},
				cli.Float64Flag{Name: "y", Usage: "Observer y; scene source when unset"},
				cli.BoolFlag{Name: "isometric", Usage: "Render the parallel ray query instead"},
				cli.Float64Flag{Name: "angle", Value: 0, Usage: "Ray direction in radians, with --isometric"},
				cli.IntFlag{Name: "width", Usage: "Image width; scene width when unset"},
				cli.IntFlag{Name: "height", Usage: "Image height; scene height when unset"},
			},
			Action: renderAction,
		},
		{
			Name:      "glyphs",
			Aliases:   []string{"g"},
			Usage:     "Text outlines as polygons",
			ArgsUsage: "TEXT",
			Flags: []cli.Flag{
				outFlag, formatFlag,
				cli.Float64Flag{Name: "size", Usage: "Pixels per em; configured size when unset"},
				cli.Float64Flag{Name: "tolerance", Usage: "Curve flattening tolerance; configured value when unset"},
			},
			Action: glyphsAction,
		},
		{
			Name:  "generate",
			Usage: "Generate a random tile map of rooms and corridors",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "out", Value: "map.json", Usage: "Map file"},
				cli.IntFlag{Name: "width", Value: 40, Usage: "Width in tiles"},
				cli.IntFlag{Name: "height", Value: 30, Usage: "Height in tiles"},
				cli.IntFlag{Name: "rooms", Value: 8, Usage: "Rooms to attempt"},
				cli.Float64Flag{Name: "tile-size", Value: 16, Usage: "World units per tile"},
				cli.Int64Flag{Name: "seed", Value: 1, Usage: "Random seed"},
			},
			Action: generateAction,
		},
		{
			Name:  "serve",
			Usage: "Serve visibility queries over HTTP and websockets",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "addr", Value: "", Usage: "Listen address; configured address when empty"},
				cli.BoolFlag{Name: "access-log", Usage: "Write combined access logs to stdout"},
			},
			Action: serveAction,
		},
	}

	return app
}
