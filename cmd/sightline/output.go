package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"chosenoffset.com/sightline/internal/core/sight"
)

type hitJSON struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Param float64 `json:"param"`
	Key   float64 `json:"key"`
}

// output writes v to --out (stdout when empty) in the --format encoding.
func output(c *cli.Context, v interface{}) error {
	format := c.String("format")
	path := c.String("out")
	if path == "" {
		return write(os.Stdout, format, v)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	return closeAfter(f, func(w io.Writer) error {
		return write(w, format, v)
	})
}

// closeAfter runs fn against wc and closes it. A close failure is reported
// when fn itself succeeded.
func closeAfter(wc io.WriteCloser, fn func(io.Writer) error) (err error) {
	defer func() {
		if cerr := wc.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close output")
		}
	}()
	return fn(wc)
}

func write(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(jsonValue(v)); err != nil {
			return errors.Wrap(err, "encode json")
		}
		return nil
	case "text":
		_, err := io.WriteString(w, text(v))
		return errors.Wrap(err, "write text")
	case "dump":
		spew.Fdump(w, v)
		return nil
	default:
		return errors.Errorf("unknown format %q", format)
	}
}

func jsonValue(v interface{}) interface{} {
	switch t := v.(type) {
	case []sight.Hit:
		out := make([]hitJSON, len(t))
		for i, h := range t {
			out[i] = hitJSON{X: h.X, Y: h.Y, Param: h.Param, Key: h.Key}
		}
		return out
	case [][]sight.Point:
		out := make([][][2]float64, len(t))
		for i, poly := range t {
			out[i] = make([][2]float64, len(poly))
			for j, p := range poly {
				out[i][j] = [2]float64{p.X, p.Y}
			}
		}
		return out
	}
	return v
}

func text(v interface{}) string {
	var b strings.Builder
	switch t := v.(type) {
	case []sight.Hit:
		for _, h := range t {
			fmt.Fprintf(&b, "%g %g %g\n", h.X, h.Y, h.Param)
		}
	case [][]sight.Point:
		for _, poly := range t {
			parts := make([]string, len(poly))
			for i, p := range poly {
				parts[i] = fmt.Sprintf("%g,%g", p.X, p.Y)
			}
			b.WriteString(strings.Join(parts, " "))
			b.WriteByte('\n')
		}
	default:
		fmt.Fprintln(&b, v)
	}
	return b.String()
}
