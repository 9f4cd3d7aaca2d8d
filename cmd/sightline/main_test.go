package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/sightline/internal/core/sight"
)

const boxScene = `{
	"name": "box",
	"width": 100,
	"height": 80,
	"border": true,
	"source": [20, 20],
	"polygons": [[[40, 30], [60, 30], [60, 50], [40, 50]]]
}`

func writeScene(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "scene.json")
	require.NoError(t, os.WriteFile(path, []byte(boxScene), 0o644))
	return dir, path
}

func run(t *testing.T, dir string, args ...string) error {
	t.Helper()
	base := []string{"sightline", "--config", filepath.Join(dir, "missing.json"), "--log-level", "error"}
	return makeapp().Run(append(base, args...))
}

func TestPolygonCommand(t *testing.T) {
	dir, scenePath := writeScene(t)
	out := filepath.Join(dir, "out.json")

	require.NoError(t, run(t, dir, "polygon", "--scene", scenePath, "--out", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var hits []hitJSON
	require.NoError(t, json.Unmarshal(data, &hits))
	// 8 distinct vertices, two probes each.
	assert.Len(t, hits, 16)
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].Key, hits[i].Key)
	}
}

func TestPolygonCommandObserverOverride(t *testing.T) {
	dir, scenePath := writeScene(t)
	out := filepath.Join(dir, "out.txt")

	require.NoError(t, run(t, dir, "polygon", "--scene", scenePath, "--x", "90", "--format", "text", "--out", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 16)
}

func TestIsometricCommand(t *testing.T) {
	dir, scenePath := writeScene(t)
	out := filepath.Join(dir, "out.json")

	require.NoError(t, run(t, dir, "isometric", "--scene", scenePath, "--angle", "0", "--out", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var hits []hitJSON
	require.NoError(t, json.Unmarshal(data, &hits))
	require.NotEmpty(t, hits)
	for _, h := range hits {
		assert.GreaterOrEqual(t, h.Param, 0.0)
	}
}

func TestRenderCommand(t *testing.T) {
	dir, scenePath := writeScene(t)

	for _, iso := range []bool{false, true} {
		out := filepath.Join(dir, "sight.png")
		args := []string{"render", "--scene", scenePath, "--out", out}
		if iso {
			args = append(args, "--isometric", "--angle", "0.3")
		}
		require.NoError(t, run(t, dir, args...))

		f, err := os.Open(out)
		require.NoError(t, err)
		img, err := png.Decode(f)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, 100, img.Bounds().Dx())
		assert.Equal(t, 80, img.Bounds().Dy())
	}
}

func TestGlyphsCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "glyphs.json")

	require.NoError(t, run(t, dir, "glyphs", "--out", out, "O"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var polygons [][][2]float64
	require.NoError(t, json.Unmarshal(data, &polygons))
	assert.Len(t, polygons, 2)
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "map.json")

	require.NoError(t, run(t, dir, "generate", "--out", mapPath, "--seed", "7"))

	scenePath := filepath.Join(dir, "scene.json")
	require.NoError(t, os.WriteFile(scenePath, []byte(`{"border": true, "map": "map.json"}`), 0o644))

	out := filepath.Join(dir, "out.json")
	require.NoError(t, run(t, dir, "polygon", "--scene", scenePath, "--out", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var hits []hitJSON
	require.NoError(t, json.Unmarshal(data, &hits))
	assert.NotEmpty(t, hits)
}

func TestCommandErrors(t *testing.T) {
	dir, scenePath := writeScene(t)

	testCases := []struct {
		Name  string
		Args  []string
		Error string
	}{
		{Name: "Should require a scene", Args: []string{"polygon"}, Error: "--scene is required"},
		{Name: "Should reject unknown formats", Args: []string{"polygon", "--scene", scenePath, "--format", "xml"}, Error: `unknown format "xml"`},
		{Name: "Should require text", Args: []string{"glyphs"}, Error: "TEXT is required"},
		{Name: "Should report missing scenes", Args: []string{"isometric", "--scene", filepath.Join(dir, "nope.json")}, Error: "read scene"},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := run(t, dir, tc.Args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.Error)
		})
	}
}

func TestWriteFormats(t *testing.T) {
	hits := []sight.Hit{{Intersection: sight.Intersection{X: 1, Y: 2, Param: 3}, Key: 0.5}}

	var buf bytes.Buffer
	require.NoError(t, write(&buf, "text", hits))
	assert.Equal(t, "1 2 3\n", buf.String())

	buf.Reset()
	require.NoError(t, write(&buf, "json", hits))
	assert.JSONEq(t, `[{"x": 1, "y": 2, "param": 3, "key": 0.5}]`, buf.String())

	buf.Reset()
	require.NoError(t, write(&buf, "dump", hits))
	assert.Contains(t, buf.String(), "Param: (float64) 3")

	buf.Reset()
	require.NoError(t, write(&buf, "text", [][]sight.Point{{{X: 0, Y: 0}, {X: 1.5, Y: 2}}}))
	assert.Equal(t, "0,0 1.5,2\n", buf.String())
}

type closeRecorder struct {
	bytes.Buffer
	closed bool
	err    error
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return c.err
}

func TestCloseAfter(t *testing.T) {
	testCases := []struct {
		Name     string
		WriteErr error
		CloseErr error
		Error    string
	}{
		{Name: "Should succeed when write and close succeed"},
		{Name: "Should report a close failure", CloseErr: errors.New("disk full"), Error: "close output: disk full"},
		{Name: "Should keep the write error over the close error", WriteErr: errors.New("bad value"), CloseErr: errors.New("disk full"), Error: "bad value"},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			wc := &closeRecorder{err: tc.CloseErr}
			err := closeAfter(wc, func(w io.Writer) error {
				if _, err := io.WriteString(w, "data"); err != nil {
					return err
				}
				return tc.WriteErr
			})

			assert.True(t, wc.closed)
			assert.Equal(t, "data", wc.String())
			if tc.Error == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.Error, err.Error())
		})
	}
}
