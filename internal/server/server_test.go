package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/sightline/internal/config"
)

// room is the border of a 10x10 square as (ax, ay, bx, by)* components.
var room = []float64{
	0, 0, 10, 0,
	10, 0, 10, 10,
	10, 10, 0, 10,
	0, 10, 0, 0,
}

func newService(t *testing.T) *Service {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Server.MaxSegments = 8
	return New(cfg.Server, cfg.Glyphs, nil)
}

func post(t *testing.T, h http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest("POST", path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newService(t).Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPolygon(t *testing.T) {
	rec := post(t, newService(t).Handler(), "/v1/polygon", map[string]interface{}{
		"boundary": room,
		"source":   []float64{5, 5},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp sightResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 8, resp.Size)
	assert.Len(t, resp.Points, 16)
	for _, v := range resp.Points {
		assert.InDelta(t, 5, v, 5.0001)
	}
}

func TestIsometric(t *testing.T) {
	rec := post(t, newService(t).Handler(), "/v1/isometric", map[string]interface{}{
		"occluders": []float64{0, 0, 4, 0, 4, 0, 4, 2, 4, 2, 0, 2, 0, 2, 0, 0},
		"angle":     0,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp sightResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 4, resp.Size)
	assert.Equal(t, 4.0, resp.Points[0])
	assert.InDelta(t, 2-1e-4, resp.Points[1], 1e-12)
}

func TestEmptyScene(t *testing.T) {
	rec := post(t, newService(t).Handler(), "/v1/polygon", `{"source": [1, 1]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"points":[],"size":0}`, rec.Body.String())
}

func TestRequestErrors(t *testing.T) {
	testCases := []struct {
		Name  string
		Path  string
		Body  string
		Error string
	}{
		{Name: "Should reject malformed JSON", Path: "/v1/polygon", Body: `{`, Error: "decode request"},
		{Name: "Should require a source", Path: "/v1/polygon", Body: `{"boundary": [0, 0, 1, 1]}`, Error: "missing source"},
		{Name: "Should require an angle", Path: "/v1/isometric", Body: `{"boundary": [0, 0, 1, 1]}`, Error: "missing angle"},
		{Name: "Should reject partial segments", Path: "/v1/polygon", Body: `{"occluders": [0, 0, 1], "source": [0, 0]}`, Error: "occluders: got 3 components"},
		{Name: "Should enforce the segment limit", Path: "/v1/isometric", Body: `{"occluders": [` + strings.Repeat("0, 0, 1, 1, ", 8) + `0, 0, 1, 1], "angle": 0}`, Error: "too many segments: 9 > 8"},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			rec := post(t, newService(t).Handler(), tc.Path, tc.Body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp.Error, tc.Error)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newService(t).Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/v1/polygon", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGlyphs(t *testing.T) {
	h := newService(t).Handler()

	rec := post(t, h, "/v1/glyphs", "O")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var polygons [][][2]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &polygons))
	assert.Len(t, polygons, 2, "O has an outer and an inner contour")

	rec = post(t, h, "/v1/glyphs", strings.Repeat("A", maxTextLength+1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStream(t *testing.T) {
	srv := httptest.NewServer(newService(t).Handler())
	defer srv.Close()

	c, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/v1/stream", nil)
	require.NoError(t, err)
	defer c.Close()

	// Query before initialization.
	require.NoError(t, c.WriteJSON(map[string]interface{}{"source": []float64{5, 5}}))
	var errResp errorResponse
	require.NoError(t, c.ReadJSON(&errResp))
	assert.Equal(t, "sight not initialized", errResp.Error)

	// Initialize and query in one message.
	require.NoError(t, c.WriteJSON(map[string]interface{}{"boundary": room, "source": []float64{5, 5}}))
	var resp sightResponse
	require.NoError(t, c.ReadJSON(&resp))
	assert.Equal(t, 8, resp.Size)

	// Later queries reuse the sight.
	require.NoError(t, c.WriteJSON(map[string]interface{}{"angle": 0.5}))
	resp = sightResponse{}
	require.NoError(t, c.ReadJSON(&resp))
	assert.Greater(t, resp.Size, 0)
	assert.Len(t, resp.Points, 2*resp.Size)
}

// degenerate holds a segment colinear with and opposite to the directional
// probe leaving (0, 1e-4), so the angle 0 sweep yields a NaN point.
var degenerate = []float64{
	0, -1, 0, 0,
	10, 1e-4, 5, 1e-4,
}

func dialStream(t *testing.T, h http.Handler) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/v1/stream", nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestUnencodableResultIsServerError(t *testing.T) {
	rec := post(t, newService(t).Handler(), "/v1/isometric", map[string]interface{}{
		"occluders": degenerate,
		"angle":     0,
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "encode response")
	assert.Contains(t, resp.Error, "NaN")
}

func TestStreamSurvivesUnencodableResult(t *testing.T) {
	c := dialStream(t, newService(t).Handler())

	require.NoError(t, c.WriteJSON(map[string]interface{}{"occluders": degenerate, "angle": 0}))
	var errResp errorResponse
	require.NoError(t, c.ReadJSON(&errResp))
	assert.Contains(t, errResp.Error, "encode response")

	// The session is still usable.
	require.NoError(t, c.WriteJSON(map[string]interface{}{"boundary": room, "source": []float64{5, 5}}))
	var resp sightResponse
	require.NoError(t, c.ReadJSON(&resp))
	assert.Equal(t, 8, resp.Size)
}

func TestBodyLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxBodyBytes = 64
	h := New(cfg.Server, cfg.Glyphs, nil).Handler()

	rec := post(t, h, "/v1/polygon", map[string]interface{}{
		"boundary": room,
		"source":   []float64{5, 5},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "request body too large")

	rec = post(t, h, "/v1/polygon", `{"source": [1, 1]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStreamReadLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxBodyBytes = 64
	c := dialStream(t, New(cfg.Server, cfg.Glyphs, nil).Handler())

	require.NoError(t, c.WriteJSON(map[string]interface{}{"boundary": room, "source": []float64{5, 5}}))
	_, _, err := c.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseMessageTooBig), "got %v", err)
}
