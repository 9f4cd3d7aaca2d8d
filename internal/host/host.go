// Package host exposes the visibility core through flat float64 buffers
// with explicit lengths, for embedders that cannot share Go values
// (scripting layers, HTTP clients, foreign callers).
//
// Order of operations:
//
//  1. New, with optional startup Options
//  2. Initialize with occluder and boundary segment buffers
//  3. GeneratePolygon or GenerateIsometric
//  4. read the result with Polygon (2*PolygonSize scalars)
package host

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"chosenoffset.com/sightline/internal/core/sight"
	"chosenoffset.com/sightline/internal/logging"
)

// ErrNotInitialized is returned when a query runs before Initialize.
var ErrNotInitialized = errors.New("sight not initialized")

// Options is startup configuration of the embedding environment. None of it
// reaches the geometry core.
type Options struct {
	// RecoverPanics turns a panic during a query into an error instead of
	// crashing the embedder.
	RecoverPanics bool

	// Logger receives lifecycle events. Nil means the shared logger.
	Logger *slog.Logger
}

// Host holds one Sight and the most recent query result.
type Host struct {
	opts Options
	log  *slog.Logger

	mu      sync.RWMutex
	sight   *sight.Sight
	polygon []float64
}

// New creates an uninitialized Host.
func New(opts Options) *Host {
	l := opts.Logger
	if l == nil {
		l = logging.Logger()
	}
	return &Host{opts: opts, log: l}
}

// Initialize builds the Sight from occluder and boundary buffers, replacing
// any previous one and clearing the last result.
func (h *Host) Initialize(occluders, boundary []float64) error {
	occ, err := SegmentsFromComponents(occluders)
	if err != nil {
		return errors.Wrap(err, "occluders")
	}
	bnd, err := SegmentsFromComponents(boundary)
	if err != nil {
		return errors.Wrap(err, "boundary")
	}

	s := sight.NewPartitioned(occ, bnd)

	h.mu.Lock()
	h.sight = s
	h.polygon = nil
	h.mu.Unlock()

	h.log.Debug("sight initialized", "occluders", len(occ), "boundary", len(bnd), "vertices", len(s.Vertices()))
	return nil
}

// Sight returns the current Sight, or nil before Initialize.
func (h *Host) Sight() *sight.Sight {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sight
}

// GeneratePolygon runs the point-source query from (x, y).
func (h *Host) GeneratePolygon(x, y float64) error {
	return h.generate("polygon", func(s *sight.Sight) []sight.Point {
		return s.Polygon(sight.Point{X: x, Y: y})
	})
}

// GenerateIsometric runs the directional query for angle (radians).
func (h *Host) GenerateIsometric(angle float64) error {
	return h.generate("isometric", func(s *sight.Sight) []sight.Point {
		return s.Isometric(angle)
	})
}

func (h *Host) generate(kind string, query func(*sight.Sight) []sight.Point) (err error) {
	s := h.Sight()
	if s == nil {
		return ErrNotInitialized
	}

	if h.opts.RecoverPanics {
		defer func() {
			if r := recover(); r != nil {
				h.log.Error("query panicked", "kind", kind, "panic", r)
				err = errors.Wrap(fmt.Errorf("%v", r), kind+" query panicked")
			}
		}()
	}

	components := Components(query(s))

	h.mu.Lock()
	h.polygon = components
	h.mu.Unlock()

	h.log.Debug("query done", "kind", kind, "points", len(components)/ComponentsPerPoint)
	return nil
}

// Polygon returns a copy of the last result as (x, y)* scalars.
func (h *Host) Polygon() []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]float64(nil), h.polygon...)
}

// PolygonSize returns the number of points in the last result.
func (h *Host) PolygonSize() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.polygon) / ComponentsPerPoint
}
