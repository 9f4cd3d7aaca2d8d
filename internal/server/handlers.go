package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"chosenoffset.com/sightline/internal/glyphs"
	"chosenoffset.com/sightline/internal/host"
	"chosenoffset.com/sightline/internal/logging"
)

// maxTextLength bounds the /v1/glyphs request body.
const maxTextLength = 1 << 10

type sightRequest struct {
	Occluders []float64   `json:"occluders,omitempty"`
	Boundary  []float64   `json:"boundary,omitempty"`
	Source    *[2]float64 `json:"source,omitempty"`
	Angle     *float64    `json:"angle,omitempty"`
}

type sightResponse struct {
	Points []float64 `json:"points"`
	Size   int       `json:"size"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Service) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) polygon(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeSightRequest(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Source == nil {
		writeError(w, errors.New("missing source"))
		return
	}

	h, err := s.initialize(req)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.GeneratePolygon(req.Source[0], req.Source[1]); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response(h))
}

func (s *Service) isometric(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeSightRequest(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Angle == nil {
		writeError(w, errors.New("missing angle"))
		return
	}

	h, err := s.initialize(req)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.GenerateIsometric(*req.Angle); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response(h))
}

func (s *Service) outlines(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxTextLength+1))
	if err != nil {
		writeError(w, errors.Wrap(err, "read body"))
		return
	}
	if len(body) > maxTextLength {
		writeError(w, errors.Errorf("text longer than %d bytes", maxTextLength))
		return
	}

	polygons, err := glyphs.Outlines(string(body), s.glyphs)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([][][2]float64, len(polygons))
	for i, poly := range polygons {
		out[i] = make([][2]float64, len(poly))
		for j, p := range poly {
			out[i][j] = [2]float64{p.X, p.Y}
		}
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Service) initialize(req *sightRequest) (*host.Host, error) {
	if err := s.checkLimits(req); err != nil {
		return nil, err
	}

	h := host.New(host.Options{RecoverPanics: true, Logger: logging.Logger()})
	if err := h.Initialize(req.Occluders, req.Boundary); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Service) checkLimits(req *sightRequest) error {
	if s.cfg.MaxSegments <= 0 {
		return nil
	}
	n := (len(req.Occluders) + len(req.Boundary)) / host.ComponentsPerSegment
	if n > s.cfg.MaxSegments {
		return errors.Errorf("too many segments: %d > %d", n, s.cfg.MaxSegments)
	}
	return nil
}

func (s *Service) decodeSightRequest(w http.ResponseWriter, r *http.Request) (*sightRequest, error) {
	body := r.Body
	if s.cfg.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, body, s.cfg.MaxBodyBytes)
	}

	var req sightRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return nil, errors.Wrap(err, "decode request")
	}
	return &req, nil
}

func response(h *host.Host) sightResponse {
	points := h.Polygon()
	if points == nil {
		points = []float64{}
	}
	return sightResponse{Points: points, Size: h.PolygonSize()}
}

// marshalReply encodes v. When v cannot be encoded, as with NaN points from
// degenerate input, it returns an encoded errorResponse along with the error.
func marshalReply(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err == nil {
		return data, nil
	}

	logging.Logger().Warn("encode response", "err", err)
	data, _ = json.Marshal(errorResponse{Error: errors.Wrap(err, "encode response").Error()})
	return data, err
}

// writeJSON marshals before writing the header so an encoding failure
// becomes a 500.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := marshalReply(v)
	if err != nil {
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		logging.Logger().Debug("write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	logging.Logger().Debug("bad request", "err", err)
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}
