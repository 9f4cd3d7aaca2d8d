package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"chosenoffset.com/sightline/internal/host"
	"chosenoffset.com/sightline/internal/logging"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// stream keeps one host per connection. A message carrying occluders or a
// boundary (re)initializes it; a message with a source or an angle queries
// it. Every query is answered with a sightResponse or an errorResponse.
// Messages over MaxBodyBytes close the connection.
func (s *Service) stream(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger().Warn("upgrade", "err", err)
		return
	}
	defer c.Close()
	if s.cfg.MaxBodyBytes > 0 {
		c.SetReadLimit(s.cfg.MaxBodyBytes)
	}

	log := logging.Logger().With("remote", r.RemoteAddr)
	log.Debug("stream opened")

	h := host.New(host.Options{RecoverPanics: true, Logger: log})

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("stream read", "err", err)
			}
			return
		}

		reply, err := s.handleStreamMessage(h, data)
		if err != nil {
			reply = errorResponse{Error: err.Error()}
		}
		if reply == nil {
			continue
		}

		// An unencodable reply is answered with an error and the session
		// stays open.
		data, _ = marshalReply(reply)
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Debug("stream write", "err", err)
			return
		}
	}
}

func (s *Service) handleStreamMessage(h *host.Host, data []byte) (interface{}, error) {
	var req sightRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.Wrap(err, "decode message")
	}

	if req.Occluders != nil || req.Boundary != nil {
		if err := s.checkLimits(&req); err != nil {
			return nil, err
		}
		if err := h.Initialize(req.Occluders, req.Boundary); err != nil {
			return nil, err
		}
	}

	switch {
	case req.Source != nil:
		if err := h.GeneratePolygon(req.Source[0], req.Source[1]); err != nil {
			return nil, err
		}
	case req.Angle != nil:
		if err := h.GenerateIsometric(*req.Angle); err != nil {
			return nil, err
		}
	default:
		// Initialization only.
		return nil, nil
	}

	return response(h), nil
}
