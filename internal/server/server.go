// Package server exposes visibility queries over HTTP and websockets.
//
// Request and response bodies carry flat component arrays, the same layout
// the host package uses: segments as (ax, ay, bx, by)* and polygons as
// (x, y)*.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"chosenoffset.com/sightline/internal/config"
	"chosenoffset.com/sightline/internal/glyphs"
	"chosenoffset.com/sightline/internal/logging"
)

// Service serves visibility queries.
type Service struct {
	cfg    config.ServerConfig
	glyphs glyphs.Options
	router *mux.Router
	access io.Writer
}

// New builds a service. Access logs in combined format go to access; nil
// disables them.
func New(cfg config.ServerConfig, glyphCfg config.GlyphsConfig, access io.Writer) *Service {
	s := &Service{
		cfg:    cfg,
		glyphs: glyphCfg.Options(),
		router: mux.NewRouter(),
		access: access,
	}

	s.router.HandleFunc("/healthz", s.health).Methods("GET")
	s.router.HandleFunc("/v1/polygon", s.polygon).Methods("POST")
	s.router.HandleFunc("/v1/isometric", s.isometric).Methods("POST")
	s.router.HandleFunc("/v1/glyphs", s.outlines).Methods("POST")
	s.router.HandleFunc("/v1/stream", s.stream).Methods("GET")

	return s
}

// Handler returns the routed handler wrapped with logging and panic
// recovery.
func (s *Service) Handler() http.Handler {
	var h http.Handler = s.router
	if s.access != nil {
		h = handlers.CombinedLoggingHandler(s.access, h)
	}
	return handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}))(h)
}

// ListenAndServe serves until ctx is cancelled.
func (s *Service) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout(),
		WriteTimeout: s.cfg.WriteTimeout(),
	}

	errc := make(chan error, 1)
	go func() {
		logging.Logger().Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
		logging.Logger().Info("shutting down")
		if err := srv.Shutdown(context.Background()); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	}
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	logging.Logger().Error("handler panic", "panic", fmt.Sprint(v...))
}
