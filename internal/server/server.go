// Package server exposes the matcher over HTTP.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/maax3v3/swatchmatch/internal/config"
	"github.com/maax3v3/swatchmatch/internal/match"
)

// Server holds the active library. PUT /v1/library replaces it without
// blocking requests already matching against the previous one.
type Server struct {
	cfg config.Config
	lib atomic.Pointer[match.Library]
}

// New creates a Server serving lib.
func New(cfg config.Config, lib *match.Library) *Server {
	s := &Server{cfg: cfg}
	if lib == nil {
		lib = match.NewLibrary(nil)
	}
	s.lib.Store(lib)
	return s
}

// Library returns the library currently served.
func (s *Server) Library() *match.Library {
	return s.lib.Load()
}

// SetLibrary atomically replaces the served library.
func (s *Server) SetLibrary(lib *match.Library) {
	s.lib.Store(lib)
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.Healthz)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/library", s.GetLibrary)
		r.Put("/library", s.PutLibrary)
		r.Get("/match", s.GetMatch)
		r.Post("/match", s.PostMatch)
		r.Get("/match.csv", s.GetMatchCSV)
	})
	return r
}

// ListenAndServe serves on cfg.Listen until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", s.cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
		return err
	}
	return <-errc
}

// requestID seeds chi's request id with a UUID unless the client sent one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(middleware.RequestIDHeader) == "" {
			r.Header.Set(middleware.RequestIDHeader, uuid.NewString())
		}
		w.Header().Set(middleware.RequestIDHeader, r.Header.Get(middleware.RequestIDHeader))
		next.ServeHTTP(w, r)
	})
}
