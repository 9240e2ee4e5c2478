// Package httpapi exposes the assistant as a JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/bucketqa/internal/core/ports/driving"
	"github.com/custodia-labs/bucketqa/internal/logger"
)

// ErrMissingAssistantService is returned when the assistant service is not provided.
var ErrMissingAssistantService = errors.New("httpapi: assistant service is required")

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Server serves the JSON API.
type Server struct {
	assistant driving.AssistantService
	bucket    string
	router    chi.Router
}

// NewServer creates a server. bucket is loaded by POST /api/load when the
// request names none.
func NewServer(assistant driving.AssistantService, bucket string) (*Server, error) {
	if assistant == nil {
		return nil, ErrMissingAssistantService
	}

	s := &Server{
		assistant: assistant,
		bucket:    bucket,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/load", s.handleLoad)
		r.Post("/ask", s.handleAsk)
		r.Get("/summary", s.handleSummary)
		r.Get("/documents", s.handleDocuments)
		r.Get("/documents/{name}", s.handleDocument)
		r.Get("/search", s.handleSearch)
	})
	s.router = r

	return s, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("HTTP API listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("%s %s -> %d (%s) [%s]",
			r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Millisecond),
			middleware.GetReqID(r.Context()))
	})
}
