package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/logger"
)

// LoadRequest is the optional body of POST /api/load.
type LoadRequest struct {
	Bucket string `json:"bucket"`
}

// AskRequest is the body of POST /api/ask.
type AskRequest struct {
	Question string `json:"question"`
}

// DocumentsResponse is the body of GET /api/documents.
type DocumentsResponse struct {
	Documents []domain.DocumentInfo `json:"documents"`
	Count     int                   `json:"count"`
}

// DocumentResponse is the body of GET /api/documents/{name}.
type DocumentResponse struct {
	Name           string              `json:"name"`
	Type           domain.DocumentType `json:"type"`
	Text           string              `json:"text"`
	SourceLocation string              `json:"source_location"`
}

// SearchResponse is the body of GET /api/search.
type SearchResponse struct {
	Query   string             `json:"query"`
	Results []domain.SearchHit `json:"results"`
	Count   int                `json:"count"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"documents": len(s.assistant.ListDocuments()),
	})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req LoadRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bucket := req.Bucket
	if bucket == "" {
		bucket = s.bucket
	}
	if bucket == "" {
		writeError(w, http.StatusBadRequest, "bucket is required")
		return
	}

	report, err := s.assistant.Load(r.Context(), bucket)
	if err != nil {
		logger.Warn("Load of %s failed: %v", bucket, err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer := s.assistant.Ask(r.Context(), question)
	if answer.Sources == nil {
		answer.Sources = []string{}
	}
	writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.assistant.Summarize(r.Context()))
}

func (s *Server) handleDocuments(w http.ResponseWriter, _ *http.Request) {
	docs := s.assistant.ListDocuments()
	if docs == nil {
		docs = []domain.DocumentInfo{}
	}
	writeJSON(w, http.StatusOK, DocumentsResponse{Documents: docs, Count: len(docs)})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	doc, err := s.assistant.Document(name)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, DocumentResponse{
		Name:           doc.ID,
		Type:           doc.Type,
		Text:           doc.Text,
		SourceLocation: doc.SourceLocation,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	hits := s.assistant.Search(query)
	if hits == nil {
		hits = []domain.SearchHit{}
	}
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	writeJSON(w, http.StatusOK, SearchResponse{Query: query, Results: hits, Count: len(hits)})
}

// decodeBody decodes a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidURI):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("Writing response failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
