package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/lexidx/lexidx/internal/errors"
	"github.com/lexidx/lexidx/internal/lexer"
)

// placeholderResults is returned by /api/search for every query until
// ranking exists.
var placeholderResults = []string{"hello.xml", "world.xml"}

// Stats is the body of a /api/stats response.
type Stats struct {
	Documents int `json:"documents"`
	Terms     int `json:"terms"`
}

func (s *Server) serveAsset(body []byte, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		s.writeError(w, r, errors.InvalidRequestError(fmt.Sprintf("cannot read request body: %v", err), err))
		return
	}
	if !utf8.Valid(body) {
		s.writeError(w, r, errors.InvalidRequestError("request body is not valid UTF-8", nil))
		return
	}

	terms := lexer.Tokenize(string(body))
	s.metrics.SearchQueriesTotal.Inc()
	s.metrics.SearchQueryTerms.Observe(float64(len(terms)))
	s.logger.Debug("search_request",
		slog.Int("body_bytes", len(body)),
		slog.Int("terms", len(terms)))

	s.writeJSON(w, http.StatusOK, placeholderResults)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.cfg.IndexPath == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeFileNotFound, "no index file configured", nil).
			WithSuggestion("Start the server with --index <file>"))
		return
	}

	stats, err := s.stats.get(s.cfg.IndexPath, s.cfg.IndexFormat)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	http.NotFound(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("response_encode_failed", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError sends err as a JSON error body with the status derived from
// its code.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatusCode(err)

	attrs := append([]any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
	}, errors.FormatForLog(err)...)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request_failed", attrs...)
	} else {
		s.logger.Warn("request_rejected", attrs...)
	}

	body, ferr := errors.FormatJSON(err)
	if ferr != nil {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
