package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dgallion1/seismic2word/internal/document"
	"github.com/dgallion1/seismic2word/internal/metrics"
	"github.com/dgallion1/seismic2word/internal/outline"
	"github.com/dgallion1/seismic2word/internal/parser"
	"github.com/dgallion1/seismic2word/internal/render"
)

// handleConvert renders the whole document in one call, every section selected.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.parseBody(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"html":     render.Render(doc),
		"summary":  doc.Summarize(),
		"sections": outline.Derive(doc),
	})
}

// parseBody parses the raw request body as page markup. On failure it
// writes the error response and returns false.
func (s *Server) parseBody(w http.ResponseWriter, r *http.Request) (document.Document, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxInputBytes)

	start := time.Now()
	doc, err := parser.Parse(r.Body)

	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
	case errors.Is(err, parser.ErrEmptyInput):
		outcome = metrics.OutcomeEmptyInput
	case errors.Is(err, parser.ErrNoContent):
		outcome = metrics.OutcomeNoContent
	default:
		outcome = metrics.OutcomeError
	}
	s.metrics.ObserveParse(time.Since(start), doc.Len(), outcome)
	annotate(r, "outcome", outcome, "blocks", doc.Len())

	if err == nil {
		return doc, true
	}

	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		jsonError(w, fmt.Sprintf("input exceeds max size (%d bytes)", s.cfg.MaxInputBytes), http.StatusRequestEntityTooLarge)
	case errors.Is(err, parser.ErrEmptyInput):
		jsonError(w, "please supply Seismic page markup", http.StatusBadRequest)
	case errors.Is(err, parser.ErrNoContent):
		jsonError(w, "no content found; make sure the Seismic article markup was copied", http.StatusUnprocessableEntity)
	default:
		s.log.Warn("parse failed", "error", err)
		jsonError(w, "failed to parse input: "+err.Error(), http.StatusBadRequest)
	}
	return document.Document{}, false
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
