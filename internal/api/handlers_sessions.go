package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/seismic2word/internal/export"
	"github.com/dgallion1/seismic2word/internal/outline"
	"github.com/dgallion1/seismic2word/internal/render"
	"github.com/dgallion1/seismic2word/internal/session"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	sess := s.sessions.Create(doc)
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

// lookup resolves the {sessionID} URL parameter, writing a 404 on failure.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "sessionID")); err != nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleSection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "sectionID"))
	if err != nil {
		jsonError(w, "section id must be an integer", http.StatusBadRequest)
		return
	}
	if !sess.HasSection(id) {
		jsonError(w, fmt.Sprintf("section %d not found", id), http.StatusNotFound)
		return
	}
	s.writeSelection(w, "toggle", sess.Toggle(id))
}

func (s *Server) handleSelectAll(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.writeSelection(w, "select_all", sess.SelectAll())
}

func (s *Server) handleDeselectAll(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.writeSelection(w, "deselect_all", sess.DeselectAll())
}

func (s *Server) writeSelection(w http.ResponseWriter, action string, sections []outline.Section) {
	s.metrics.SelectionChanges.WithLabelValues(action).Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"sections": sections,
		"selected": outline.CountSelected(sections),
	})
}

// handleExport renders the session's filtered document as html (default),
// markdown or docx.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "html"
	}

	var buf bytes.Buffer
	var sink export.Sink
	var contentType string
	switch format {
	case "html":
		sink, contentType = export.WriterSink{W: &buf, Label: "response"}, "text/html; charset=utf-8"
	case "markdown":
		sink, contentType = export.MarkdownSink{W: &buf}, "text/markdown; charset=utf-8"
	case "docx":
		sink, contentType = export.DocxSink{W: &buf}, docxContentType
	default:
		jsonError(w, fmt.Sprintf("unsupported format %q (want html, markdown or docx)", format), http.StatusBadRequest)
		return
	}

	doc := sess.Filtered()
	payload := export.Payload{Document: doc, HTML: render.Render(doc, render.WithCharset())}
	err := export.Export(r.Context(), s.log, sink, payload)
	s.metrics.ObserveExport(format, err)
	annotate(r, "format", format, "session_id", sess.ID)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if format == "docx" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+sess.ID+`.docx"`)
	}
	w.Write(buf.Bytes())
}
