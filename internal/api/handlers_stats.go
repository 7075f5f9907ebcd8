package api

import "net/http"

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"parse_latency": s.metrics.Latency.Snapshot(),
		"sessions":      s.sessions.Len(),
	})
}
