package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/seismic2word/internal/config"
	"github.com/dgallion1/seismic2word/internal/document"
	"github.com/dgallion1/seismic2word/internal/metrics"
	"github.com/dgallion1/seismic2word/internal/outline"
	"github.com/dgallion1/seismic2word/internal/session"
)

const overviewMarkup = `<div data-testid="page.divider"><div class="seismic-page-divider-view __heading1">` +
	`<span class="seismic-page-divider-view-text">Overview</span></div></div>` +
	`<div data-testid="page.paragraph"><div class="seismic-page-RichTextView-content">` +
	`<h2>Details</h2><ul><li>Step 1</li></ul></div></div>` +
	`<div data-testid="page.divider"><div class="seismic-page-divider-view __heading1">` +
	`<span class="seismic-page-divider-view-text">Appendix</span></div></div>` +
	`<div data-testid="page.table"><table><tr><th>Name</th><th>Age</th></tr><tr><td>Ann</td><td>30</td></tr></table></div>`

func newTestServer(t *testing.T, apiKey string, maxInput int64) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := session.NewStore(time.Hour, log)
	cfg := config.Config{
		Port:          "8090",
		APIKey:        apiKey,
		LogLevel:      "info",
		MaxInputBytes: maxInput,
		SessionTTL:    time.Hour,
	}
	return NewServer(store, metrics.New(store.Len), log, cfg)
}

func do(t *testing.T, srv http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

type snapshotResponse struct {
	SessionID string            `json:"session_id"`
	Summary   document.Summary  `json:"summary"`
	Selected  int               `json:"selected"`
	Sections  []outline.Section `json:"sections"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, "", 1<<20), "GET", "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestConvert(t *testing.T) {
	srv := newTestServer(t, "", 1<<20)
	rec := do(t, srv, "POST", "/api/convert", overviewMarkup)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[struct {
		HTML     string            `json:"html"`
		Summary  document.Summary  `json:"summary"`
		Sections []outline.Section `json:"sections"`
	}](t, rec)
	assert.Equal(t, document.Summary{Blocks: 4, Tables: 1}, resp.Summary)
	assert.Len(t, resp.Sections, 3)
	assert.Contains(t, resp.HTML, ">Overview</h1>")
	assert.Contains(t, resp.HTML, ">Details</h2>")
	assert.Contains(t, resp.HTML, "<li style=\"margin:4px 0;\">Step 1</li>")
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name     string
		maxInput int64
		body     string
		want     int
	}{
		{"empty input", 1 << 20, "   ", http.StatusBadRequest},
		{"no content", 1 << 20, "<p>just a paragraph</p>", http.StatusUnprocessableEntity},
		{"too large", 16, overviewMarkup, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(t, "", tt.maxInput), "POST", "/api/convert", tt.body)
			assert.Equal(t, tt.want, rec.Code)
			resp := decode[map[string]string](t, rec)
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestAuth(t *testing.T) {
	srv := newTestServer(t, "secret", 1<<20)

	assert.Equal(t, http.StatusUnauthorized, do(t, srv, "GET", "/api/stats", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, srv, "GET", "/api/stats", "", "Authorization", "Bearer wrong").Code)
	assert.Equal(t, http.StatusOK, do(t, srv, "GET", "/api/stats", "", "Authorization", "Bearer secret").Code)

	// Health and metrics stay public.
	assert.Equal(t, http.StatusOK, do(t, srv, "GET", "/health", "").Code)
	assert.Equal(t, http.StatusOK, do(t, srv, "GET", "/metrics", "").Code)
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t, "", 1<<20)

	rec := do(t, srv, "POST", "/api/sessions", overviewMarkup)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[snapshotResponse](t, rec)
	require.NotEmpty(t, created.SessionID)
	require.Len(t, created.Sections, 3)
	assert.Equal(t, 3, created.Selected)
	base := "/api/sessions/" + created.SessionID

	rec = do(t, srv, "GET", base, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.SessionID, decode[snapshotResponse](t, rec).SessionID)

	// Deselecting "Overview" takes "Details" with it.
	rec = do(t, srv, "POST", base+"/sections/0/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	sel := decode[snapshotResponse](t, rec)
	assert.Equal(t, 1, sel.Selected)
	assert.False(t, sel.Sections[1].Selected)

	rec = do(t, srv, "GET", base+"/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	out := rec.Body.String()
	assert.NotContains(t, out, "Overview")
	assert.NotContains(t, out, "Step 1")
	assert.Contains(t, out, ">Appendix</h1>")
	assert.Contains(t, out, `<meta charset="utf-8">`)

	rec = do(t, srv, "POST", base+"/deselect-all", "")
	assert.Equal(t, 0, decode[snapshotResponse](t, rec).Selected)

	rec = do(t, srv, "POST", base+"/select-all", "")
	assert.Equal(t, 3, decode[snapshotResponse](t, rec).Selected)

	rec = do(t, srv, "GET", base+"/export?format=markdown", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# Overview")

	rec = do(t, srv, "GET", base+"/export?format=docx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, docxContentType, rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"), "docx is a zip package")

	assert.Equal(t, http.StatusBadRequest, do(t, srv, "GET", base+"/export?format=pdf", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, "POST", base+"/sections/abc/toggle", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, "POST", base+"/sections/42/toggle", "").Code)

	assert.Equal(t, http.StatusNoContent, do(t, srv, "DELETE", base, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, "GET", base, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, "DELETE", base, "").Code)
}

func TestSessionCreate_NoContent(t *testing.T) {
	srv := newTestServer(t, "", 1<<20)
	rec := do(t, srv, "POST", "/api/sessions", `<div>nothing here</div>`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 0, srv.sessions.Len())
}

func TestStatsAndMetrics(t *testing.T) {
	srv := newTestServer(t, "", 1<<20)
	do(t, srv, "POST", "/api/sessions", overviewMarkup)
	do(t, srv, "POST", "/api/convert", "")

	rec := do(t, srv, "GET", "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[struct {
		ParseLatency metrics.LatencySnapshot `json:"parse_latency"`
		Sessions     int                     `json:"sessions"`
	}](t, rec)
	assert.Equal(t, 2, stats.ParseLatency.Count)
	assert.Equal(t, 1, stats.Sessions)

	rec = do(t, srv, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `seismic2word_conversions_total{outcome="ok"} 1`)
	assert.Contains(t, body, `seismic2word_conversions_total{outcome="empty_input"} 1`)
	assert.Contains(t, body, "seismic2word_sessions_active 1")
}

func TestRequestLog_RecordsParseOutcome(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, nil))
	store := session.NewStore(time.Hour, log)
	cfg := config.Config{Port: "8090", LogLevel: "info", MaxInputBytes: 1 << 20, SessionTTL: time.Hour}
	srv := NewServer(store, metrics.New(store.Len), log, cfg)

	do(t, srv, "POST", "/api/convert", "<p>just a paragraph</p>")
	do(t, srv, "POST", "/api/convert", overviewMarkup)

	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		if entry["msg"] == "request" {
			lines = append(lines, entry)
		}
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "no_content", lines[0]["outcome"])
	assert.EqualValues(t, http.StatusUnprocessableEntity, lines[0]["status"])
	assert.Equal(t, "ok", lines[1]["outcome"])
	assert.EqualValues(t, 4, lines[1]["blocks"])
}
