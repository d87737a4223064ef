package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neon-time/backend/internal/db/dbtest"
	"neon-time/backend/internal/log"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, pool *dbtest.Pool) *Server {
	t.Helper()
	s, err := NewServer(pool, Options{CORSOrigin: "http://localhost:5173", Logger: log.Discard()})
	require.NoError(t, err)
	s.Now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

func do(s *Server, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	s.R.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestDBTimeOK(t *testing.T) {
	pool := &dbtest.Pool{Now: time.Date(2024, 5, 17, 12, 30, 15, 250_000_000, time.UTC)}
	s := newTestServer(t, pool)

	w := do(s, http.MethodGet, "/api/neon")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"time": "2024-05-17T12:30:15.250Z"}, decode(t, w))
	assert.Equal(t, 1, pool.Acquired())
	assert.Equal(t, 1, pool.Released())
}

func TestDBTimeUnreachable(t *testing.T) {
	pool := &dbtest.Pool{AcquireErr: errors.New("failed to connect to `host=127.0.0.1 user=demo database=demo`: dial error")}
	s := newTestServer(t, pool)

	w := do(s, http.MethodGet, "/api/neon")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, pool.AcquireErr.Error(), body["error"])
	assert.NotContains(t, body, "time")
}

func TestDBTimeQueryFailure(t *testing.T) {
	pool := &dbtest.Pool{QueryErr: errors.New("ERROR: permission denied (SQLSTATE 42501)")}
	s := newTestServer(t, pool)

	w := do(s, http.MethodGet, "/api/neon")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "ERROR: permission denied (SQLSTATE 42501)", decode(t, w)["error"])
	assert.Equal(t, 1, pool.Released())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &dbtest.Pool{AcquireErr: errors.New("down")})

	w := do(s, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","timestamp":"2024-01-02T03:04:05Z"}`, w.Body.String())
}

func TestReady(t *testing.T) {
	w := do(newTestServer(t, &dbtest.Pool{}), http.MethodGet, "/ready")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(newTestServer(t, &dbtest.Pool{AcquireErr: errors.New("down")}), http.MethodGet, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "database not reachable", decode(t, w)["error"])
}

func TestPage(t *testing.T) {
	pool := &dbtest.Pool{}
	w := do(newTestServer(t, pool), http.MethodGet, "/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	html := w.Body.String()
	assert.Contains(t, html, "Neon Demo</h1>")
	assert.Contains(t, html, `<span id="db-time">Loading...</span>`)
	assert.Contains(t, html, "fetch(")
	assert.Contains(t, html, "data.time || data.error")
	// Rendering the page must not touch the database.
	assert.Zero(t, pool.Acquired())
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, &dbtest.Pool{})

	w := do(s, http.MethodOptions, "/api/neon")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, &dbtest.Pool{})

	w := do(s, http.MethodGet, "/health")
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	s.R.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
