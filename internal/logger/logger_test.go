package logger_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"ms-events/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := logger.NewLogger(logger.Options{Level: "warn", Out: &buf})
	require.NoError(t, err)

	l.Info("APP", "hidden")
	l.Warn("APP", "shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "[APP")
	assert.Contains(t, out, "shown")
}

func TestFileOutputIsJSON(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	l, err := logger.NewLogger(logger.Options{Dir: dir, Out: &buf})
	require.NoError(t, err)

	l.Error("database", "connection refused")
	l.Close()

	files, err := filepath.Glob(filepath.Join(dir, "event-service-*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	f, err := os.Open(files[0])
	require.NoError(t, err)
	defer f.Close()

	var found bool
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry logger.LogEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		if entry.Message == "connection refused" {
			found = true
			assert.Equal(t, "ERROR", entry.Level)
			assert.Equal(t, "DATABASE", entry.Category)
		}
	}
	assert.True(t, found)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.DEBUG, logger.ParseLevel("debug"))
	assert.Equal(t, logger.WARN, logger.ParseLevel("WARNING"))
	assert.Equal(t, logger.INFO, logger.ParseLevel(""))
	assert.Equal(t, logger.INFO, logger.ParseLevel("verbose"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := logger.NewLogger(logger.Options{Out: &buf})
	require.NoError(t, err)

	h := logger.RequestLogger(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/events/", nil)
	req.Header.Set(logger.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(logger.RequestIDHeader))
	assert.Contains(t, buf.String(), "GET /api/events/ - 418")
	assert.Contains(t, buf.String(), "request_id=req-123")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get(logger.RequestIDHeader))
}
