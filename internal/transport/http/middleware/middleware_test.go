package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type routeSample struct {
	route  string
	status int
}

type sampleRecorder struct {
	samples []routeSample
}

func (s *sampleRecorder) Record(route string, status int, _ time.Duration) {
	s.samples = append(s.samples, routeSample{route: route, status: status})
}

func TestLoggerRecordsRoutePattern(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	recorder := &sampleRecorder{}

	r := chi.NewRouter()
	r.Use(RequestID, Logger(logger, recorder))
	r.Get("/employees/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/employees/abc", nil))

	if assert.Len(t, recorder.samples, 1) {
		assert.Equal(t, "GET /employees/{id}", recorder.samples[0].route)
		assert.Equal(t, http.StatusNotFound, recorder.samples[0].status)
	}
	assert.Contains(t, logs.String(), `"status":404`)
	assert.Contains(t, logs.String(), `"requestId"`)
}

func TestBodyLimitUsesUploadCeilingForMultipart(t *testing.T) {
	var readErr error
	handler := BodyLimit(8, 64)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 32)))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Error(t, readErr)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 32)))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.NoError(t, readErr)
}

func TestSecureHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecureHeaders(true)(noContent()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}
