package systemhandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/metrics"
	"hrms/internal/platform/rbac"
	"hrms/internal/platform/requestctx"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newRouter(t *testing.T, ready Pinger) (http.Handler, *metrics.Collector) {
	t.Helper()
	enforcer, err := rbac.New(rbac.DefaultPolicy())
	require.NoError(t, err)
	collector := metrics.New()
	h := NewHandler(collector, ready, enforcer)
	r := chi.NewRouter()
	h.RegisterProbes(r)
	h.RegisterRoutes(r)
	return r, collector
}

func TestProbes(t *testing.T) {
	router, _ := newRouter(t, pingFunc(func(context.Context) error { return nil }))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	down, _ := newRouter(t, pingFunc(func(context.Context) error { return errors.New("down") }))
	rec = httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsRequiresPermission(t *testing.T) {
	router, collector := newRouter(t, nil)
	collector.Record("GET /employees", http.StatusOK, 5*time.Millisecond)
	collector.RecordImport(3, 1)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req = req.WithContext(requestctx.WithUser(req.Context(), auth.UserContext{UserID: "a", Role: auth.RoleAdmin}))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body.Data["requestsTotal"])
	assert.EqualValues(t, 3, body.Data["importedRowsTotal"])
}
