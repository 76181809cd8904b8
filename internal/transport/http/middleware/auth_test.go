package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/requestctx"
)

func TestAuthMiddlewareSetsUser(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", Email: "hr@example.com", Role: auth.RoleHR}, time.Hour)
	require.NoError(t, err)

	var user auth.UserContext
	var ok bool
	handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok = GetUser(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, ok)
	assert.Equal(t, "u1", user.UserID)
	assert.Equal(t, auth.RoleHR, user.Role)
}

func TestAuthMiddlewareIgnoresBadTokens(t *testing.T) {
	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer not-a-jwt"} {
		handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := GetUser(r.Context())
			assert.False(t, ok, header)
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func TestRequireUserRejectsAnonymous(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireUser(noContent()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type permissionFunc func(role, permission string) (bool, error)

func (f permissionFunc) HasPermission(_ context.Context, role, permission string) (bool, error) {
	return f(role, permission)
}

func TestRequirePermission(t *testing.T) {
	store := permissionFunc(func(role, permission string) (bool, error) {
		if role == "broken" {
			return false, errors.New("policy unavailable")
		}
		return role == auth.RoleHR && permission == auth.PermEmployeesWrite, nil
	})
	guarded := RequirePermission(auth.PermEmployeesWrite, store)(noContent())

	cases := []struct {
		role   string
		status int
	}{
		{"", http.StatusUnauthorized},
		{auth.RoleEmployee, http.StatusForbidden},
		{"broken", http.StatusInternalServerError},
		{auth.RoleHR, http.StatusNoContent},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if tc.role != "" {
			req = req.WithContext(requestctx.WithUser(req.Context(), auth.UserContext{UserID: "u", Role: tc.role}))
		}
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		assert.Equal(t, tc.status, rec.Code, tc.role)
	}
}
