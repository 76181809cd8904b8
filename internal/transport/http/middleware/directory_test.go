package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/config"
	"hrms/internal/platform/requestctx"
)

func TestAnonymousDirectoryPolicies(t *testing.T) {
	cases := []struct {
		policy string
		query  string
		want   bool
	}{
		{config.DirectoryOff, "?search=ana", false},
		{config.DirectoryFiltered, "", false},
		{config.DirectoryFiltered, "?anything=1", true},
		{config.DirectoryAllowlist, "", false},
		{config.DirectoryAllowlist, "?limit=5", false},
		{config.DirectoryAllowlist, "?department=Engineering&limit=5", true},
		{config.DirectoryAllowlist, "?query=ana&sort=name_asc", true},
		{config.DirectoryAllowlist, "?search=ana&include=salary", false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/employees"+tc.query, nil)
		assert.Equal(t, tc.want, AnonymousDirectoryAllowed(tc.policy, req), tc.policy+tc.query)
	}
}

func TestDirectoryRequiresReadPermissionForUsers(t *testing.T) {
	store := permissionFunc(func(role, permission string) (bool, error) {
		return role == auth.RoleEmployee && permission == auth.PermEmployeesRead, nil
	})
	guarded := Directory(config.DirectoryOff, store)(noContent())

	anon := httptest.NewRecorder()
	guarded.ServeHTTP(anon, httptest.NewRequest(http.MethodGet, "/api/v1/employees?search=a", nil))
	assert.Equal(t, http.StatusUnauthorized, anon.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	req = req.WithContext(requestctx.WithUser(req.Context(), auth.UserContext{UserID: "u", Role: auth.RoleEmployee}))
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	req = req.WithContext(requestctx.WithUser(req.Context(), auth.UserContext{UserID: "u", Role: "contractor"}))
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
