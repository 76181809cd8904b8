package middleware

import (
	"net/http"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/config"
	"hrms/internal/transport/http/api"
)

// directoryFilters are the query parameters that make an anonymous listing a
// directory lookup. Pagination may accompany them but does not count alone.
var directoryFilters = map[string]bool{
	"search":     true,
	"query":      true,
	"department": true,
	"status":     true,
	"location":   true,
	"sort":       true,
}

var directoryPaging = map[string]bool{"limit": true, "offset": true}

// Directory guards the employee listing. Signed-in callers need the read
// permission; anonymous callers are let through according to policy.
func Directory(policy string, store PermissionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		guarded := RequirePermission(auth.PermEmployeesRead, store)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetUser(r.Context()); ok {
				guarded.ServeHTTP(w, r)
				return
			}
			if !AnonymousDirectoryAllowed(policy, r) {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func AnonymousDirectoryAllowed(policy string, r *http.Request) bool {
	query := r.URL.Query()
	switch policy {
	case config.DirectoryFiltered:
		return len(query) > 0
	case config.DirectoryAllowlist:
		filtered := false
		for key := range query {
			switch {
			case directoryFilters[key]:
				filtered = true
			case directoryPaging[key]:
			default:
				return false
			}
		}
		return filtered
	default:
		return false
	}
}
