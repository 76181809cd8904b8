package shared

import (
	"net/http"

	"hrms/internal/domain/validation"
	"hrms/internal/transport/http/api"
)

func FailValidation(w http.ResponseWriter, requestID string, issues []validation.Issue) {
	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		"validation_error",
		"payload validation failed",
		map[string]any{"fields": issues},
		requestID,
	)
}

// FailField rejects a request over a single field.
func FailField(w http.ResponseWriter, requestID, field, reason string) {
	FailValidation(w, requestID, []validation.Issue{{Field: field, Reason: reason}})
}
