package shared

import (
	"errors"
	"log/slog"
	"net/http"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/documents"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/exchange"
	"hrms/internal/domain/offboarding"
	"hrms/internal/domain/validation"
	"hrms/internal/platform/requestctx"
	"hrms/internal/transport/http/api"
)

// WriteError maps a domain error onto the response envelope. Anything it
// does not recognise is logged and reported as an internal error.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.GetRequestID(r.Context())
	if issues, ok := validation.As(err); ok {
		FailValidation(w, requestID, issues)
		return
	}
	switch {
	case errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
	case errors.Is(err, employee.ErrUnknownSection):
		api.Fail(w, http.StatusNotFound, "not_found", "unknown section", requestID)
	case errors.Is(err, employee.ErrDuplicateCode):
		api.Fail(w, http.StatusConflict, "duplicate_employee_code", "employee code already exists", requestID)
	case errors.Is(err, offboarding.ErrExists):
		api.Fail(w, http.StatusConflict, "offboarding_exists", "offboarding already exists for this employee", requestID)
	case errors.Is(err, offboarding.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "offboarding not found", requestID)
	case errors.Is(err, offboarding.ErrItemNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "checklist item not found", requestID)
	case errors.Is(err, documents.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "document not found", requestID)
	case errors.Is(err, documents.ErrFileMissing):
		api.Fail(w, http.StatusNotFound, "file_missing", "document file is missing", requestID)
	case errors.Is(err, documents.ErrNotAnImage):
		FailField(w, requestID, "file", "must be an image")
	case errors.Is(err, exchange.ErrUnsupportedFormat):
		FailField(w, requestID, "format", "must be one of csv, xlsx")
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
	case errors.Is(err, auth.ErrMFARequired):
		api.Fail(w, http.StatusUnauthorized, "mfa_required", "mfa code required", requestID)
	case errors.Is(err, auth.ErrMFAInvalid):
		api.Fail(w, http.StatusUnauthorized, "mfa_invalid", "invalid mfa code", requestID)
	case errors.Is(err, auth.ErrMFAUnavailable):
		api.Fail(w, http.StatusBadRequest, "mfa_unavailable", "mfa requires encryption key", requestID)
	case errors.Is(err, auth.ErrMFANotConfigured):
		api.Fail(w, http.StatusBadRequest, "mfa_missing", "mfa setup required", requestID)
	case errors.Is(err, auth.ErrInvalidResetToken):
		api.Fail(w, http.StatusBadRequest, "invalid_token", "invalid or expired token", requestID)
	case errors.Is(err, auth.ErrUserNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", requestID)
	case errors.Is(err, auth.ErrUserExists):
		api.Fail(w, http.StatusConflict, "user_exists", "user email already exists", requestID)
	default:
		slog.ErrorContext(r.Context(), "request failed", "requestId", requestID, "path", r.URL.Path, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}
