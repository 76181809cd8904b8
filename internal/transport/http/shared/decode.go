package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"hrms/internal/domain/employee"
	"hrms/internal/platform/requestctx"
	"hrms/internal/transport/http/api"
)

// DecodeJSON reads the body into dst and answers 400 itself when the body is
// not valid JSON. It reports whether the handler should continue.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		failPayload(w, r, err)
		return false
	}
	return true
}

// DecodePatch reads a flat employee payload.
func DecodePatch(w http.ResponseWriter, r *http.Request) (employee.Patch, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		failPayload(w, r, err)
		return nil, false
	}
	patch, err := employee.DecodePatch(body)
	if err != nil {
		failPayload(w, r, err)
		return nil, false
	}
	return patch, true
}

func failPayload(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.GetRequestID(r.Context())
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
		return
	}
	api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
}
